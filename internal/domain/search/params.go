package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/honeycarbs/review-search/internal/domain"
)

// Query parameter keys
const (
	ParamText   = "q"
	ParamSort   = "sort"
	ParamType   = "type"
	ParamRating = "rating"
	ParamSalary = "salary"
)

// ParseQuery reads a query from persisted parameters. defined is false when
// no text parameter is present, which means no search has been made yet.
func ParseQuery(values url.Values) (q domain.Query, defined bool, err error) {
	q.Type = domain.SearchCompanies
	if raw := values.Get(ParamType); raw != "" {
		if q.Type, err = domain.ParseSearchType(raw); err != nil {
			return domain.Query{}, false, configErr(ParamType, "%v", err)
		}
	}

	if q.Sort, err = domain.ParseSort(values.Get(ParamSort)); err != nil {
		return domain.Query{}, false, configErr(ParamSort, "%v", err)
	}

	if q.Rating, err = parseRange(ParamRating, values.Get(ParamRating)); err != nil {
		return domain.Query{}, false, err
	}
	if q.Salary, err = parseRange(ParamSalary, values.Get(ParamSalary)); err != nil {
		return domain.Query{}, false, err
	}
	if err := validateRange(ParamRating, q.Rating); err != nil {
		return domain.Query{}, false, err
	}
	if err := validateRange(ParamSalary, q.Salary); err != nil {
		return domain.Query{}, false, err
	}

	_, defined = values[ParamText]
	q.Text = values.Get(ParamText)
	return q, defined, nil
}

// EncodeQuery is the inverse of ParseQuery
func EncodeQuery(q domain.Query) url.Values {
	v := url.Values{}
	v.Set(ParamText, q.Text)
	if q.Type != "" {
		v.Set(ParamType, string(q.Type))
	}
	if q.Sort != domain.SortRelevance {
		v.Set(ParamSort, string(q.Sort))
	}
	if !q.Rating.Empty() {
		v.Set(ParamRating, formatRange(q.Rating))
	}
	if !q.Salary.Empty() {
		v.Set(ParamSalary, formatRange(q.Salary))
	}
	return v
}

// parseRange reads "min,max"; either side may be empty
func parseRange(field, raw string) (domain.Range, error) {
	var r domain.Range
	if raw == "" {
		return r, nil
	}
	lo, hi, ok := strings.Cut(raw, ",")
	if !ok {
		return r, configErr(field, "expected min,max but got %q", raw)
	}
	var err error
	if r.Min, err = parseBound(field, lo); err != nil {
		return domain.Range{}, err
	}
	if r.Max, err = parseBound(field, hi); err != nil {
		return domain.Range{}, err
	}
	return r, nil
}

func parseBound(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, configErr(field, "malformed bound %q", raw)
	}
	return &f, nil
}

func formatRange(r domain.Range) string {
	return formatBound(r.Min) + "," + formatBound(r.Max)
}

func formatBound(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// MemoryStore is a ParamStore holding values in memory, the stand-in for a
// browser URL
type MemoryStore struct {
	mu     sync.Mutex
	values url.Values
}

// NewMemoryStore seeds the store with initial values
func NewMemoryStore(initial url.Values) *MemoryStore {
	return &MemoryStore{values: cloneValues(initial)}
}

func (m *MemoryStore) Load(context.Context) (url.Values, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneValues(m.values), nil
}

func (m *MemoryStore) Save(_ context.Context, values url.Values) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = cloneValues(values)
	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
