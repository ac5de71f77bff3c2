package search

import (
	"net/url"
	"time"

	"github.com/honeycarbs/review-search/internal/domain"
)

// QueryInput is the flat wire form of a query accepted from clients
type QueryInput struct {
	Text      string   `json:"text,omitempty" jsonschema:"free text to search for"`
	Type      string   `json:"type,omitempty" jsonschema:"COMPANIES, JOBS or REVIEWS; defaults to COMPANIES"`
	Sort      string   `json:"sort,omitempty" jsonschema:"ALPHABETICAL, RATING, SALARY or NEWEST; empty keeps relevance order"`
	RatingMin *float64 `json:"ratingMin,omitempty" jsonschema:"lower overall rating bound"`
	RatingMax *float64 `json:"ratingMax,omitempty" jsonschema:"upper overall rating bound"`
	SalaryMin *float64 `json:"salaryMin,omitempty" jsonschema:"lower salary bound, hourly for jobs"`
	SalaryMax *float64 `json:"salaryMax,omitempty" jsonschema:"upper salary bound, hourly for jobs"`
}

// Query converts the input, rejecting unknown types and sorts
func (in QueryInput) Query() (domain.Query, error) {
	q := domain.Query{
		Text:   in.Text,
		Type:   domain.SearchCompanies,
		Rating: domain.Range{Min: in.RatingMin, Max: in.RatingMax},
		Salary: domain.Range{Min: in.SalaryMin, Max: in.SalaryMax},
	}

	var err error
	if in.Type != "" {
		if q.Type, err = domain.ParseSearchType(in.Type); err != nil {
			return domain.Query{}, configErr("type", "%v", err)
		}
	}
	if q.Sort, err = domain.ParseSort(in.Sort); err != nil {
		return domain.Query{}, configErr("sort", "%v", err)
	}
	return q, nil
}

// InputOf is the inverse of QueryInput.Query
func InputOf(q domain.Query) QueryInput {
	return QueryInput{
		Text:      q.Text,
		Type:      string(q.Type),
		Sort:      string(q.Sort),
		RatingMin: q.Rating.Min,
		RatingMax: q.Rating.Max,
		SalaryMin: q.Salary.Min,
		SalaryMax: q.Salary.Max,
	}
}

// View is the JSON form of a Snapshot pushed to clients
type View struct {
	SessionID  string                `json:"sessionId"`
	Generation uint64                `json:"generation"`
	State      State                 `json:"state"`
	Query      QueryInput            `json:"query"`
	Params     string                `json:"params"`
	Items      []domain.CardEnvelope `json:"items"`
	Offset     int                   `json:"offset"`
	Total      int                   `json:"total"`
	Pages      int                   `json:"pages"`
	HasMore    bool                  `json:"hasMore"`
	Loading    bool                  `json:"loading"`
	Error      string                `json:"error,omitempty"`
	ErrorKind  ErrorKind             `json:"errorKind,omitempty"`
	Partial    bool                  `json:"partial,omitempty"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// NewView renders snap, carrying only the items from offset on so clients
// that already hold earlier pages receive the appended tail
func NewView(snap Snapshot, offset int) View {
	if offset < 0 || offset > len(snap.Items) {
		offset = 0
	}

	return View{
		SessionID:  snap.SessionID.String(),
		Generation: snap.Generation,
		State:      snap.State,
		Query:      InputOf(snap.Query),
		Params:     ParamsOf(snap).Encode(),
		Items:      domain.Envelopes(snap.Items[offset:]),
		Offset:     offset,
		Total:      len(snap.Items),
		Pages:      snap.Pages,
		HasMore:    snap.Defined && !snap.Exhausted,
		Loading:    snap.Loading,
		Error:      snap.Err,
		ErrorKind:  snap.ErrKind,
		Partial:    snap.Partial,
		UpdatedAt:  snap.UpdatedAt,
	}
}

// ParamsOf returns the query parameters describing snap. An undefined
// search carries no text parameter.
func ParamsOf(snap Snapshot) url.Values {
	params := EncodeQuery(snap.Query)
	if !snap.Defined {
		params.Del(ParamText)
	}
	return params
}
