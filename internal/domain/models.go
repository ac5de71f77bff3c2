package domain

import (
	"fmt"
	"strings"
)

// SearchType selects which collection a search session browses
type SearchType string

const (
	SearchCompanies SearchType = "COMPANIES"
	SearchJobs      SearchType = "JOBS"
	SearchReviews   SearchType = "REVIEWS"
)

// ParseSearchType converts a raw string to a SearchType
func ParseSearchType(s string) (SearchType, error) {
	t := SearchType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case SearchCompanies, SearchJobs, SearchReviews:
		return t, nil
	}
	return "", fmt.Errorf("unknown search type %q", s)
}

// DataField is the name of the response field carrying a page for this type
func (t SearchType) DataField() string {
	switch t {
	case SearchCompanies:
		return "companies"
	case SearchJobs:
		return "jobs"
	case SearchReviews:
		return "reviews"
	}
	return ""
}

// Sort orders results server-side. The zero value keeps relevance order.
type Sort string

const (
	SortRelevance    Sort = ""
	SortAlphabetical Sort = "ALPHABETICAL"
	SortRating       Sort = "RATING"
	SortSalary       Sort = "SALARY"
	SortNewest       Sort = "NEWEST"
)

// ParseSort converts a raw string to a Sort
func ParseSort(s string) (Sort, error) {
	v := Sort(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case SortRelevance, SortAlphabetical, SortRating, SortSalary, SortNewest:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// Range is a numeric filter. Either bound may be unset.
type Range struct {
	Min *float64
	Max *float64
}

// NewRange builds a range with both bounds set
func NewRange(lo, hi float64) Range {
	return Range{Min: &lo, Max: &hi}
}

// Complete reports whether both bounds are set
func (r Range) Complete() bool {
	return r.Min != nil && r.Max != nil
}

// Empty reports whether neither bound is set
func (r Range) Empty() bool {
	return r.Min == nil && r.Max == nil
}

// Query is the canonical search descriptor (SearchQueryState).
// A Query is treated as an immutable snapshot: changes produce a new value.
type Query struct {
	Text   string
	Sort   Sort
	Type   SearchType
	Rating Range
	Salary Range
}

// Filters holds the per-type numeric filter variables sent to a transport.
// Field names follow the review API's search input.
type Filters struct {
	OverallRatingGt      *float64 `json:"filterOverallRatingGt,omitempty"`
	OverallRatingLt      *float64 `json:"filterOverallRatingLt,omitempty"`
	SalaryHourlyAmountGt *float64 `json:"filterSalaryHourlyAmountGt,omitempty"`
	SalaryHourlyAmountLt *float64 `json:"filterSalaryHourlyAmountLt,omitempty"`
	SalaryAmountGt       *float64 `json:"filterSalaryAmountGt,omitempty"`
	SalaryAmountLt       *float64 `json:"filterSalaryAmountLt,omitempty"`
}

// SearchInput is the `search` argument of a fetch
type SearchInput struct {
	Query string `json:"query"`
	Sort  Sort   `json:"sort,omitempty"`
	Filters
}

// Variables fully describe one transport fetch
type Variables struct {
	Type   SearchType  `json:"-"`
	Search SearchInput `json:"search"`
	After  *string     `json:"after,omitempty"`
	Limit  int         `json:"limit,omitempty"`
}

// WithAfter returns a copy of v continuing from cursor
func (v Variables) WithAfter(cursor *string) Variables {
	v.After = cursor
	return v
}

// Page is one transport response. Count is the number of items in this page.
type Page struct {
	Items   []RawRecord
	Count   int
	Cursor  *string
	HasMore bool
}
