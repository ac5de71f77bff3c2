package search

import (
	"strings"

	"github.com/honeycarbs/review-search/internal/domain"
)

// ComposeVariables maps a query to the fetch variables for its search type.
// Only filters relevant to the type are included and a range is sent only
// when both of its bounds are set.
func ComposeVariables(q domain.Query) (domain.Variables, error) {
	if err := validateRange("rating", q.Rating); err != nil {
		return domain.Variables{}, err
	}
	if err := validateRange("salary", q.Salary); err != nil {
		return domain.Variables{}, err
	}

	var f domain.Filters
	switch q.Type {
	case domain.SearchCompanies:
		f.OverallRatingGt, f.OverallRatingLt = bounds(q.Rating)
	case domain.SearchJobs:
		f.OverallRatingGt, f.OverallRatingLt = bounds(q.Rating)
		f.SalaryHourlyAmountGt, f.SalaryHourlyAmountLt = bounds(q.Salary)
	case domain.SearchReviews:
		f.OverallRatingGt, f.OverallRatingLt = bounds(q.Rating)
		f.SalaryAmountGt, f.SalaryAmountLt = bounds(q.Salary)
	default:
		return domain.Variables{}, configErr("type", "type not specified for search: %q", q.Type)
	}

	return domain.Variables{
		Type: q.Type,
		Search: domain.SearchInput{
			Query:   strings.TrimSpace(q.Text),
			Sort:    q.Sort,
			Filters: f,
		},
	}, nil
}

func bounds(r domain.Range) (*float64, *float64) {
	if !r.Complete() {
		return nil, nil
	}
	lo, hi := *r.Min, *r.Max
	return &lo, &hi
}

func validateRange(field string, r domain.Range) error {
	if r.Complete() && *r.Min > *r.Max {
		return configErr(field, "lower bound %v exceeds upper bound %v", *r.Min, *r.Max)
	}
	if r.Min != nil && *r.Min < 0 {
		return configErr(field, "negative lower bound %v", *r.Min)
	}
	if r.Max != nil && *r.Max < 0 {
		return configErr(field, "negative upper bound %v", *r.Max)
	}
	return nil
}
