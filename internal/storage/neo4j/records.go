package neo4j

import (
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/review-search/internal/domain"
)

func recordOf(t domain.SearchType, m map[string]any) (domain.RawRecord, error) {
	switch t {
	case domain.SearchCompanies:
		return domain.RawRecord{Typename: "Company", Company: &domain.RawCompany{
			ID:            str(m, "id"),
			Slug:          str(m, "slug"),
			Name:          str(m, "name"),
			Description:   str(m, "description"),
			LogoSrc:       str(m, "logoSrc"),
			ScoreAverages: domain.ScoreAverages{Overall: num(m, "avgRating")},
			Reviews:       domain.CountRef{Count: int(num(m, "reviewCount"))},
			JobLocations:  strs(m, "jobLocations"),
		}}, nil

	case domain.SearchJobs:
		job := &domain.RawJob{
			ID:                   str(m, "id"),
			Slug:                 str(m, "slug"),
			Name:                 str(m, "name"),
			Location:             str(m, "location"),
			HourlySalaryMin:      num(m, "hourlySalaryMin"),
			HourlySalaryMax:      num(m, "hourlySalaryMax"),
			HourlySalaryCurrency: str(m, "hourlySalaryCurrency"),
			AvgRating:            num(m, "avgRating"),
			Reviews:              domain.CountRef{Count: int(num(m, "reviewCount"))},
		}
		if name := str(m, "companyName"); name != "" {
			job.Company = &domain.NameRef{Name: name}
		}
		return domain.RawRecord{Typename: "Job", Job: job}, nil

	case domain.SearchReviews:
		review := &domain.RawReview{
			ID:            str(m, "id"),
			Body:          str(m, "body"),
			Tags:          tags(m["tags"]),
			Author:        str(m, "author"),
			CreatedAt:     str(m, "createdAt"),
			OverallRating: num(m, "overallRating"),
			Salary:        num(m, "salary"),
			SalaryPeriod:  str(m, "salaryPeriod"),
		}
		if name := str(m, "companyName"); name != "" {
			review.Company = &domain.NameRef{Name: name}
		}
		if name := str(m, "jobName"); name != "" {
			review.Job = &domain.RawReviewJob{Name: name, Location: str(m, "jobLocation")}
		}
		return domain.RawRecord{Typename: "Review", Review: review}, nil
	}
	return domain.RawRecord{}, fmt.Errorf("neo4j: unsupported search type %q", t)
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

func num(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func strs(m map[string]any, key string) []string {
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// tags accepts the comma-delimited string form or a list property
func tags(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	}
	return ""
}
