package search

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/honeycarbs/review-search/internal/domain"
)

// Transform maps raw records of one page into card items. Every record must
// map to exactly one item; a record of an unexpected shape fails the whole
// page so the item count used for exhaustion stays truthful.
func Transform(t domain.SearchType, records []domain.RawRecord) ([]domain.CardItem, error) {
	out := make([]domain.CardItem, 0, len(records))
	for i, rec := range records {
		item, err := TransformRecord(t, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// TransformRecord maps a single raw record into its CardItem variant
func TransformRecord(t domain.SearchType, rec domain.RawRecord) (domain.CardItem, error) {
	switch t {
	case domain.SearchCompanies:
		if rec.Company != nil {
			return companyCard(rec.Company), nil
		}
	case domain.SearchJobs:
		if rec.Job != nil {
			return jobCard(rec.Job), nil
		}
	case domain.SearchReviews:
		r := rec.Review
		switch {
		case r == nil:
		case r.Job != nil && r.Company != nil:
			return reviewJobCard(r), nil
		case r.Job == nil && r.Author != "":
			return reviewUserCard(r), nil
		}
	default:
		return nil, configErr("type", "type not specified for search: %q", t)
	}
	return nil, fmt.Errorf("%w: %s record for %s search", ErrUnrecognizedRecord, shapeOf(rec), t)
}

func companyCard(c *domain.RawCompany) *domain.CompanyCard {
	return &domain.CompanyCard{
		ID:           idOrNew(c.ID),
		Slug:         c.Slug,
		Name:         c.Name,
		Description:  c.Description,
		LogoSrc:      c.LogoSrc,
		AvgRating:    c.ScoreAverages.Overall,
		NumRatings:   c.Reviews.Count,
		JobLocations: c.JobLocations,
	}
}

func jobCard(j *domain.RawJob) *domain.JobCard {
	card := &domain.JobCard{
		ID:              idOrNew(j.ID),
		Slug:            j.Slug,
		Name:            j.Name,
		JobLocation:     j.Location,
		HourlySalaryMin: j.HourlySalaryMin,
		HourlySalaryMax: j.HourlySalaryMax,
		SalaryCurrency:  j.HourlySalaryCurrency,
		AvgRating:       j.AvgRating,
		NumRatings:      j.Reviews.Count,
	}
	if j.Company != nil {
		card.CompanyName = j.Company.Name
	}
	return card
}

func reviewJobCard(r *domain.RawReview) *domain.ReviewJobCard {
	return &domain.ReviewJobCard{
		ID:          idOrNew(r.ID),
		CompanyName: r.Company.Name,
		JobName:     r.Job.Name,
		JobLocation: r.Job.Location,
		Rating:      r.OverallRating,
		Body:        r.Body,
		Tags:        splitTags(r.Tags),
		CreatedAt:   r.CreatedAt,
	}
}

func reviewUserCard(r *domain.RawReview) *domain.ReviewUserCard {
	return &domain.ReviewUserCard{
		ID:        idOrNew(r.ID),
		Author:    r.Author,
		Rating:    r.OverallRating,
		Body:      r.Body,
		Tags:      splitTags(r.Tags),
		CreatedAt: r.CreatedAt,
	}
}

// splitTags splits the comma-delimited tag string reviews are stored with
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func shapeOf(rec domain.RawRecord) string {
	switch {
	case rec.Company != nil:
		return "company"
	case rec.Job != nil:
		return "job"
	case rec.Review != nil:
		return "review"
	case rec.Typename != "":
		return rec.Typename
	}
	return "empty"
}
