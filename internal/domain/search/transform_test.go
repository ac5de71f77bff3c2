package search

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/review-search/internal/domain"
)

func TestTransformRecordVariants(t *testing.T) {
	t.Run("company", func(t *testing.T) {
		item, err := TransformRecord(domain.SearchCompanies, domain.RawRecord{Company: &domain.RawCompany{
			ID:            "c1",
			Slug:          "acme",
			Name:          "Acme",
			ScoreAverages: domain.ScoreAverages{Overall: 4.2},
			Reviews:       domain.CountRef{Count: 17},
			JobLocations:  []string{"Toronto, ON", "Ottawa, ON"},
		}})
		require.NoError(t, err)
		require.Equal(t, domain.KindCompany, item.Kind())

		card := item.(*domain.CompanyCard)
		require.Equal(t, "Acme", card.Name)
		require.Equal(t, 4.2, card.AvgRating)
		require.Equal(t, 17, card.NumRatings)
		require.Equal(t, "Toronto, ON", card.Location())
	})

	t.Run("job", func(t *testing.T) {
		item, err := TransformRecord(domain.SearchJobs, domain.RawRecord{Job: &domain.RawJob{
			ID:              "j1",
			Name:            "Intern",
			Location:        "Waterloo, ON",
			HourlySalaryMin: 18,
			HourlySalaryMax: 24,
			Company:         &domain.NameRef{Name: "Acme"},
		}})
		require.NoError(t, err)
		require.Equal(t, domain.KindJob, item.Kind())

		card := item.(*domain.JobCard)
		require.Equal(t, "Acme", card.CompanyName)
		require.Equal(t, 24.0, card.HourlySalaryMax)
		require.Equal(t, "Waterloo, ON", card.Location())
	})

	t.Run("review with job and company", func(t *testing.T) {
		item, err := TransformRecord(domain.SearchReviews, domain.RawRecord{Review: &domain.RawReview{
			ID:            "r1",
			Body:          "Great team",
			Tags:          "mentorship, flexible hours,,",
			OverallRating: 5,
			Company:       &domain.NameRef{Name: "Acme"},
			Job:           &domain.RawReviewJob{Name: "Intern", Location: "Waterloo, ON"},
		}})
		require.NoError(t, err)
		require.Equal(t, domain.KindReviewByJob, item.Kind())

		card := item.(*domain.ReviewJobCard)
		require.Equal(t, []string{"mentorship", "flexible hours"}, card.Tags)
		require.Equal(t, "Intern", card.JobName)
	})

	t.Run("review by author", func(t *testing.T) {
		item, err := TransformRecord(domain.SearchReviews, domain.RawRecord{Review: &domain.RawReview{
			ID:     "r2",
			Author: "sam",
			Body:   "ok",
		}})
		require.NoError(t, err)
		require.Equal(t, domain.KindReviewByUser, item.Kind())
		require.Empty(t, item.Location())
		require.Nil(t, item.(*domain.ReviewUserCard).Tags)
	})
}

func TestTransformRecordMissingIDGetsOne(t *testing.T) {
	item, err := TransformRecord(domain.SearchCompanies, domain.RawRecord{Company: &domain.RawCompany{Name: "Anon"}})
	require.NoError(t, err)

	_, err = uuid.Parse(item.Key())
	require.NoError(t, err)
}

func TestTransformRecordUnrecognized(t *testing.T) {
	tests := []struct {
		name string
		typ  domain.SearchType
		rec  domain.RawRecord
	}{
		{name: "job under companies", typ: domain.SearchCompanies, rec: domain.RawRecord{Job: &domain.RawJob{ID: "j"}}},
		{name: "empty record", typ: domain.SearchJobs, rec: domain.RawRecord{}},
		{name: "review without job or author", typ: domain.SearchReviews, rec: domain.RawRecord{Review: &domain.RawReview{ID: "r"}}},
		{name: "review with job but no company", typ: domain.SearchReviews, rec: domain.RawRecord{Review: &domain.RawReview{
			Job: &domain.RawReviewJob{Name: "x"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransformRecord(tt.typ, tt.rec)
			require.ErrorIs(t, err, ErrUnrecognizedRecord)
			require.Equal(t, ErrorNormalization, classify(err))
		})
	}
}

func TestTransformRecordUnknownType(t *testing.T) {
	_, err := TransformRecord("", domain.RawRecord{Company: &domain.RawCompany{}})
	require.True(t, errors.Is(err, ErrConfiguration))
}

func TestTransformPreservesOrderAndFailsWholePage(t *testing.T) {
	records := []domain.RawRecord{
		{Job: &domain.RawJob{ID: "a"}},
		{Job: &domain.RawJob{ID: "b"}},
		{Job: &domain.RawJob{ID: "c"}},
	}
	items, err := Transform(domain.SearchJobs, records)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{items[0].Key(), items[1].Key(), items[2].Key()})

	records = append(records, domain.RawRecord{Company: &domain.RawCompany{ID: "d"}})
	items, err = Transform(domain.SearchJobs, records)
	require.ErrorIs(t, err, ErrUnrecognizedRecord)
	require.Contains(t, err.Error(), "record 3")
	require.Nil(t, items)
}
