package neo4j

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/review-search/internal/domain"
)

const upsertCompaniesQuery = `
	UNWIND $companies AS company
	MERGE (c:Company {id: company.id})
	SET c.slug = company.slug,
	    c.name = company.name,
	    c.description = company.description,
	    c.logoSrc = company.logoSrc,
	    c.avgRating = company.avgRating,
	    c.jobLocations = company.jobLocations
`

const upsertJobsQuery = `
	UNWIND $jobs AS job
	MERGE (j:Job {id: job.id})
	SET j.slug = job.slug,
	    j.name = job.name,
	    j.location = job.location,
	    j.hourlySalaryMin = job.hourlySalaryMin,
	    j.hourlySalaryMax = job.hourlySalaryMax,
	    j.hourlySalaryCurrency = job.hourlySalaryCurrency,
	    j.avgRating = job.avgRating
	WITH j, job
	WHERE job.companyName <> ''
	MERGE (c:Company {name: job.companyName})
	ON CREATE SET c.id = randomUUID()
	MERGE (j)-[:POSTED_BY]->(c)
`

const upsertReviewsQuery = `
	UNWIND $reviews AS review
	MERGE (r:Review {id: review.id})
	SET r.body = review.body,
	    r.tags = review.tags,
	    r.author = review.author,
	    r.createdAt = review.createdAt,
	    r.overallRating = review.overallRating,
	    r.salary = review.salary,
	    r.salaryPeriod = review.salaryPeriod
	WITH r, review
	FOREACH (_ IN CASE WHEN review.companyName <> '' THEN [1] ELSE [] END |
		MERGE (c:Company {name: review.companyName})
		ON CREATE SET c.id = randomUUID()
		MERGE (r)-[:FOR]->(c)
	)
	WITH r, review
	WHERE review.jobName <> ''
	MERGE (j:Job {name: review.jobName, location: review.jobLocation})
	ON CREATE SET j.id = randomUUID()
	MERGE (r)-[:ABOUT]->(j)
`

// IndexRecords merges raw search records into the graph so they can be served
// by Fetch. Records without an ID get a generated one.
func (s *SearchStore) IndexRecords(ctx context.Context, records []domain.RawRecord) error {
	if len(records) == 0 {
		return nil
	}

	var companies, jobs, reviews []map[string]any
	for i, rec := range records {
		switch {
		case rec.Company != nil:
			c := rec.Company
			companies = append(companies, map[string]any{
				"id":           idOrNew(c.ID),
				"slug":         c.Slug,
				"name":         c.Name,
				"description":  c.Description,
				"logoSrc":      c.LogoSrc,
				"avgRating":    c.ScoreAverages.Overall,
				"jobLocations": c.JobLocations,
			})
		case rec.Job != nil:
			j := rec.Job
			companyName := ""
			if j.Company != nil {
				companyName = j.Company.Name
			}
			jobs = append(jobs, map[string]any{
				"id":                   idOrNew(j.ID),
				"slug":                 j.Slug,
				"name":                 j.Name,
				"location":             j.Location,
				"hourlySalaryMin":      j.HourlySalaryMin,
				"hourlySalaryMax":      j.HourlySalaryMax,
				"hourlySalaryCurrency": j.HourlySalaryCurrency,
				"avgRating":            j.AvgRating,
				"companyName":          companyName,
			})
		case rec.Review != nil:
			r := rec.Review
			companyName, jobName, jobLocation := "", "", ""
			if r.Company != nil {
				companyName = r.Company.Name
			}
			if r.Job != nil {
				jobName, jobLocation = r.Job.Name, r.Job.Location
			}
			reviews = append(reviews, map[string]any{
				"id":            idOrNew(r.ID),
				"body":          r.Body,
				"tags":          r.Tags,
				"author":        r.Author,
				"createdAt":     r.CreatedAt,
				"overallRating": r.OverallRating,
				"salary":        r.Salary,
				"salaryPeriod":  r.SalaryPeriod,
				"companyName":   companyName,
				"jobName":       jobName,
				"jobLocation":   jobLocation,
			})
		default:
			return fmt.Errorf("neo4j: record %d has no payload", i)
		}
	}

	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		batches := []struct {
			query string
			key   string
			rows  []map[string]any
		}{
			{upsertCompaniesQuery, "companies", companies},
			{upsertJobsQuery, "jobs", jobs},
			{upsertReviewsQuery, "reviews", reviews},
		}
		for _, b := range batches {
			if len(b.rows) == 0 {
				continue
			}
			result, err := tx.Run(ctx, b.query, map[string]any{b.key: b.rows})
			if err != nil {
				return nil, fmt.Errorf("upsert %s: %w", b.key, err)
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})

	return err
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
