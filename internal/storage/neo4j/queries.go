package neo4j

import (
	"fmt"
	"strings"

	"github.com/honeycarbs/review-search/internal/domain"
)

// Filter bounds are inclusive. A nil bound parameter disables the clause.

const companySearchQuery = `
	MATCH (c:Company)
	WHERE ($query = '' OR toLower(c.name) CONTAINS $query OR toLower(coalesce(c.description, '')) CONTAINS $query)
	  AND ($ratingGt IS NULL OR c.avgRating >= $ratingGt)
	  AND ($ratingLt IS NULL OR c.avgRating <= $ratingLt)
	OPTIONAL MATCH (r:Review)-[:FOR]->(c)
	WITH c, count(r) AS reviewCount
	ORDER BY %s
	SKIP $skip LIMIT $limit
	RETURN c {
		.id, .slug, .name, .description, .logoSrc, .avgRating, .jobLocations,
		reviewCount: reviewCount
	} AS item
`

const jobSearchQuery = `
	MATCH (j:Job)
	OPTIONAL MATCH (j)-[:POSTED_BY]->(c:Company)
	WITH j, c
	WHERE ($query = '' OR toLower(j.name) CONTAINS $query OR toLower(coalesce(c.name, '')) CONTAINS $query
	       OR toLower(coalesce(j.location, '')) CONTAINS $query)
	  AND ($ratingGt IS NULL OR j.avgRating >= $ratingGt)
	  AND ($ratingLt IS NULL OR j.avgRating <= $ratingLt)
	  AND ($salaryGt IS NULL OR j.hourlySalaryMax >= $salaryGt)
	  AND ($salaryLt IS NULL OR j.hourlySalaryMin <= $salaryLt)
	OPTIONAL MATCH (r:Review)-[:ABOUT]->(j)
	WITH j, c, count(r) AS reviewCount
	ORDER BY %s
	SKIP $skip LIMIT $limit
	RETURN j {
		.id, .slug, .name, .location, .hourlySalaryMin, .hourlySalaryMax, .hourlySalaryCurrency, .avgRating,
		reviewCount: reviewCount,
		companyName: c.name
	} AS item
`

const reviewSearchQuery = `
	MATCH (r:Review)
	OPTIONAL MATCH (r)-[:ABOUT]->(j:Job)
	OPTIONAL MATCH (r)-[:FOR]->(c:Company)
	WITH r, j, c
	WHERE ($query = '' OR toLower(coalesce(r.body, '')) CONTAINS $query OR toLower(coalesce(j.name, '')) CONTAINS $query
	       OR toLower(coalesce(c.name, '')) CONTAINS $query)
	  AND ($ratingGt IS NULL OR r.overallRating >= $ratingGt)
	  AND ($ratingLt IS NULL OR r.overallRating <= $ratingLt)
	  AND ($salaryGt IS NULL OR r.salary >= $salaryGt)
	  AND ($salaryLt IS NULL OR r.salary <= $salaryLt)
	ORDER BY %s
	SKIP $skip LIMIT $limit
	RETURN r {
		.id, .body, .tags, .author, .createdAt, .overallRating, .salary, .salaryPeriod,
		companyName: c.name,
		jobName: j.name,
		jobLocation: j.location
	} AS item
`

var orderings = map[domain.SearchType]map[domain.Sort]string{
	domain.SearchCompanies: {
		domain.SortRelevance:    "reviewCount DESC, c.id",
		domain.SortAlphabetical: "c.name, c.id",
		domain.SortRating:       "c.avgRating DESC, c.id",
		domain.SortNewest:       "c.createdAt DESC, c.id",
	},
	domain.SearchJobs: {
		domain.SortRelevance:    "reviewCount DESC, j.id",
		domain.SortAlphabetical: "j.name, j.id",
		domain.SortRating:       "j.avgRating DESC, j.id",
		domain.SortSalary:       "j.hourlySalaryMax DESC, j.id",
		domain.SortNewest:       "j.createdAt DESC, j.id",
	},
	domain.SearchReviews: {
		domain.SortRelevance:    "r.createdAt DESC, r.id",
		domain.SortAlphabetical: "c.name, r.id",
		domain.SortRating:       "r.overallRating DESC, r.id",
		domain.SortSalary:       "r.salary DESC, r.id",
		domain.SortNewest:       "r.createdAt DESC, r.id",
	},
}

var templates = map[domain.SearchType]string{
	domain.SearchCompanies: companySearchQuery,
	domain.SearchJobs:      jobSearchQuery,
	domain.SearchReviews:   reviewSearchQuery,
}

// buildSearch renders the Cypher statement and its parameters. limit rows
// are requested; callers ask for one extra row to learn whether more exist.
func buildSearch(vars domain.Variables, skip, limit int) (string, map[string]any, error) {
	tmpl, ok := templates[vars.Type]
	if !ok {
		return "", nil, fmt.Errorf("neo4j: unsupported search type %q", vars.Type)
	}
	order, ok := orderings[vars.Type][vars.Search.Sort]
	if !ok {
		// a sort the type has no column for keeps relevance order
		order = orderings[vars.Type][domain.SortRelevance]
	}

	f := vars.Search.Filters
	params := map[string]any{
		"query":    strings.ToLower(strings.TrimSpace(vars.Search.Query)),
		"ratingGt": optional(f.OverallRatingGt),
		"ratingLt": optional(f.OverallRatingLt),
		"skip":     int64(skip),
		"limit":    int64(limit),
	}
	switch vars.Type {
	case domain.SearchJobs:
		params["salaryGt"] = optional(f.SalaryHourlyAmountGt)
		params["salaryLt"] = optional(f.SalaryHourlyAmountLt)
	case domain.SearchReviews:
		params["salaryGt"] = optional(f.SalaryAmountGt)
		params["salaryLt"] = optional(f.SalaryAmountLt)
	}

	return fmt.Sprintf(tmpl, order), params, nil
}

func optional(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
