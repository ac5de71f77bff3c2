package graphql

import "github.com/honeycarbs/review-search/internal/domain"

// Every document selects the same page envelope: count, items, lastCursor and
// hasMore under the type's data field.

const searchCompaniesDocument = `query SearchCompanies($search: CompaniesSearchInput, $after: String, $limit: Int) {
  companies(search: $search, after: $after, limit: $limit) {
    count
    lastCursor
    hasMore
    items {
      __typename
      id
      slug
      name
      description
      logoSrc
      scoreAverages { overall }
      reviews { count }
      jobLocations
    }
  }
}`

const searchJobsDocument = `query SearchJobs($search: JobsSearchInput, $after: String, $limit: Int) {
  jobs(search: $search, after: $after, limit: $limit) {
    count
    lastCursor
    hasMore
    items {
      __typename
      id
      slug
      name
      location
      hourlySalaryMin
      hourlySalaryMax
      hourlySalaryCurrency
      avgRating
      reviews { count }
      company { name }
    }
  }
}`

const searchReviewsDocument = `query SearchReviews($search: ReviewsSearchInput, $after: String, $limit: Int) {
  reviews(search: $search, after: $after, limit: $limit) {
    count
    lastCursor
    hasMore
    items {
      __typename
      id
      body
      tags
      author
      createdAt
      overallRating
      salary
      salaryPeriod
      company { name }
      job { name location }
    }
  }
}`

type document struct {
	operation string
	query     string
}

var documents = map[domain.SearchType]document{
	domain.SearchCompanies: {operation: "SearchCompanies", query: searchCompaniesDocument},
	domain.SearchJobs:      {operation: "SearchJobs", query: searchJobsDocument},
	domain.SearchReviews:   {operation: "SearchReviews", query: searchReviewsDocument},
}
