package search

import (
	"context"
	"net/url"

	"github.com/honeycarbs/review-search/internal/domain"
)

// Transport represents a backend able to serve one page of search results
// (GraphQL API, review graph, test fakes)
type Transport interface {
	// e.g. "graphql" or "neo4j"
	Name() string

	// Fetch returns the page following vars.After, or the first page when it is nil
	Fetch(ctx context.Context, vars domain.Variables) (domain.Page, error)
}

// ParamStore persists the query parameters of the active search so a
// session can be resumed from a shareable reference
type ParamStore interface {
	Load(ctx context.Context) (url.Values, error)
	Save(ctx context.Context, values url.Values) error
}
