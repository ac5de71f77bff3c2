package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/review-search/internal/domain"
	"github.com/honeycarbs/review-search/internal/domain/search"

	pkgneo4j "github.com/honeycarbs/review-search/pkg/neo4j"
)

// Ensure SearchStore implements search.Transport
var _ search.Transport = (*SearchStore)(nil)

const defaultLimit = 20

// SearchStore serves search pages from the review graph
type SearchStore struct {
	client *pkgneo4j.Client
}

// NewSearchStore creates a SearchStore with a Neo4j client
func NewSearchStore(client *pkgneo4j.Client) *SearchStore {
	return &SearchStore{
		client: client,
	}
}

// Name returns transport identifier
func (s *SearchStore) Name() string {
	return "neo4j"
}

// Fetch runs an offset-paginated search. The cursor is opaque to callers.
func (s *SearchStore) Fetch(ctx context.Context, vars domain.Variables) (domain.Page, error) {
	skip, err := decodeCursor(vars.After)
	if err != nil {
		return domain.Page{}, err
	}
	limit := vars.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query, params, err := buildSearch(vars, skip, limit+1)
	if err != nil {
		return domain.Page{}, err
	}

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		rows, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		items := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			v, ok := row.Get("item")
			if !ok {
				continue
			}
			if m, ok := v.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items, nil
	})
	if err != nil {
		return domain.Page{}, fmt.Errorf("neo4j search %s: %w", vars.Type, err)
	}

	return pageOf(vars.Type, result.([]map[string]any), skip, limit)
}

// pageOf trims the probe row and derives the next cursor
func pageOf(t domain.SearchType, rows []map[string]any, skip, limit int) (domain.Page, error) {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := recordOf(t, row)
		if err != nil {
			return domain.Page{}, err
		}
		records = append(records, rec)
	}

	page := domain.Page{
		Items:   records,
		Count:   len(records),
		HasMore: hasMore,
	}
	if hasMore {
		next := encodeCursor(skip + len(records))
		page.Cursor = &next
	}
	return page, nil
}
