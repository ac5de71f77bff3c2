package graphql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/honeycarbs/review-search/internal/domain"
	"github.com/honeycarbs/review-search/internal/domain/search"
	"github.com/honeycarbs/review-search/pkg/graphql"
)

// queryClient describes the subset of the GraphQL client used by the provider.
type queryClient interface {
	Do(ctx context.Context, op graphql.Request, out any) error
}

// Provider implements search.Transport against the review GraphQL API
type Provider struct {
	client queryClient
}

// NewProvider builds a GraphQL provider
func NewProvider(client queryClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("graphql provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "graphql"
}

type listing struct {
	Count      int               `json:"count"`
	Items      []json.RawMessage `json:"items"`
	LastCursor *string           `json:"lastCursor"`
	HasMore    *bool             `json:"hasMore"`
}

type typename struct {
	Typename string `json:"__typename"`
}

// Fetch runs the search document for vars.Type and decodes one page
func (p *Provider) Fetch(ctx context.Context, vars domain.Variables) (domain.Page, error) {
	if p == nil || p.client == nil {
		return domain.Page{}, fmt.Errorf("graphql provider: client is nil")
	}

	doc, ok := documents[vars.Type]
	if !ok {
		return domain.Page{}, fmt.Errorf("graphql provider: no document for search type %q", vars.Type)
	}

	var data map[string]*listing
	err := p.client.Do(ctx, graphql.Request{
		Query:         doc.query,
		OperationName: doc.operation,
		Variables:     vars,
	}, &data)
	if err != nil {
		return domain.Page{}, err
	}

	field := vars.Type.DataField()
	l := data[field]
	if l == nil {
		return domain.Page{}, fmt.Errorf("graphql provider: response has no %q field", field)
	}

	records := make([]domain.RawRecord, 0, len(l.Items))
	for i, raw := range l.Items {
		rec, err := decodeRecord(vars.Type, raw)
		if err != nil {
			return domain.Page{}, fmt.Errorf("graphql provider: %s item %d: %w", field, i, err)
		}
		records = append(records, rec)
	}

	page := domain.Page{
		Items:  records,
		Count:  l.Count,
		Cursor: l.LastCursor,
	}
	if page.Cursor != nil && *page.Cursor == "" {
		page.Cursor = nil
	}
	// servers without hasMore signal the end by omitting the cursor
	if l.HasMore != nil {
		page.HasMore = *l.HasMore
	} else {
		page.HasMore = page.Cursor != nil
	}
	return page, nil
}

func decodeRecord(t domain.SearchType, raw json.RawMessage) (domain.RawRecord, error) {
	var tn typename
	if err := json.Unmarshal(raw, &tn); err != nil {
		return domain.RawRecord{}, err
	}
	rec := domain.RawRecord{Typename: tn.Typename}

	switch t {
	case domain.SearchCompanies:
		rec.Company = &domain.RawCompany{}
		return rec, json.Unmarshal(raw, rec.Company)
	case domain.SearchJobs:
		rec.Job = &domain.RawJob{}
		return rec, json.Unmarshal(raw, rec.Job)
	case domain.SearchReviews:
		rec.Review = &domain.RawReview{}
		return rec, json.Unmarshal(raw, rec.Review)
	}
	return rec, fmt.Errorf("unsupported search type %q", t)
}

var _ search.Transport = (*Provider)(nil)
