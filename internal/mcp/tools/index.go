package tools

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/domain"
)

// Indexer stores raw search records so later searches can find them
type Indexer interface {
	IndexRecords(ctx context.Context, records []domain.RawRecord) error
}

// IndexParams defines the arguments for the search_index tool
type IndexParams struct {
	Companies []domain.RawCompany `json:"companies,omitempty"`
	Jobs      []domain.RawJob     `json:"jobs,omitempty"`
	Reviews   []domain.RawReview  `json:"reviews,omitempty"`
}

// IndexResult is returned by search_index
type IndexResult struct {
	Companies int `json:"companies"`
	Jobs      int `json:"jobs"`
	Reviews   int `json:"reviews"`
}

var indexInputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"companies": {
			"type": "array",
			"description": "Company records: id, slug, name, description, logoSrc, scoreAverages.overall, reviews.count, jobLocations",
			"items": { "type": "object" }
		},
		"jobs": {
			"type": "array",
			"description": "Job records: id, slug, name, location, hourlySalaryMin, hourlySalaryMax, hourlySalaryCurrency, avgRating, reviews.count, company.name",
			"items": { "type": "object" }
		},
		"reviews": {
			"type": "array",
			"description": "Review records: id, body, tags, author, createdAt, overallRating, salary, salaryPeriod, company.name, job.name, job.location",
			"items": { "type": "object" }
		}
	}
}`)

// WithIndex registers the search_index developer tool. Nothing is registered
// when indexer is nil.
func WithIndex(indexer Indexer) Option {
	return func(reg *registry) {
		if indexer == nil {
			return
		}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_index",
			Description: "Developer tool that loads companies, jobs and reviews into the review graph",
			InputSchema: indexInputSchema,
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params IndexParams) (*sdkmcp.CallToolResult, any, error) {
			return indexRecords(ctx, indexer, params)
		})
	}
}

func indexRecords(ctx context.Context, indexer Indexer, params IndexParams) (*sdkmcp.CallToolResult, any, error) {
	records := make([]domain.RawRecord, 0, len(params.Companies)+len(params.Jobs)+len(params.Reviews))
	for i := range params.Companies {
		records = append(records, domain.RawRecord{Typename: "Company", Company: &params.Companies[i]})
	}
	for i := range params.Jobs {
		records = append(records, domain.RawRecord{Typename: "Job", Job: &params.Jobs[i]})
	}
	for i := range params.Reviews {
		records = append(records, domain.RawRecord{Typename: "Review", Review: &params.Reviews[i]})
	}

	if err := indexer.IndexRecords(ctx, records); err != nil {
		return nil, nil, fmt.Errorf("index records: %w", err)
	}

	res := IndexResult{Companies: len(params.Companies), Jobs: len(params.Jobs), Reviews: len(params.Reviews)}
	msg := fmt.Sprintf("[search_index] companies=%d jobs=%d reviews=%d", res.Companies, res.Jobs, res.Reviews)
	return textResult(msg), res, nil
}
