package tools

import (
	"context"
	"fmt"
	"net/url"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/domain/search"
)

// Sharer persists query parameters under shareable ids
type Sharer interface {
	Share(ctx context.Context, values url.Values) (string, error)
	Resume(ctx context.Context, id string) (url.Values, error)
}

// ShareParams defines the arguments for the search_share tool
type ShareParams struct{}

// ShareResult is returned by search_share
type ShareResult struct {
	ID     string `json:"id" jsonschema:"Reference to pass to search_resume"`
	Params string `json:"params" jsonschema:"Encoded query parameters that were stored"`
}

// ResumeParams defines the arguments for the search_resume tool
type ResumeParams struct {
	ID    string `json:"id" jsonschema:"Reference returned by search_share"`
	Async bool   `json:"async,omitempty" jsonschema:"Return without waiting for the first page"`
}

// WithShare registers search_share and search_resume backed by sharer.
// Nothing is registered when sharer is nil.
func WithShare(sharer Sharer) Option {
	return func(reg *registry) {
		if sharer == nil {
			reg.logger.Warn("share store not configured, skipping search_share and search_resume")
			return
		}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_share",
			Description: "Store the current search parameters and return a shareable reference",
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ ShareParams) (*sdkmcp.CallToolResult, any, error) {
			return reg.searchShare(ctx, req, sharer)
		})

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_resume",
			Description: "Start a new search from a reference created by search_share",
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ResumeParams) (*sdkmcp.CallToolResult, any, error) {
			return reg.searchResume(ctx, req, sharer, params)
		})
	}
}

func (r *registry) searchShare(ctx context.Context, req *sdkmcp.CallToolRequest, sharer Sharer) (*sdkmcp.CallToolResult, any, error) {
	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	values := search.ParamsOf(c.engine.Snapshot())
	id, err := sharer.Share(ctx, values)
	if err != nil {
		return nil, nil, fmt.Errorf("share search: %w", err)
	}

	res := ShareResult{ID: id, Params: values.Encode()}
	return textResult(fmt.Sprintf("[search_share] id=%s params=%s", res.ID, res.Params)), res, nil
}

func (r *registry) searchResume(ctx context.Context, req *sdkmcp.CallToolRequest, sharer Sharer, params ResumeParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	values, err := sharer.Resume(ctx, params.ID)
	if err != nil {
		return nil, nil, err
	}
	q, _, err := search.ParseQuery(values)
	if err != nil {
		return nil, nil, err
	}

	c.dispatcher.Cancel()
	if err := c.engine.StartNewSearch(q); err != nil {
		return nil, nil, err
	}
	if err := settle(ctx, c.engine, params.Async); err != nil {
		return nil, nil, err
	}

	view := search.NewView(c.engine.Snapshot(), 0)
	return viewResult("search_resume", view), view, nil
}
