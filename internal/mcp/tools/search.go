package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/domain/search"
)

// StartParams defines the arguments for the search_start tool
type StartParams struct {
	Query search.QueryInput `json:"query" jsonschema:"Search type, sort, filters and text"`
	Async bool              `json:"async,omitempty" jsonschema:"Return without waiting for the first page"`
}

// TextParams defines the arguments for the search_input and search_submit tools
type TextParams struct {
	Text  string `json:"text,omitempty" jsonschema:"Current contents of the search box"`
	Async bool   `json:"async,omitempty" jsonschema:"Return without waiting for the fetch (search_submit only)"`
}

// BatchParams defines the arguments for the search_more and search_retry tools
type BatchParams struct {
	Async  bool `json:"async,omitempty" jsonschema:"Return without waiting for the fetch"`
	Offset int  `json:"offset,omitempty" jsonschema:"Number of items the client already holds; only later items are returned"`
}

// StateParams defines the arguments for the search_state tool
type StateParams struct {
	Offset int `json:"offset,omitempty" jsonschema:"Number of items the client already holds; only later items are returned"`
}

// StepResult reports whether a command started a fetch, with the view
// after it
type StepResult struct {
	Accepted bool `json:"accepted"`
	search.View
}

// WithSearch registers the search_start, search_input, search_submit,
// search_more, search_retry and search_state tools
func WithSearch() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_start",
			Description: "Start a new search for companies, jobs or reviews, discarding the current one",
		}, reg.searchStart)

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_input",
			Description: "Report a keystroke; the search runs once input settles for the quiet period",
		}, reg.searchInput)

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_submit",
			Description: "Search the given text now, keeping the current type, sort and filters",
		}, reg.searchSubmit)

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_more",
			Description: "Load the next batch of results for the current search",
		}, reg.searchMore)

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_retry",
			Description: "Re-issue the fetch that failed",
		}, reg.searchRetry)

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_state",
			Description: "Return the current search state and results",
		}, reg.searchState)
	}
}

func (r *registry) searchStart(ctx context.Context, req *sdkmcp.CallToolRequest, params StartParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	q, err := params.Query.Query()
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
	return viewResult("search_start", view), view, nil
}

func (r *registry) searchInput(ctx context.Context, req *sdkmcp.CallToolRequest, params TextParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	c.dispatcher.Push(params.Text)
	view := search.NewView(c.engine.Snapshot(), 0)
	return viewResult("search_input", view), view, nil
}

func (r *registry) searchSubmit(ctx context.Context, req *sdkmcp.CallToolRequest, params TextParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	c.dispatcher.Cancel()
	if err := c.engine.SearchText(params.Text); err != nil {
		return nil, nil, err
	}
	if err := settle(ctx, c.engine, params.Async); err != nil {
		return nil, nil, err
	}

	view := search.NewView(c.engine.Snapshot(), 0)
	return viewResult("search_submit", view), view, nil
}

func (r *registry) searchMore(ctx context.Context, req *sdkmcp.CallToolRequest, params BatchParams) (*sdkmcp.CallToolResult, any, error) {
	return r.step(ctx, req, "search_more", params, (*search.Engine).LoadNextBatch)
}

func (r *registry) searchRetry(ctx context.Context, req *sdkmcp.CallToolRequest, params BatchParams) (*sdkmcp.CallToolResult, any, error) {
	return r.step(ctx, req, "search_retry", params, (*search.Engine).Retry)
}

func (r *registry) step(ctx context.Context, req *sdkmcp.CallToolRequest, tool string, params BatchParams, cmd func(*search.Engine) bool) (*sdkmcp.CallToolResult, any, error) {
	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	accepted := cmd(c.engine)
	if accepted {
		if err := settle(ctx, c.engine, params.Async); err != nil {
			return nil, nil, err
		}
	}

	res := StepResult{Accepted: accepted, View: search.NewView(c.engine.Snapshot(), params.Offset)}
	out := viewResult(tool, res.View)
	if !accepted {
		out = textResult(fmt.Sprintf("[%s] nothing to fetch: state=%s", tool, res.State))
	}
	return out, res, nil
}

func (r *registry) searchState(ctx context.Context, req *sdkmcp.CallToolRequest, params StateParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	view := search.NewView(c.engine.Snapshot(), params.Offset)
	return viewResult("search_state", view), view, nil
}

// settle waits for the outstanding fetch unless the caller asked not to
func settle(ctx context.Context, engine *search.Engine, async bool) error {
	if async {
		return nil
	}
	if err := engine.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for search results: %w", err)
	}
	return nil
}
