package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/honeycarbs/review-search/internal/config"
	"github.com/honeycarbs/review-search/internal/domain/search"
	"github.com/honeycarbs/review-search/pkg/logging"
)

// ShareParam names the WebSocket query parameter carrying a share reference
const ShareParam = "share"

// Engines builds one engine per client from the configured backend
type Engines struct {
	transport search.Transport
	shares    ShareStore
	cfg       config.Config
	logger    *logging.Logger
}

func NewEngines(cfg config.Config, transport search.Transport, shares ShareStore, logger *logging.Logger) *Engines {
	return &Engines{
		transport: transport,
		shares:    shares,
		cfg:       cfg,
		logger:    logger,
	}
}

func (e *Engines) options(store search.ParamStore, extra ...search.Option) []search.Option {
	opts := []search.Option{
		search.WithPageSize(e.cfg.Search.PageSize),
		search.WithFetchTimeout(e.cfg.Search.FetchTimeout),
		search.WithEmptyQueryInitial(e.cfg.Search.EmptyQueryInitial),
		search.WithParamStore(store),
		search.WithLogger(e.logger.Named("engine")),
	}
	return append(opts, extra...)
}

// ForSession builds the engine of an MCP session
func (e *Engines) ForSession(_ context.Context, store search.ParamStore) (*search.Engine, error) {
	return search.NewEngine(e.transport, e.options(store)...)
}

// ForRequest builds the engine of a WebSocket connection. The request URL
// plays the role of the browser URL: its query parameters seed the search,
// or ?share=<id> binds the connection to a shared reference. A defined
// query starts searching right away.
func (e *Engines) ForRequest(r *http.Request) (*search.Engine, error) {
	values := r.URL.Query()

	var store search.ParamStore
	if id := values.Get(ShareParam); id != "" && e.shares != nil {
		store = e.shares.Bind(id)
	} else {
		values.Del(ShareParam)
		store = search.NewMemoryStore(values)
	}

	q, defined, err := search.LoadQuery(r.Context(), store)
	if err != nil {
		return nil, err
	}

	engine, err := search.NewEngine(e.transport, e.options(store, search.WithInitialQuery(q))...)
	if err != nil {
		return nil, err
	}
	if defined {
		if err := engine.StartNewSearch(q); err != nil {
			engine.Close()
			return nil, fmt.Errorf("resume search: %w", err)
		}
	}
	return engine, nil
}
