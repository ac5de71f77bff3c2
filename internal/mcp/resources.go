package mcp

import (
	"context"
	"sync"

	"github.com/honeycarbs/review-search/internal/config"
	"github.com/honeycarbs/review-search/internal/domain/search"
	"github.com/honeycarbs/review-search/internal/mcp/tools"
	"github.com/honeycarbs/review-search/pkg/logging"
)

// Resources holds the backends shared by every client session
type Resources struct {
	Transport    search.Transport
	Shares       ShareStore
	SheetsClient tools.SheetsClient // nil when Sheets is not configured
	Indexer      tools.Indexer      // nil unless the backend can store records

	cleanup func()
	once    sync.Once
}

// LoadResources wires every backend named by cfg
func LoadResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, error) {
	res, cleanup, err := InitializeResources(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize resources", "backend", cfg.Search.Backend, "err", err)
		return nil, err
	}
	res.cleanup = cleanup

	logger.Info("resources initialized",
		"backend", res.Transport.Name(),
		"export", res.SheetsClient != nil,
		"index", res.Indexer != nil,
	)
	return res, nil
}

// Shutdown releases backend connections
func (r *Resources) Shutdown(context.Context) error {
	r.once.Do(func() {
		if r.cleanup != nil {
			r.cleanup()
		}
	})
	return nil
}
