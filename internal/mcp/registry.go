package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/mcp/tools"
	"github.com/honeycarbs/review-search/pkg/logging"
)

type ToolRegistry struct {
	logger *logging.Logger
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

// RegisterAll installs the search tools plus whichever optional tools res
// can back
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, sessions *tools.Sessions, res *Resources) {
	opts := []tools.Option{tools.WithSearch()}
	if res.Shares != nil {
		opts = append(opts, tools.WithShare(res.Shares))
	}
	if res.SheetsClient != nil {
		opts = append(opts, tools.WithSheetsExport(res.SheetsClient))
	}
	if res.Indexer != nil {
		opts = append(opts, tools.WithIndex(res.Indexer))
	}

	tools.Register(server, sessions, r.logger, opts...)
}
