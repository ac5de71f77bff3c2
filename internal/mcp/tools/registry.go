package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/pkg/logging"
)

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server   *sdkmcp.Server
	sessions *Sessions
	logger   *logging.Logger
}

// Register applies the provided tool options. Every tool resolves the
// calling session's engine through sessions.
func Register(server *sdkmcp.Server, sessions *Sessions, logger *logging.Logger, opts ...Option) {
	if logger == nil {
		logger = logging.NewNop()
	}
	reg := &registry{server: server, sessions: sessions, logger: logger}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
}
