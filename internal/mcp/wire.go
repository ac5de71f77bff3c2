//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/review-search/internal/config"
	"github.com/honeycarbs/review-search/pkg/logging"
)

// InitializeResources creates Resources with all backends wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Search backend: GraphQL API or Neo4j review graph
		provideBackend,

		// Shared searches: Redis or in-memory
		provideShareStore,

		// Export
		provideSheetsClient,

		newResources,
	)

	return nil, nil, nil
}
