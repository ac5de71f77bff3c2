package mcp

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/honeycarbs/review-search/internal/config"
	"github.com/honeycarbs/review-search/internal/domain/search"
	gqlprovider "github.com/honeycarbs/review-search/internal/domain/search/providers/graphql"
	"github.com/honeycarbs/review-search/internal/mcp/tools"
	neo4jstore "github.com/honeycarbs/review-search/internal/storage/neo4j"
	redisstore "github.com/honeycarbs/review-search/internal/storage/redis"
	"github.com/honeycarbs/review-search/pkg/graphql"
	"github.com/honeycarbs/review-search/pkg/logging"
	n4j "github.com/honeycarbs/review-search/pkg/neo4j"
	pkgredis "github.com/honeycarbs/review-search/pkg/redis"
	sheetsclient "github.com/honeycarbs/review-search/pkg/sheets"
)

// ShareStore keeps shareable search references. Bind returns a ParamStore
// that writes through to one reference.
type ShareStore interface {
	tools.Sharer
	Bind(id string) search.ParamStore
}

var (
	_ ShareStore = (*redisstore.ShareStore)(nil)
	_ ShareStore = (*memoryShareStore)(nil)
)

// backend is the configured search transport, plus an indexer when the
// backend can store records
type backend struct {
	transport search.Transport
	indexer   tools.Indexer
}

func provideBackend(cfg config.Config, logger *logging.Logger) (backend, func(), error) {
	switch cfg.Search.Backend {
	case config.BackendNeo4j:
		client, err := n4j.NewClient(provideNeo4jConfig(cfg))
		if err != nil {
			return backend{}, nil, err
		}
		logger.Info("Neo4j client initialized", "uri", cfg.Neo4j.URI)

		store := neo4jstore.NewSearchStore(client)
		cleanup := func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("failed to close Neo4j client", "err", err)
			}
		}
		return backend{transport: store, indexer: store}, cleanup, nil

	case config.BackendGraphQL:
		client, err := graphql.NewClient(provideGraphQLConfig(cfg))
		if err != nil {
			return backend{}, nil, err
		}
		provider, err := gqlprovider.NewProvider(client)
		if err != nil {
			return backend{}, nil, err
		}
		logger.Info("GraphQL provider initialized", "endpoint", cfg.GraphQL.Endpoint)
		return backend{transport: provider}, func() {}, nil
	}

	return backend{}, nil, fmt.Errorf("unknown search backend %q", cfg.Search.Backend)
}

func provideGraphQLConfig(cfg config.Config) graphql.Config {
	return graphql.Config{
		Endpoint:  cfg.GraphQL.Endpoint,
		Token:     cfg.GraphQL.Token,
		UserAgent: "review-search/0.1.0",
	}
}

func provideNeo4jConfig(cfg config.Config) n4j.Config {
	return n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	}
}

// provideShareStore uses Redis when REDIS_URL is set and keeps shares in
// memory otherwise
func provideShareStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (ShareStore, func(), error) {
	if cfg.Redis.URL == "" {
		logger.Warn("REDIS_URL not set, shared searches are kept in memory")
		return newMemoryShareStore(), func() {}, nil
	}

	rdb, err := pkgredis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Redis share store initialized", "ttl", cfg.Search.ShareTTL.String())

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close Redis client", "err", err)
		}
	}
	return redisstore.NewShareStore(rdb, cfg.Search.ShareTTL), cleanup, nil
}

// provideSheetsClient returns nil when no credentials are configured
func provideSheetsClient(ctx context.Context, cfg config.Config, logger *logging.Logger) (tools.SheetsClient, error) {
	if cfg.Sheets.CredentialsPath == "" {
		return nil, nil
	}

	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized")
	return newSheetsClientAdapter(client), nil
}

func newResources(b backend, shares ShareStore, sheets tools.SheetsClient) *Resources {
	return &Resources{
		Transport:    b.transport,
		Indexer:      b.indexer,
		Shares:       shares,
		SheetsClient: sheets,
	}
}

// memoryShareStore keeps shared searches for the lifetime of the process
type memoryShareStore struct {
	mu     sync.Mutex
	shared map[string]url.Values
}

func newMemoryShareStore() *memoryShareStore {
	return &memoryShareStore{shared: make(map[string]url.Values)}
}

func (m *memoryShareStore) Share(ctx context.Context, values url.Values) (string, error) {
	id := uuid.NewString()
	return id, m.save(ctx, id, values)
}

func (m *memoryShareStore) Resume(_ context.Context, id string) (url.Values, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.shared[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", redisstore.ErrShareNotFound, id)
	}
	return cloneValues(values), nil
}

func (m *memoryShareStore) Bind(id string) search.ParamStore {
	return &memoryBound{store: m, id: id}
}

func (m *memoryShareStore) save(_ context.Context, id string, values url.Values) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shared[id] = cloneValues(values)
	return nil
}

type memoryBound struct {
	store *memoryShareStore
	id    string
}

func (b *memoryBound) Load(ctx context.Context) (url.Values, error) {
	values, err := b.store.Resume(ctx, b.id)
	if err != nil {
		return url.Values{}, nil
	}
	return values, nil
}

func (b *memoryBound) Save(ctx context.Context, values url.Values) error {
	return b.store.save(ctx, b.id, values)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
