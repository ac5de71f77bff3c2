package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"LOG_LEVEL", "MCP_HOST", "PORT",
	"SEARCH_BACKEND", "SEARCH_PAGE_SIZE", "SEARCH_DEBOUNCE", "SEARCH_FETCH_TIMEOUT",
	"SEARCH_EMPTY_QUERY_INITIAL", "SEARCH_SESSION_IDLE", "SEARCH_SHARE_TTL",
	"GRAPHQL_ENDPOINT", "GRAPHQL_TOKEN",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"REDIS_URL", "GOOGLE_SHEETS_CREDENTIALS_PATH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRAPHQL_ENDPOINT", "https://reviews.example.com/graphql")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, BackendGraphQL, cfg.Search.Backend)
	require.Equal(t, 20, cfg.Search.PageSize)
	require.Equal(t, 1500*time.Millisecond, cfg.Search.Debounce)
	require.Equal(t, 10*time.Second, cfg.Search.FetchTimeout)
	require.True(t, cfg.Search.EmptyQueryInitial)
	require.Equal(t, 30*time.Minute, cfg.Search.SessionIdle)
	require.Empty(t, cfg.Redis.URL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_BACKEND", "NEO4J")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("SEARCH_PAGE_SIZE", "5")
	t.Setenv("SEARCH_DEBOUNCE", "300ms")
	t.Setenv("SEARCH_EMPTY_QUERY_INITIAL", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendNeo4j, cfg.Search.Backend)
	require.Equal(t, 5, cfg.Search.PageSize)
	require.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	require.False(t, cfg.Search.EmptyQueryInitial)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoadReportsAllProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_BACKEND", "neo4j")
	t.Setenv("SEARCH_PAGE_SIZE", "-1")
	t.Setenv("SEARCH_FETCH_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"SEARCH_PAGE_SIZE", "SEARCH_FETCH_TIMEOUT", "NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD"} {
		require.Contains(t, err.Error(), want)
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_BACKEND", "elastic")

	_, err := Load()
	require.ErrorContains(t, err, "SEARCH_BACKEND")
}
