package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Search backends
const (
	BackendGraphQL = "graphql"
	BackendNeo4j   = "neo4j"
)

// Config contains runtime settings for the search server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080
	Search   struct {
		Backend           string
		PageSize          int
		Debounce          time.Duration
		FetchTimeout      time.Duration
		EmptyQueryInitial bool
		SessionIdle       time.Duration
		ShareTTL          time.Duration
	}
	GraphQL struct {
		Endpoint string
		Token    string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}
	Redis struct {
		URL string
	} // optional; shares stay in memory without it
	Sheets struct {
		CredentialsPath string
	} // optional; enables search_export
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel: "info",
		Host:     "0.0.0.0",
		Port:     "8080",
	}
	cfg.Search.Backend = BackendGraphQL
	cfg.Search.PageSize = 20
	cfg.Search.Debounce = 1500 * time.Millisecond
	cfg.Search.FetchTimeout = 10 * time.Second
	cfg.Search.EmptyQueryInitial = true
	cfg.Search.SessionIdle = 30 * time.Minute
	cfg.Search.ShareTTL = 7 * 24 * time.Hour

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	var problems []string

	if v := os.Getenv("SEARCH_BACKEND"); v != "" {
		cfg.Search.Backend = strings.ToLower(v)
	}
	if cfg.Search.Backend != BackendGraphQL && cfg.Search.Backend != BackendNeo4j {
		problems = append(problems, fmt.Sprintf("SEARCH_BACKEND must be %q or %q, got %q", BackendGraphQL, BackendNeo4j, cfg.Search.Backend))
	}

	if v := os.Getenv("SEARCH_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			problems = append(problems, fmt.Sprintf("SEARCH_PAGE_SIZE must be a positive integer, got %q", v))
		} else {
			cfg.Search.PageSize = n
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SEARCH_DEBOUNCE", &cfg.Search.Debounce},
		{"SEARCH_FETCH_TIMEOUT", &cfg.Search.FetchTimeout},
		{"SEARCH_SESSION_IDLE", &cfg.Search.SessionIdle},
		{"SEARCH_SHARE_TTL", &cfg.Search.ShareTTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive duration, got %q", d.key, v))
			continue
		}
		*d.dst = parsed
	}

	if v := os.Getenv("SEARCH_EMPTY_QUERY_INITIAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("SEARCH_EMPTY_QUERY_INITIAL must be a boolean, got %q", v))
		} else {
			cfg.Search.EmptyQueryInitial = b
		}
	}

	cfg.GraphQL.Endpoint = os.Getenv("GRAPHQL_ENDPOINT")
	cfg.GraphQL.Token = os.Getenv("GRAPHQL_TOKEN")

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	var missingVars []string

	switch cfg.Search.Backend {
	case BackendGraphQL:
		if cfg.GraphQL.Endpoint == "" {
			missingVars = append(missingVars, "GRAPHQL_ENDPOINT")
		}
	case BackendNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	}

	if len(missingVars) > 0 {
		problems = append(problems, "missing required environment variables: "+strings.Join(missingVars, ", "))
	}

	if len(problems) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}
