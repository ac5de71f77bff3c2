package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/domain/search"
	"github.com/honeycarbs/review-search/pkg/logging"
)

// EngineFactory builds the engine owned by a new MCP session
type EngineFactory func(ctx context.Context, store search.ParamStore) (*search.Engine, error)

type client struct {
	engine     *search.Engine
	dispatcher *search.Dispatcher
	lastSeen   time.Time
}

func (c *client) close() {
	c.dispatcher.Close()
	c.engine.Close()
}

// Sessions keeps one engine per MCP session. Engines are never shared
// between sessions.
type Sessions struct {
	factory EngineFactory
	quiet   time.Duration
	logger  *logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
}

// NewSessions creates an empty registry. quiet is the debounce period
// applied to search_input.
func NewSessions(factory EngineFactory, quiet time.Duration, logger *logging.Logger) *Sessions {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sessions{
		factory: factory,
		quiet:   quiet,
		logger:  logger,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// get returns the client for id, creating it on first use
func (s *Sessions) get(ctx context.Context, id string) (*client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("sessions: closed")
	}

	if c, ok := s.clients[id]; ok {
		c.lastSeen = s.now()
		return c, nil
	}

	engine, err := s.factory(ctx, search.NewMemoryStore(nil))
	if err != nil {
		return nil, fmt.Errorf("create search engine: %w", err)
	}

	logger := s.logger.With("mcp_session", id)
	c := &client{engine: engine, lastSeen: s.now()}
	c.dispatcher = search.NewDispatcher(s.quiet, func(text string) {
		if err := engine.SearchText(text); err != nil {
			logger.Warn("debounced search rejected", "err", err)
		}
	}, search.WithDispatcherLogger(logger.Named("debounce")))

	s.clients[id] = c
	logger.Info("search session opened", "sessions", len(s.clients))
	return c, nil
}

// Len reports the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Sweep closes sessions idle for longer than idle and returns how many
// were removed
func (s *Sessions) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	removed := 0
	for id, c := range s.clients {
		if c.lastSeen.After(cutoff) {
			continue
		}
		c.close()
		delete(s.clients, id)
		removed++
		s.logger.Info("search session expired", "mcp_session", id)
	}
	return removed
}

// Close closes every session and rejects new ones
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, c := range s.clients {
		c.close()
		delete(s.clients, id)
	}
}

func sessionID(req *sdkmcp.CallToolRequest) string {
	if req == nil || req.Session == nil {
		return ""
	}
	return req.Session.ID()
}
