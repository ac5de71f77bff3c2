package mcp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/config"
	"github.com/honeycarbs/review-search/internal/mcp/tools"
	"github.com/honeycarbs/review-search/internal/realtime"
	"github.com/honeycarbs/review-search/pkg/logging"
)

// Server exposes the search engine over MCP (streamable HTTP) and WebSocket
type Server struct {
	logger   *logging.Logger
	config   config.Config
	sessions *tools.Sessions

	srv      *http.Server
	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewServer constructs a new search HTTP server over res
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) *Server {
	impl := &sdkmcp.Implementation{
		Name:    "review-search",
		Version: "0.1.0",
	}

	mcpServer := sdkmcp.NewServer(impl, nil)

	engines := NewEngines(cfg, res.Transport, res.Shares, log)
	sessions := tools.NewSessions(engines.ForSession, cfg.Search.Debounce, log.Named("sessions"))
	NewToolRegistry(log.Named("tools")).RegisterAll(mcpServer, sessions, res)

	handler := sdkmcp.NewStreamableHTTPHandler(func(req *http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	ws := realtime.NewHandler(engines.ForRequest,
		realtime.WithQuietPeriod(cfg.Search.Debounce),
		realtime.WithLogger(log.Named("ws")),
	)

	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", handler)
	mux.Handle("/search/ws", ws)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	// Shutdown does not track hijacked connections
	httpSrv.RegisterOnShutdown(ws.Close)

	return &Server{
		logger:   log,
		config:   cfg,
		sessions: sessions,
		srv:      httpSrv,
		stop:     make(chan struct{}),
	}
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	go s.expireSessions(s.config.Search.SessionIdle)

	s.logger.Info("search HTTP server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// expireSessions closes MCP sessions that stayed idle for longer than idle
func (s *Server) expireSessions(idle time.Duration) {
	if idle <= 0 {
		return
	}

	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.sessions.Sweep(idle); n > 0 {
				s.logger.Info("expired idle search sessions", "count", n, "live", s.sessions.Len())
			}
		case <-s.stop:
			return
		}
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for search HTTP server")
	s.stopOnce.Do(func() { close(s.stop) })

	err := s.srv.Shutdown(ctx)
	s.sessions.Close()
	if err != nil {
		s.logger.Warn("search HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("search HTTP server shutdown complete")
	return nil
}
