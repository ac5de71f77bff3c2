// Package realtime streams search snapshots to WebSocket clients. Each
// connection owns one engine; keystrokes are debounced before they reach it.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/honeycarbs/review-search/internal/domain/search"
	"github.com/honeycarbs/review-search/pkg/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
)

// Client command types
const (
	CmdInput  = "input"
	CmdSubmit = "submit"
	CmdStart  = "start"
	CmdMore   = "more"
	CmdRetry  = "retry"
)

// Server message types
const (
	MsgInit     = "init"
	MsgSnapshot = "snapshot"
	MsgError    = "error"
)

// Command is a message read from the client
type Command struct {
	Type  string             `json:"type"`
	Text  string             `json:"text,omitempty"`
	Query *search.QueryInput `json:"query,omitempty"`
}

// Message is a message written to the client
type Message struct {
	Type     string       `json:"type"`
	Snapshot *search.View `json:"snapshot,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// EngineFactory builds the engine a new connection will drive
type EngineFactory func(r *http.Request) (*search.Engine, error)

// Option configures Handler
type Option func(*Handler)

// WithQuietPeriod sets the debounce quiet period for input commands
func WithQuietPeriod(d time.Duration) Option {
	return func(h *Handler) {
		h.quiet = d
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithCheckOrigin overrides the upgrader's origin check
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Handler) {
		h.upgrader.CheckOrigin = fn
	}
}

// Handler upgrades HTTP requests and runs one search session per connection
type Handler struct {
	newEngine EngineFactory
	quiet     time.Duration
	logger    *logging.Logger
	upgrader  websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewHandler builds a Handler
func NewHandler(factory EngineFactory, opts ...Option) *Handler {
	h := &Handler{
		newEngine: factory,
		quiet:     search.DefaultQuietPeriod,
		logger:    logging.NewNop(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	engine, err := h.newEngine(r)
	if err != nil {
		var cfgErr *search.ConfigurationError
		if errors.As(err, &cfgErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create search engine", "err", err)
		http.Error(w, "search unavailable", http.StatusInternalServerError)
		return
	}
	defer engine.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	if !h.track(conn) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer h.untrack(conn)

	s := &session{
		conn:   conn,
		engine: engine,
		logger: h.logger.With("remote", r.RemoteAddr),
		errs:   make(chan string, 8),
	}
	s.dispatcher = search.NewDispatcher(h.quiet, s.dispatch,
		search.WithDispatcherLogger(h.logger.Named("debounce")))
	defer s.dispatcher.Close()

	s.run()
}

// Close ends every open connection with a going-away close frame. New
// connections are refused afterwards.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
}

func (h *Handler) track(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = struct{}{}
	return true
}

func (h *Handler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

type session struct {
	conn       *websocket.Conn
	engine     *search.Engine
	dispatcher *search.Dispatcher
	logger     *logging.Logger
	errs       chan string
}

func (s *session) run() {
	snaps, unsubscribe := s.engine.Subscribe()
	defer unsubscribe()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.readLoop()
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	kind := MsgInit
	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			view := search.NewView(snap, 0)
			if err := s.write(Message{Type: kind, Snapshot: &view}); err != nil {
				s.logger.Debug("websocket write failed", "err", err)
				return
			}
			kind = MsgSnapshot
		case msg := <-s.errs:
			if err := s.write(Message{Type: MsgError, Error: msg}); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			return
		}
	}
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "err", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.reportError(fmt.Sprintf("malformed command: %v", err))
			continue
		}
		if err := s.handle(cmd); err != nil {
			s.reportError(err.Error())
		}
	}
}

func (s *session) handle(cmd Command) error {
	switch cmd.Type {
	case CmdInput:
		s.dispatcher.Push(cmd.Text)
	case CmdSubmit:
		s.dispatcher.Flush(cmd.Text)
	case CmdStart:
		if cmd.Query == nil {
			return fmt.Errorf("start requires a query")
		}
		q, err := cmd.Query.Query()
		if err != nil {
			return err
		}
		s.dispatcher.Cancel()
		return s.engine.StartNewSearch(q)
	case CmdMore:
		s.engine.LoadNextBatch()
	case CmdRetry:
		s.engine.Retry()
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}

// dispatch runs on the debounce timer goroutine
func (s *session) dispatch(text string) {
	if err := s.engine.SearchText(text); err != nil {
		s.reportError(err.Error())
	}
}

func (s *session) reportError(msg string) {
	select {
	case s.errs <- msg:
	default:
		s.logger.Warn("dropping client error message", "error", msg)
	}
}

func (s *session) write(msg Message) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}
