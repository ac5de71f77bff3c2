package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/review-search/internal/domain"
	"github.com/honeycarbs/review-search/pkg/logging"
)

const (
	// DefaultPageSize mirrors RESULTS_PER_PAGE of the review API
	DefaultPageSize     = 20
	DefaultFetchTimeout = 10 * time.Second
)

// Snapshot is an immutable view of the engine, handed to UI code
type Snapshot struct {
	SessionID  uuid.UUID
	Generation uint64
	State      State
	Query      domain.Query
	Defined    bool
	Items      []domain.CardItem
	Pages      int
	Exhausted  bool
	Loading    bool
	Err        string
	ErrKind    ErrorKind
	// Partial is set when an error hit a session that already holds items
	Partial   bool
	UpdatedAt time.Time
}

// Option configures Engine
type Option func(*options)

type options struct {
	pageSize     int
	fetchTimeout time.Duration
	store        ParamStore
	logger       *logging.Logger
	emptyInitial bool
	initial      domain.Query
	clock        func() time.Time
}

// WithPageSize sets the page size used for exhaustion detection
func WithPageSize(n int) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// WithFetchTimeout bounds every fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.fetchTimeout = d
	}
}

// WithParamStore sets the sink query parameters are written to
func WithParamStore(s ParamStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEmptyQueryInitial controls whether empty text means "no search"
func WithEmptyQueryInitial(v bool) Option {
	return func(o *options) {
		o.emptyInitial = v
	}
}

// WithInitialQuery sets the query shown before the first search, typically
// read from a ParamStore with LoadQuery
func WithInitialQuery(q domain.Query) Option {
	return func(o *options) {
		o.initial = q
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// Engine coordinates one client's incremental search: it owns the active
// session, allows at most one outstanding fetch and discards responses that
// belong to superseded sessions.
type Engine struct {
	transport    Transport
	store        ParamStore
	logger       *logging.Logger
	pageSize     int
	fetchTimeout time.Duration
	emptyInitial bool
	clock        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	gen       uint64
	cur       *session
	updatedAt time.Time
	subs      map[int]chan Snapshot
	nextSub   int
	closed    bool
}

// NewEngine builds an Engine over the given transport
func NewEngine(transport Transport, opts ...Option) (*Engine, error) {
	if transport == nil {
		return nil, fmt.Errorf("search.Engine: transport is required")
	}

	o := &options{
		pageSize:     DefaultPageSize,
		fetchTimeout: DefaultFetchTimeout,
		emptyInitial: true,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.pageSize <= 0 {
		return nil, fmt.Errorf("search.Engine: page size must be positive, got %d", o.pageSize)
	}
	if o.fetchTimeout <= 0 {
		return nil, fmt.Errorf("search.Engine: fetch timeout must be positive, got %s", o.fetchTimeout)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.initial.Type == "" {
		o.initial.Type = domain.SearchCompanies
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		transport:    transport,
		store:        o.store,
		logger:       o.logger,
		pageSize:     o.pageSize,
		fetchTimeout: o.fetchTimeout,
		emptyInitial: o.emptyInitial,
		clock:        o.clock,
		ctx:          ctx,
		cancel:       cancel,
		subs:         make(map[int]chan Snapshot),
	}
	e.cur = initialSession(0, o.initial, o.pageSize)
	e.updatedAt = e.clock()
	return e, nil
}

// LoadQuery reads the persisted query from a store
func LoadQuery(ctx context.Context, store ParamStore) (domain.Query, bool, error) {
	values, err := store.Load(ctx)
	if err != nil {
		return domain.Query{}, false, fmt.Errorf("load search params: %w", err)
	}
	return ParseQuery(values)
}

// StartNewSearch discards the current session and starts a new one for q.
// A ConfigurationError is returned synchronously and leaves the current
// session untouched. Empty text starts no fetch when empty queries are
// treated as "no search".
func (e *Engine) StartNewSearch(q domain.Query) error {
	vars, err := ComposeVariables(q)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return fmt.Errorf("search.Engine: closed")
	}

	prev := e.cur
	if prev.loading {
		e.logger.Debug("superseding in-flight fetch", "generation", prev.generation)
		prev.abandon()
	}

	e.gen++
	defined := !(e.emptyInitial && vars.Search.Query == "")
	if defined {
		e.cur = newSession(e.gen, q, vars, e.pageSize)
	} else {
		e.cur = initialSession(e.gen, q, e.pageSize)
	}
	s := e.cur

	e.logger.Info("new search session",
		"session_id", s.id.String(),
		"generation", s.generation,
		"type", q.Type,
		"query", vars.Search.Query,
		"defined", defined,
	)

	if next, ok := s.begin(); ok {
		e.startFetchLocked(s, next)
	}
	e.touchLocked()
	e.mu.Unlock()

	e.persist(q, defined)
	return nil
}

// SearchText starts a new search keeping the current type, sort and filters
func (e *Engine) SearchText(text string) error {
	e.mu.Lock()
	q := e.cur.query
	e.mu.Unlock()

	q.Text = text
	return e.StartNewSearch(q)
}

// LoadNextBatch fetches the page after the current cursor. It reports false,
// without side effects, when the session is exhausted or a fetch is already
// in flight. After a failed fetch it retries from the same cursor.
func (e *Engine) LoadNextBatch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}

	s := e.cur
	vars, ok := s.begin()
	if !ok {
		return false
	}
	e.startFetchLocked(s, vars)
	e.touchLocked()
	return true
}

// Retry re-issues the fetch that failed. It is a no-op unless the session is
// in ERROR.
func (e *Engine) Retry() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.cur.err == nil {
		return false
	}

	s := e.cur
	vars, ok := s.begin()
	if !ok {
		return false
	}
	e.logger.Info("retrying failed fetch", "session_id", s.id.String(), "pages", s.pages)
	e.startFetchLocked(s, vars)
	e.touchLocked()
	return true
}

// Snapshot returns the current immutable view
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe delivers a snapshot after every change. A slow subscriber only
// sees the newest snapshot. The returned func unsubscribes.
func (e *Engine) Subscribe() (<-chan Snapshot, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if e.closed {
		close(ch)
		return ch, func() {}
	}

	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	ch <- e.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if c, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(c)
			}
		})
	}
}

// Wait blocks until no fetch is in flight
func (e *Engine) Wait(ctx context.Context) error {
	for {
		e.mu.Lock()
		done := e.cur.done
		e.mu.Unlock()
		if done == nil {
			return nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels any in-flight fetch and closes all subscriptions
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancel()
	if e.cur.loading {
		e.cur.abandon()
	}
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}

type fetchResult struct {
	page domain.Page
	err  error
}

func (e *Engine) startFetchLocked(s *session, vars domain.Variables) {
	ctx, cancel := context.WithTimeout(e.ctx, e.fetchTimeout)
	s.cancel = cancel
	vars.Limit = e.pageSize

	after := ""
	if vars.After != nil {
		after = *vars.After
	}
	e.logger.Debug("fetch issued",
		"session_id", s.id.String(),
		"generation", s.generation,
		"transport", e.transport.Name(),
		"after", after,
	)

	go func() {
		defer cancel()

		resc := make(chan fetchResult, 1)
		go func() {
			page, err := e.transport.Fetch(ctx, vars)
			resc <- fetchResult{page: page, err: err}
		}()

		var res fetchResult
		select {
		case res = <-resc:
		case <-ctx.Done():
			res.err = ctx.Err()
		}

		var items []domain.CardItem
		switch {
		case errors.Is(res.err, context.DeadlineExceeded):
			res.err = fmt.Errorf("%w after %s", ErrFetchTimeout, e.fetchTimeout)
		case res.err != nil:
			res.err = &TransportError{Err: res.err}
		default:
			items, res.err = Transform(vars.Type, res.page.Items)
		}

		e.apply(s, res.page, items, res.err)
	}()
}

// apply merges a fetch result into s unless s has been superseded
func (e *Engine) apply(s *session, page domain.Page, items []domain.CardItem, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || s != e.cur {
		e.logger.Debug("discarding stale response",
			"generation", s.generation,
			"current_generation", e.gen,
		)
		return
	}

	if err != nil {
		s.fail(err)
		e.logger.Warn("search fetch failed",
			"session_id", s.id.String(),
			"generation", s.generation,
			"kind", classify(err),
			"err", err,
		)
	} else {
		s.merge(page, items)
		e.logger.Info("page merged",
			"session_id", s.id.String(),
			"pages", s.pages,
			"page_items", len(items),
			"total_items", len(s.items),
			"exhausted", s.exhausted,
		)
	}
	e.touchLocked()
}

// touchLocked stamps the change and publishes the new snapshot
func (e *Engine) touchLocked() {
	e.updatedAt = e.clock()
	if len(e.subs) == 0 {
		return
	}

	snap := e.snapshotLocked()
	for _, ch := range e.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	s := e.cur
	snap := Snapshot{
		SessionID:  s.id,
		Generation: s.generation,
		State:      s.state(),
		Query:      s.query,
		Defined:    s.defined,
		Items:      append([]domain.CardItem(nil), s.items...),
		Pages:      s.pages,
		Exhausted:  s.exhausted,
		Loading:    s.loading,
		ErrKind:    classify(s.err),
		UpdatedAt:  e.updatedAt,
	}
	if s.err != nil {
		snap.Err = s.err.Error()
		snap.Partial = len(s.items) > 0
	}
	return snap
}

func (e *Engine) persist(q domain.Query, defined bool) {
	if e.store == nil {
		return
	}

	values := EncodeQuery(q)
	if !defined {
		values.Del(ParamText)
	}

	ctx, cancel := context.WithTimeout(e.ctx, e.fetchTimeout)
	defer cancel()
	if err := e.store.Save(ctx, values); err != nil {
		e.logger.Warn("failed to persist search params", "err", err)
	}
}
