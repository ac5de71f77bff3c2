package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/honeycarbs/review-search/internal/domain"
)

// session accumulates the pages of one logical search. It is not safe for
// concurrent use; the engine serializes access.
type session struct {
	id         uuid.UUID
	generation uint64
	query      domain.Query
	defined    bool
	vars       domain.Variables
	pageSize   int

	items     []domain.CardItem
	cursor    *string
	pages     int
	exhausted bool

	loading bool
	err     error

	// inflight fetch bookkeeping
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(gen uint64, q domain.Query, vars domain.Variables, pageSize int) *session {
	return &session{
		id:         uuid.New(),
		generation: gen,
		query:      q,
		defined:    true,
		vars:       vars,
		pageSize:   pageSize,
	}
}

// initialSession represents "no search yet"
func initialSession(gen uint64, q domain.Query, pageSize int) *session {
	return &session{
		id:         uuid.New(),
		generation: gen,
		query:      q,
		pageSize:   pageSize,
	}
}

// begin reserves the single fetch slot and returns the variables to send.
// It reports false when the session is exhausted, undefined or already
// fetching.
func (s *session) begin() (domain.Variables, bool) {
	if !s.defined || s.loading || s.exhausted {
		return domain.Variables{}, false
	}
	s.loading = true
	s.err = nil
	s.done = make(chan struct{})
	return s.vars.WithAfter(s.cursor), true
}

// merge applies a page. The first page replaces, later pages append in
// arrival order.
func (s *session) merge(p domain.Page, items []domain.CardItem) {
	if s.pages == 0 {
		s.items = items
	} else {
		s.items = append(s.items, items...)
	}
	s.pages++
	s.cursor = p.Cursor

	count := p.Count
	if count == 0 {
		count = len(items)
	}
	s.exhausted = !p.HasMore || count < s.pageSize || p.Cursor == nil
	if s.pages == 1 && len(s.items) == 0 {
		s.exhausted = true
	}
	s.finish()
}

func (s *session) fail(err error) {
	s.err = err
	s.finish()
}

// abandon releases the fetch slot of a superseded session
func (s *session) abandon() {
	if s.cancel != nil {
		s.cancel()
	}
	s.finish()
}

func (s *session) finish() {
	s.loading = false
	s.cancel = nil
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

func (s *session) state() State {
	return DeriveState(StateInputs{
		QueryDefined: s.defined,
		Loading:      s.loading,
		Failed:       s.err != nil,
		ItemCount:    len(s.items),
		Exhausted:    s.exhausted,
	})
}
