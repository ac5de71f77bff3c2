package search

import (
	"sync"
	"time"

	"github.com/honeycarbs/review-search/pkg/logging"
)

// DefaultQuietPeriod is the input idle time before a search is dispatched
const DefaultQuietPeriod = 1500 * time.Millisecond

// Timer is a stoppable pending callback
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DispatcherOption configures Dispatcher
type DispatcherOption func(*Dispatcher)

// WithAfterFunc replaces the timer source
func WithAfterFunc(fn AfterFunc) DispatcherOption {
	return func(d *Dispatcher) {
		d.afterFunc = fn
	}
}

// WithDispatcherLogger sets the logger
func WithDispatcherLogger(l *logging.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// Dispatcher coalesces bursts of query text into one downstream dispatch.
// Each Push restarts the quiet period; only the last value pushed before the
// period elapses is dispatched. Flush dispatches immediately.
type Dispatcher struct {
	quiet     time.Duration
	dispatch  func(string)
	afterFunc AfterFunc
	logger    *logging.Logger

	mu      sync.Mutex
	timer   Timer
	pending string
	seq     uint64
	closed  bool
}

// NewDispatcher builds a Dispatcher calling dispatch with the settled text
func NewDispatcher(quiet time.Duration, dispatch func(string), opts ...DispatcherOption) *Dispatcher {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	d := &Dispatcher{
		quiet:     quiet,
		dispatch:  dispatch,
		afterFunc: realAfterFunc,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Push records a candidate value and restarts the quiet period.
// Empty text is coalesced like any other value.
func (d *Dispatcher) Push(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.stopLocked()
	d.pending = text
	seq := d.seq
	d.timer = d.afterFunc(d.quiet, func() { d.fire(seq) })
}

// Flush cancels any pending timer and dispatches text right away
func (d *Dispatcher) Flush(text string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.stopLocked()
	d.mu.Unlock()

	d.logger.Debug("dispatching immediately", "text", text)
	d.dispatch(text)
}

// Cancel drops the pending value, if any
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close cancels the pending value and ignores further input
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

// stopLocked invalidates the current timer. A timer that already fired but
// has not yet taken the lock sees a stale sequence and does nothing.
func (d *Dispatcher) stopLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Dispatcher) fire(seq uint64) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	text := d.pending
	d.timer = nil
	d.seq++
	d.mu.Unlock()

	d.logger.Debug("dispatching settled input", "text", text)
	d.dispatch(text)
}
