package search

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock drives AfterFunc callbacks manually
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks in deadline order
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) dispatch(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, text)
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func newTestDispatcher() (*Dispatcher, *fakeClock, *recorder) {
	clock := &fakeClock{}
	rec := &recorder{}
	d := NewDispatcher(DefaultQuietPeriod, rec.dispatch, WithAfterFunc(clock.AfterFunc))
	return d, clock, rec
}

func TestDispatcherCoalescesBurst(t *testing.T) {
	d, clock, rec := newTestDispatcher()

	d.Push("a")
	clock.Advance(200 * time.Millisecond)
	d.Push("ab")
	clock.Advance(200 * time.Millisecond)
	d.Push("abc")

	clock.Advance(1499 * time.Millisecond)
	require.Empty(t, rec.values())

	clock.Advance(time.Millisecond)
	require.Equal(t, []string{"abc"}, rec.values())

	clock.Advance(5 * time.Second)
	require.Equal(t, []string{"abc"}, rec.values())
}

func TestDispatcherSeparateBursts(t *testing.T) {
	d, clock, rec := newTestDispatcher()

	d.Push("intern")
	clock.Advance(DefaultQuietPeriod)
	d.Push("intern toronto")
	clock.Advance(DefaultQuietPeriod)

	require.Equal(t, []string{"intern", "intern toronto"}, rec.values())
}

func TestDispatcherEmptyTextIsDispatched(t *testing.T) {
	d, clock, rec := newTestDispatcher()

	d.Push("x")
	d.Push("")
	clock.Advance(DefaultQuietPeriod)

	require.Equal(t, []string{""}, rec.values())
}

func TestDispatcherFlushBypassesQuietPeriod(t *testing.T) {
	d, clock, rec := newTestDispatcher()

	d.Push("draft")
	d.Flush("submitted")
	require.Equal(t, []string{"submitted"}, rec.values())

	clock.Advance(DefaultQuietPeriod)
	require.Equal(t, []string{"submitted"}, rec.values())
}

func TestDispatcherCancelAndClose(t *testing.T) {
	d, clock, rec := newTestDispatcher()

	d.Push("a")
	d.Cancel()
	clock.Advance(DefaultQuietPeriod)
	require.Empty(t, rec.values())

	d.Push("b")
	d.Close()
	clock.Advance(DefaultQuietPeriod)
	d.Push("c")
	d.Flush("d")
	clock.Advance(DefaultQuietPeriod)
	require.Empty(t, rec.values())
}

func TestDispatcherStaleTimerIgnored(t *testing.T) {
	d, clock, rec := newTestDispatcher()

	d.Push("a")
	first := clock.timers[0]
	d.Push("b")

	// a timer whose Stop lost the race still runs its callback
	first.fn()
	require.Empty(t, rec.values())

	clock.Advance(DefaultQuietPeriod)
	require.Equal(t, []string{"b"}, rec.values())
}

func TestDispatcherRealTimer(t *testing.T) {
	done := make(chan string, 1)
	d := NewDispatcher(20*time.Millisecond, func(s string) { done <- s })
	defer d.Close()

	d.Push("a")
	d.Push("ab")

	select {
	case got := <-done:
		require.Equal(t, "ab", got)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not fire")
	}
}
