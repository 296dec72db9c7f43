package debounce

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives AfterFunc timers manually so tests never sleep.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.f()
	}
	c.now = target
}

type commitLog struct {
	values []string
	at     []time.Duration
}

func (l *commitLog) record(clock *fakeClock) func(string) {
	return func(v string) {
		l.values = append(l.values, v)
		l.at = append(l.at, clock.now)
	}
}

func TestTypingBurstCommitsOnce(t *testing.T) {
	clock := &fakeClock{}
	log := &commitLog{}
	d := New(500*time.Millisecond, clock, log.record(clock))

	d.Input("a")
	clock.Advance(100 * time.Millisecond)
	d.Input("ab")
	clock.Advance(50 * time.Millisecond)
	d.Input("abc")
	clock.Advance(2 * time.Second)

	require.Equal(t, []string{"abc"}, log.values)
	// Last keystroke at t=150, window 500 -> commit at t=650.
	assert.Equal(t, 650*time.Millisecond, log.at[0])
}

func TestEveryQuietWindowCommits(t *testing.T) {
	clock := &fakeClock{}
	log := &commitLog{}
	d := New(500*time.Millisecond, clock, log.record(clock))

	d.Input("first")
	clock.Advance(600 * time.Millisecond)
	d.Input("second")
	clock.Advance(600 * time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, log.values)
	assert.True(t, sort.SliceIsSorted(log.at, func(i, j int) bool { return log.at[i] < log.at[j] }))
}

func TestSyncDropsPendingEmission(t *testing.T) {
	clock := &fakeClock{}
	log := &commitLog{}
	d := New(500*time.Millisecond, clock, log.record(clock))

	d.Input("stale")
	clock.Advance(200 * time.Millisecond)
	d.Sync("external")
	clock.Advance(2 * time.Second)

	assert.Empty(t, log.values, "stale buffer must never fire after Sync")
}

func TestClearCommitsImmediately(t *testing.T) {
	clock := &fakeClock{}
	log := &commitLog{}
	d := New(500*time.Millisecond, clock, log.record(clock))

	d.Input("abc")
	clock.Advance(100 * time.Millisecond)
	d.Clear()

	require.Equal(t, []string{""}, log.values)
	assert.Equal(t, 100*time.Millisecond, log.at[0])

	// The cancelled timer must not fire later with the old buffer.
	clock.Advance(time.Second)
	assert.Equal(t, []string{""}, log.values)
}

func TestFlushCommitsBufferedValue(t *testing.T) {
	clock := &fakeClock{}
	log := &commitLog{}
	d := New(500*time.Millisecond, clock, log.record(clock))

	d.Flush() // idle: nothing to commit
	assert.Empty(t, log.values)

	d.Input("draft")
	d.Flush()
	assert.Equal(t, []string{"draft"}, log.values)

	clock.Advance(time.Second)
	assert.Equal(t, []string{"draft"}, log.values, "flushed timer must not double-fire")
}

func TestDefaultInterval(t *testing.T) {
	clock := &fakeClock{}
	log := &commitLog{}
	d := New(0, clock, log.record(clock))

	d.Input("x")
	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, log.values)
	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"x"}, log.values)
}
