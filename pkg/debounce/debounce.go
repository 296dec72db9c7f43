package debounce

import (
	"sync"
	"time"
)

// DefaultInterval matches the search filter's debounce window.
const DefaultInterval = 500 * time.Millisecond

// Timer is the handle returned by Clock.AfterFunc. Stop reports whether the
// timer was cancelled before firing.
type Timer interface {
	Stop() bool
}

// Clock abstracts timer creation so the debounce state machine is testable
// without wall-clock waits.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

type realTimer struct{ *time.Timer }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}

// Debouncer converts a stream of raw input values into committed values:
// a value is committed only after the input has been quiet for the
// configured interval. State is either idle or pending; each new input
// cancels the pending emission and re-arms it.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	commit   func(string)

	buffer  string
	pending Timer
	gen     uint64 // invalidates callbacks from cancelled timers
}

// New builds a Debouncer that calls commit with the settled value.
// A nil clock uses real timers; interval <= 0 uses DefaultInterval.
func New(interval time.Duration, clock Clock, commit func(string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Debouncer{interval: interval, clock: clock, commit: commit}
}

// Input records a new raw value and restarts the quiet-window timer.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buffer = value
	d.cancelLocked()
	gen := d.gen
	d.pending = d.clock.AfterFunc(d.interval, func() { d.fire(gen) })
}

// Sync resynchronizes the buffer with an upstream value that changed
// outside the input stream. Any pending emission for the old buffer is
// dropped so it can never fire stale.
func (d *Debouncer) Sync(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buffer = value
	d.cancelLocked()
}

// Clear commits the empty value immediately, bypassing the delay.
func (d *Debouncer) Clear() {
	d.mu.Lock()
	d.buffer = ""
	d.cancelLocked()
	d.mu.Unlock()

	if d.commit != nil {
		d.commit("")
	}
}

// Flush commits the buffered value immediately if an emission is pending.
// Used on teardown so the final keystroke is never dropped.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	value := d.buffer
	d.mu.Unlock()

	if d.commit != nil {
		d.commit(value)
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		// A newer input or sync superseded this timer.
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.gen++
	value := d.buffer
	d.mu.Unlock()

	if d.commit != nil {
		d.commit(value)
	}
}

// cancelLocked stops the pending timer and bumps the generation so an
// already-fired callback racing on the mutex becomes a no-op.
func (d *Debouncer) cancelLocked() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}
