package schedule

import (
	"context"
	"sync"
	"time"
)

// Loop is the production Scheduler. All callbacks run one at a time on the
// goroutine that calls Run, ordered by deadline then scheduling order.
type Loop struct {
	clock Clock

	mu      sync.Mutex
	queue   taskQueue
	seq     uint64
	running bool
	wake    chan struct{}
}

// NewLoop creates a Loop measuring deadlines on clock. A nil clock uses
// SystemClock.
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

// Now implements Clock.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// Schedule implements Scheduler. Negative delays are treated as zero.
func (l *Loop) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	l.mu.Lock()
	l.seq++
	l.queue.push(&task{at: l.clock.Now().Add(delay), seq: l.seq, fn: fn})
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of callbacks not yet run, including one that
// is currently running.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.queue)
	if l.running {
		n++
	}
	return n
}

// Run dispatches callbacks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		wait := l.runDue()
		if wait > 0 {
			timer.Reset(wait)
		}

		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		case <-timer.C:
		}
		timer.Stop()
	}
}

// RunDue runs every callback that is already due without waiting for later
// ones. One-shot callers use it to catch up on work restored from storage.
func (l *Loop) RunDue() {
	l.runDue()
}

// runDue runs every callback whose deadline has passed and returns the time
// until the next one, or 0 if the queue is empty.
func (l *Loop) runDue() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		next := l.queue.peek()
		if next == nil {
			return 0
		}
		if d := next.at.Sub(l.clock.Now()); d > 0 {
			return d
		}
		l.queue.pop()

		l.running = true
		l.mu.Unlock()
		next.fn()
		l.mu.Lock()
		l.running = false
	}
}

// Wait blocks until no callbacks are pending or ctx is done.
func (l *Loop) Wait(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		if l.Pending() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
