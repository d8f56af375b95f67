package schedule

import (
	"sync"
	"time"
)

// Manual is a deterministic Scheduler and Clock for tests. Time only moves
// when Advance is called.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	queue taskQueue
	seq   uint64
}

// NewManual creates a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.queue.push(&task{at: m.now.Add(delay), seq: m.seq, fn: fn})
}

// Pending returns the number of callbacks not yet run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Advance moves time forward by d, running each due callback at its own
// deadline. Callbacks scheduled while advancing run too if they fall due
// within the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		next := m.queue.peek()
		if next == nil || next.at.After(target) {
			break
		}
		m.queue.pop()
		if next.at.After(m.now) {
			m.now = next.at
		}
		m.mu.Unlock()
		next.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}
