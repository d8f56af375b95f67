// Package schedule provides the delayed-callback capability engines use to
// simulate counterpart behavior, in a real and a deterministic flavor.
package schedule

import (
	"container/heap"
	"time"
)

// Scheduler runs fn once after delay. There is no cancellation; callbacks
// must re-check state before acting.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC without a monotonic reading, so
// timestamps survive a JSON round-trip unchanged.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC().Round(0) }

// task is one pending callback. seq breaks ties between equal deadlines so
// that the first scheduled fires first.
type task struct {
	at  time.Time
	seq uint64
	fn  func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

func (q *taskQueue) push(t *task) { heap.Push(q, t) }

func (q *taskQueue) pop() *task { return heap.Pop(q).(*task) }

func (q taskQueue) peek() *task {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}
