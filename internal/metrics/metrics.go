// Package metrics counts engine activity for the dashboard's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the Wardroom counters. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	registry          *prometheus.Registry
	messagesPosted    *prometheus.CounterVec
	repliesSimulated  *prometheus.CounterVec
	notesSaved        *prometheus.CounterVec
	requestsSubmitted *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	announcements     *prometheus.CounterVec
	snapshotWrites    *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		messagesPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wardroom",
			Name:      "messages_posted_total",
			Help:      "Messages appended to chat rooms.",
		}, []string{"room", "author"}),
		repliesSimulated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wardroom",
			Name:      "replies_simulated_total",
			Help:      "Counterpart replies generated by the simulation.",
		}, []string{"category"}),
		notesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wardroom",
			Name:      "notes_saved_total",
			Help:      "Notes created or submitted.",
		}, []string{"template", "state"}),
		requestsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wardroom",
			Name:      "requests_submitted_total",
			Help:      "Service requests filed.",
		}, []string{"type", "priority"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wardroom",
			Name:      "request_transitions_total",
			Help:      "Request status changes, by origin.",
		}, []string{"to", "origin"}),
		announcements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wardroom",
			Name:      "announcements_total",
			Help:      "Announcement board changes, by action and kind.",
		}, []string{"action", "kind"}),
		snapshotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wardroom",
			Name:      "snapshot_writes_total",
			Help:      "Snapshot write attempts by slot and result.",
		}, []string{"slot", "result"}),
	}
	r.registry.MustRegister(
		r.messagesPosted,
		r.repliesSimulated,
		r.notesSaved,
		r.requestsSubmitted,
		r.transitions,
		r.announcements,
		r.snapshotWrites,
	)
	return r
}

// Registry exposes the underlying registry for HTTP handlers and tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// MessagePosted counts one message in room.
func (r *Recorder) MessagePosted(room string, fromUser bool) {
	if r == nil {
		return
	}
	author := "counterpart"
	if fromUser {
		author = "user"
	}
	r.messagesPosted.WithLabelValues(room, author).Inc()
}

// ReplySimulated counts one simulated counterpart reply.
func (r *Recorder) ReplySimulated(category string) {
	if r == nil {
		return
	}
	r.repliesSimulated.WithLabelValues(category).Inc()
}

// NoteSaved counts a note reaching state ("draft" or "submitted").
func (r *Recorder) NoteSaved(template, state string) {
	if r == nil {
		return
	}
	r.notesSaved.WithLabelValues(template, state).Inc()
}

// RequestSubmitted counts one filed request.
func (r *Recorder) RequestSubmitted(typeID, priority string) {
	if r == nil {
		return
	}
	r.requestsSubmitted.WithLabelValues(typeID, priority).Inc()
}

// Transition counts a status change; origin is "scheduled" or "manual".
func (r *Recorder) Transition(to, origin string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(to, origin).Inc()
}

// Announcement counts a board change; action is "published" or "dismissed".
func (r *Recorder) Announcement(action, kind string) {
	if r == nil {
		return
	}
	r.announcements.WithLabelValues(action, kind).Inc()
}

// SnapshotWrite matches store.WriteObserver.
func (r *Recorder) SnapshotWrite(slot string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.snapshotWrites.WithLabelValues(slot, result).Inc()
}
