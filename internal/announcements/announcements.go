// Package announcements owns the facility announcement board.
package announcements

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/zulandar/wardroom/internal/metrics"
	"github.com/zulandar/wardroom/internal/models"
	"github.com/zulandar/wardroom/internal/schedule"
	"github.com/zulandar/wardroom/internal/store"
)

// SlotName is the persistence slot holding the announcement board.
const SlotName = "announcements-storage"

// Options configures an Engine.
type Options struct {
	Slot    *store.Slot
	Clock   schedule.Clock
	Metrics *metrics.Recorder
	Seed    []models.Announcement // nil uses DefaultAnnouncements
}

type snapshot struct {
	Announcements []models.Announcement `json:"announcements"`
	NextID        uint64                `json:"next_id"`
}

// Engine holds announcements, newest first.
type Engine struct {
	slot    *store.Slot
	clock   schedule.Clock
	metrics *metrics.Recorder

	mu     sync.Mutex
	items  []models.Announcement
	nextID uint64
}

// DefaultAnnouncements returns the seeded board relative to now.
func DefaultAnnouncements(now time.Time) []models.Announcement {
	return []models.Announcement{
		{
			ID:        1,
			Title:     "Weather Alert",
			Body:      "Storm expected this afternoon. All outdoor activities cancelled. Please ensure patients stay indoors.",
			Kind:      models.AnnouncementWarning,
			Icon:      "⛈️",
			CreatedAt: now.Add(-30 * time.Minute),
		},
		{
			ID:        2,
			Title:     "Raffle Update",
			Body:      "Raffle ticket sales have closed. Winner will be announced at 5 PM today!",
			Kind:      models.AnnouncementInfo,
			Icon:      "🎟️",
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}
}

// New builds an Engine from the slot's snapshot, or from seed data.
func New(opts Options) *Engine {
	e := &Engine{slot: opts.Slot, clock: opts.Clock, metrics: opts.Metrics, nextID: 1}
	if e.clock == nil {
		e.clock = schedule.SystemClock{}
	}
	if e.slot == nil {
		e.slot = store.NewSlot(store.NewMemory(), SlotName, nil)
	}

	var snap snapshot
	ok, err := e.slot.Load(&snap)
	if err != nil {
		log.Printf("announcements: restore failed, using seed data: %v", err)
	}
	switch {
	case ok && err == nil:
		e.items = snap.Announcements
		e.nextID = max(snap.NextID, 1)
	case opts.Seed != nil:
		e.items = append([]models.Announcement(nil), opts.Seed...)
	default:
		e.items = DefaultAnnouncements(e.clock.Now())
	}
	for _, a := range e.items {
		if a.ID >= e.nextID {
			e.nextID = a.ID + 1
		}
	}
	return e
}

// All returns every announcement, newest first.
func (e *Engine) All() []models.Announcement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Announcement{}, e.items...)
}

// Active returns announcements that have not been dismissed.
func (e *Engine) Active() []models.Announcement {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []models.Announcement{}
	for _, a := range e.items {
		if !a.Dismissed {
			out = append(out, a)
		}
	}
	return out
}

// Publish puts a new announcement at the top of the board.
func (e *Engine) Publish(title, body string, kind models.AnnouncementKind, icon string) (models.Announcement, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	var violations []string
	if title == "" {
		violations = append(violations, "title is required")
	}
	if body == "" {
		violations = append(violations, "body is required")
	}
	if !kind.Valid() {
		violations = append(violations, fmt.Sprintf("kind %q must be one of info, warning, urgent, celebration", kind))
	}
	if len(violations) > 0 {
		return models.Announcement{}, &models.ValidationError{Violations: violations}
	}

	e.mu.Lock()
	a := models.Announcement{
		ID:        e.nextID,
		Title:     title,
		Body:      body,
		Kind:      kind,
		Icon:      icon,
		CreatedAt: e.clock.Now(),
	}
	e.nextID++
	e.items = append([]models.Announcement{a}, e.items...)
	e.commitLocked()
	e.mu.Unlock()

	e.metrics.Announcement("published", string(kind))
	return a, nil
}

// Dismiss hides announcement id from the active board.
func (e *Engine) Dismiss(id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.items {
		if e.items[i].ID != id {
			continue
		}
		if !e.items[i].Dismissed {
			e.items[i].Dismissed = true
			e.commitLocked()
			e.metrics.Announcement("dismissed", string(e.items[i].Kind))
		}
		return nil
	}
	return fmt.Errorf("announcements: announcement %d: %w", id, models.ErrNotFound)
}

func (e *Engine) commitLocked() {
	e.slot.Commit(snapshot{Announcements: e.items, NextID: e.nextID})
}

// Checkpoint rewrites the snapshot from the current state.
func (e *Engine) Checkpoint() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commitLocked()
}

// LastPersistError returns the most recent snapshot write failure.
func (e *Engine) LastPersistError() error {
	return e.slot.LastError()
}
