// Package app constructs one instance of every engine and the shared
// infrastructure they run on.
package app

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/zulandar/wardroom/internal/announcements"
	"github.com/zulandar/wardroom/internal/config"
	"github.com/zulandar/wardroom/internal/db"
	"github.com/zulandar/wardroom/internal/messaging"
	"github.com/zulandar/wardroom/internal/metrics"
	"github.com/zulandar/wardroom/internal/notes"
	"github.com/zulandar/wardroom/internal/requests"
	"github.com/zulandar/wardroom/internal/schedule"
	"github.com/zulandar/wardroom/internal/store"
)

// Options adjusts how New wires the engines.
type Options struct {
	// Clock overrides the system clock.
	Clock schedule.Clock
	// Checkpoint arms the periodic snapshot job from persist.checkpoint.
	// One-shot CLI commands leave it off so Loop.Wait can drain.
	Checkpoint bool
}

// App holds the engines for one process.
type App struct {
	Config        *config.Config
	Loop          *schedule.Loop
	Metrics       *metrics.Recorder
	Messaging     *messaging.Engine
	Notes         *notes.Engine
	Requests      *requests.Engine
	Announcements *announcements.Engine

	close func() error
}

// New opens the configured store and builds every engine on it.
func New(cfg *config.Config, opts Options) (*App, error) {
	st, closeFn, err := OpenStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	loop := schedule.NewLoop(opts.Clock)
	rec := metrics.New()
	slot := func(name string) *store.Slot {
		return store.NewSlot(st, name, rec.SnapshotWrite)
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	a := &App{
		Config:  cfg,
		Loop:    loop,
		Metrics: rec,
		close:   closeFn,
	}
	a.Messaging = messaging.New(messaging.Options{
		Slot:      slot(messaging.SlotName),
		Scheduler: loop,
		Clock:     loop,
		Rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Metrics:   rec,
		ReplyMin:  cfg.Simulation.ReplyMin,
		ReplyMax:  cfg.Simulation.ReplyMax,
	})
	a.Notes = notes.New(notes.Options{
		Slot:    slot(notes.SlotName),
		Clock:   loop,
		Metrics: rec,
	})
	a.Requests = requests.New(requests.Options{
		Slot:             slot(requests.SlotName),
		Scheduler:        loop,
		Clock:            loop,
		Metrics:          rec,
		ApproveAfter:     cfg.Simulation.ApproveAfter,
		ProgressAfter:    cfg.Simulation.ProgressAfter,
		CompletionWindow: cfg.Simulation.CompletionWindow,
	})
	a.Announcements = announcements.New(announcements.Options{
		Slot:    slot(announcements.SlotName),
		Clock:   loop,
		Metrics: rec,
	})

	if opts.Checkpoint && cfg.Persist.Checkpoint != config.CheckpointOff {
		if err := schedule.Every(loop, loop, cfg.Persist.Checkpoint, a.Checkpoint); err != nil {
			a.Close()
			return nil, fmt.Errorf("app: checkpoint: %w", err)
		}
	}
	return a, nil
}

// OpenStore returns the snapshot store for cfg and a func releasing it.
func OpenStore(cfg config.StorageConfig) (store.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case "memory":
		return store.NewMemory(), noop, nil
	case "file":
		fs, err := store.NewFile(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		return fs, noop, nil
	case "sqlite", "mysql":
		gdb, err := db.Open(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		if err := db.AutoMigrate(gdb); err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("app: get sql.DB: %w", err)
		}
		return store.NewDB(gdb), sqlDB.Close, nil
	}
	return nil, nil, fmt.Errorf("app: unknown storage driver %q", cfg.Driver)
}

// Run dispatches scheduled work until ctx is cancelled, then writes a final
// checkpoint.
func (a *App) Run(ctx context.Context) {
	a.Loop.Run(ctx)
	a.Checkpoint()
}

// Checkpoint rewrites every engine's snapshot.
func (a *App) Checkpoint() {
	a.Messaging.Checkpoint()
	a.Notes.Checkpoint()
	a.Requests.Checkpoint()
	a.Announcements.Checkpoint()
}

// PersistErrors returns the last write failure per slot, omitting healthy
// slots.
func (a *App) PersistErrors() map[string]error {
	out := make(map[string]error)
	for name, err := range map[string]error{
		messaging.SlotName:     a.Messaging.LastPersistError(),
		notes.SlotName:         a.Notes.LastPersistError(),
		requests.SlotName:      a.Requests.LastPersistError(),
		announcements.SlotName: a.Announcements.LastPersistError(),
	} {
		if err != nil {
			out[name] = err
		}
	}
	return out
}

// Summary is the cross-engine view the home screen shows.
type Summary struct {
	UnreadMessages      int `json:"unread_messages"`
	PendingNotes        int `json:"pending_notes"`
	SubmittedNotes      int `json:"submitted_notes"`
	ActiveRequests      int `json:"active_requests"`
	CompletedRequests   int `json:"completed_requests"`
	ActiveAnnouncements int `json:"active_announcements"`
}

// Summary queries each engine for the home-screen counters.
func (a *App) Summary() Summary {
	return Summary{
		UnreadMessages:      a.Messaging.TotalUnread(),
		PendingNotes:        len(a.Notes.PendingNotes()),
		SubmittedNotes:      len(a.Notes.SubmittedNotes()),
		ActiveRequests:      len(a.Requests.Active()),
		CompletedRequests:   len(a.Requests.Completed()),
		ActiveAnnouncements: len(a.Announcements.Active()),
	}
}

// Close releases the store.
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	if err := a.close(); err != nil {
		log.Printf("app: close store: %v", err)
		return err
	}
	return nil
}
