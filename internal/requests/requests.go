// Package requests owns the service request catalog and the requests filed
// against it, and drives each request through its approval lifecycle.
package requests

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

// SlotName is the persistence slot holding the requests snapshot.
const SlotName = "requests-storage"

// Notes attached by the simulated approval workflow.
const (
	ApprovedNote   = "Request has been reviewed and approved"
	InProgressNote = "Staff assigned and working on request"
)

// ValidTransitions maps each status to the statuses it may move to. A
// request may also be updated to its current status to amend notes.
var ValidTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.StatusPending:    {models.StatusApproved, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusApproved:   {models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
}

// Options configures an Engine.
type Options struct {
	Slot      *store.Slot        // nil keeps state in memory only
	Scheduler schedule.Scheduler // nil disables the approval workflow
	Clock     schedule.Clock
	Metrics   *metrics.Recorder

	// Zero values mean 10s, 30s and 1h.
	ApproveAfter     time.Duration
	ProgressAfter    time.Duration
	CompletionWindow time.Duration

	Types    []models.RequestType      // nil uses DefaultTypes
	Requests []models.SubmittedRequest // nil uses DefaultRequests when Types is nil
}

// SubmitOpts holds parameters for filing a request.
type SubmitOpts struct {
	TypeID      string
	Description string
	Priority    models.Priority
	Location    string
}

type snapshot struct {
	Requests []models.SubmittedRequest `json:"requests"`
	NextID   uint64                    `json:"next_id"`
	Steps    []step                    `json:"steps,omitempty"`
}

// step is an outstanding scheduled transition. Steps are persisted so a
// restarted engine can re-arm them at their original deadlines.
type step struct {
	RequestID uint64               `json:"request_id"`
	To        models.RequestStatus `json:"to"`
	At        time.Time            `json:"at"`
}

// Engine holds submitted requests, newest first.
type Engine struct {
	slot             *store.Slot
	scheduler        schedule.Scheduler
	clock            schedule.Clock
	metrics          *metrics.Recorder
	approveAfter     time.Duration
	progressAfter    time.Duration
	completionWindow time.Duration
	types            []models.RequestType

	mu       sync.Mutex
	requests []models.SubmittedRequest
	nextID   uint64
	steps    []step
}

// New builds an Engine, restoring requests from the slot when a snapshot can
// be read and falling back to seed data otherwise.
func New(opts Options) *Engine {
	e := &Engine{
		slot:             opts.Slot,
		scheduler:        opts.Scheduler,
		clock:            opts.Clock,
		metrics:          opts.Metrics,
		approveAfter:     opts.ApproveAfter,
		progressAfter:    opts.ProgressAfter,
		completionWindow: opts.CompletionWindow,
		types:            opts.Types,
	}
	if e.clock == nil {
		e.clock = schedule.SystemClock{}
	}
	if e.slot == nil {
		e.slot = store.NewSlot(store.NewMemory(), SlotName, nil)
	}
	if e.approveAfter == 0 {
		e.approveAfter = 10 * time.Second
	}
	if e.progressAfter == 0 {
		e.progressAfter = 30 * time.Second
	}
	if e.completionWindow == 0 {
		e.completionWindow = time.Hour
	}

	seed := opts.Requests
	if e.types == nil {
		e.types = DefaultTypes()
		if seed == nil {
			seed = DefaultRequests(e.clock.Now())
		}
	}

	var snap snapshot
	ok, err := e.slot.Load(&snap)
	if err != nil {
		log.Printf("requests: restore failed, using seed data: %v", err)
	}
	var steps []step
	if ok && err == nil {
		e.requests = snap.Requests
		e.nextID = snap.NextID
		steps = snap.Steps
	} else {
		e.requests = append([]models.SubmittedRequest(nil), seed...)
	}
	if e.nextID == 0 {
		e.nextID = 1
	}
	for _, r := range e.requests {
		if r.ID >= e.nextID {
			e.nextID = r.ID + 1
		}
	}

	// Without a scheduler, outstanding steps are carried along so a later
	// process can still run them.
	if e.scheduler == nil {
		e.steps = steps
		return e
	}
	e.mu.Lock()
	for _, s := range steps {
		e.armLocked(s)
	}
	e.mu.Unlock()
	return e
}

// Types returns the request catalog.
func (e *Engine) Types() []models.RequestType {
	return append([]models.RequestType(nil), e.types...)
}

// Type returns the catalog entry with id.
func (e *Engine) Type(id string) (models.RequestType, bool) {
	for _, t := range e.types {
		if t.ID == id {
			return t, true
		}
	}
	return models.RequestType{}, false
}

// Submit files a new request. Urgent requests skip review and start
// approved; others start pending and are approved, then started, by the
// scheduler.
func (e *Engine) Submit(opts SubmitOpts) (models.SubmittedRequest, error) {
	t, ok := e.Type(opts.TypeID)
	if !ok {
		return models.SubmittedRequest{}, fmt.Errorf("requests: type %q: %w", opts.TypeID, models.ErrNotFound)
	}
	desc := strings.TrimSpace(opts.Description)
	var violations []string
	if desc == "" {
		violations = append(violations, "description is required")
	}
	if !opts.Priority.Valid() {
		violations = append(violations, fmt.Sprintf("priority %q must be one of low, medium, high, urgent", opts.Priority))
	}
	if len(violations) > 0 {
		return models.SubmittedRequest{}, &models.ValidationError{Violations: violations}
	}

	status := models.StatusPending
	if opts.Priority == models.PriorityUrgent {
		status = models.StatusApproved
	}

	e.mu.Lock()
	r := models.SubmittedRequest{
		ID:          e.nextID,
		TypeID:      t.ID,
		TypeName:    t.Name,
		Icon:        t.Icon,
		Description: desc,
		Location:    strings.TrimSpace(opts.Location),
		Priority:    opts.Priority,
		Status:      status,
		CreatedAt:   e.clock.Now(),
	}
	e.nextID++
	e.requests = append([]models.SubmittedRequest{r}, e.requests...)
	if status == models.StatusPending && e.scheduler != nil {
		e.armLocked(step{RequestID: r.ID, To: models.StatusApproved, At: r.CreatedAt.Add(e.approveAfter)})
	}
	e.commitLocked()
	e.mu.Unlock()

	e.metrics.RequestSubmitted(t.ID, string(r.Priority))
	return copyRequest(r), nil
}

// UpdateStatus moves request id to status. Non-empty notes replace the
// request's notes. Moving to in_progress sets the estimated completion.
func (e *Engine) UpdateStatus(id uint64, status models.RequestStatus, notes string) error {
	e.mu.Lock()
	i := e.index(id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("requests: request %d: %w", id, models.ErrNotFound)
	}
	from := e.requests[i].Status
	if !isValidTransition(from, status) {
		e.mu.Unlock()
		return &models.ValidationError{Violations: []string{
			fmt.Sprintf("invalid status transition from %q to %q; valid transitions: %v", from, status, ValidTransitions[from]),
		}}
	}
	e.applyLocked(i, status, notes)
	e.commitLocked()
	e.mu.Unlock()

	if from != status {
		e.metrics.Transition(string(status), "manual")
	}
	return nil
}

// armLocked records s and hands it to the scheduler. A deadline already in
// the past fires as soon as the scheduler runs.
func (e *Engine) armLocked(s step) {
	e.steps = append(e.steps, s)
	e.scheduler.Schedule(max(s.At.Sub(e.clock.Now()), 0), func() { e.runStep(s) })
}

// runStep performs a scheduled transition. The approval step always hands
// off to the progress step while the request sits in approved, whether the
// scheduler or a person approved it.
func (e *Engine) runStep(s step) {
	from, notes := models.StatusPending, ApprovedNote
	if s.To == models.StatusInProgress {
		from, notes = models.StatusApproved, InProgressNote
	}

	e.mu.Lock()
	e.dropStepLocked(s)
	applied := e.transitionLocked(s.RequestID, from, s.To, notes)
	if s.To == models.StatusApproved {
		if i := e.index(s.RequestID); i >= 0 && e.requests[i].Status == models.StatusApproved {
			e.armLocked(step{RequestID: s.RequestID, To: models.StatusInProgress, At: e.clock.Now().Add(e.progressAfter)})
		}
	}
	e.commitLocked()
	e.mu.Unlock()

	if applied {
		e.metrics.Transition(string(s.To), "scheduled")
	}
}

func (e *Engine) dropStepLocked(s step) {
	for i, cur := range e.steps {
		if cur.RequestID == s.RequestID && cur.To == s.To {
			e.steps = append(e.steps[:i], e.steps[i+1:]...)
			return
		}
	}
}

// transitionLocked moves request id from expected to next, reporting whether
// it did. A request that is gone or has moved on is left alone.
func (e *Engine) transitionLocked(id uint64, expected, next models.RequestStatus, notes string) bool {
	i := e.index(id)
	if i < 0 {
		log.Printf("requests: %s skipped, request %d no longer exists", next, id)
		return false
	}
	if cur := e.requests[i].Status; cur != expected {
		log.Printf("requests: %s skipped for request %d, status is %s", next, id, cur)
		return false
	}
	e.applyLocked(i, next, notes)
	return true
}

func (e *Engine) applyLocked(i int, status models.RequestStatus, notes string) {
	r := &e.requests[i]
	r.Status = status
	if notes != "" {
		r.Notes = notes
	}
	if status == models.StatusInProgress {
		eta := e.clock.Now().Add(e.completionWindow)
		r.EstimatedCompletion = &eta
	}
}

func isValidTransition(from, to models.RequestStatus) bool {
	if from == to {
		return true
	}
	for _, v := range ValidTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// Assign records who is handling request id.
func (e *Engine) Assign(id uint64, assignee string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(id)
	if i < 0 {
		return fmt.Errorf("requests: request %d: %w", id, models.ErrNotFound)
	}
	e.requests[i].AssignedTo = strings.TrimSpace(assignee)
	e.commitLocked()
	return nil
}

// Request returns the request with id.
func (e *Engine) Request(id uint64) (models.SubmittedRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(id)
	if i < 0 {
		return models.SubmittedRequest{}, false
	}
	return copyRequest(e.requests[i]), true
}

// All returns every request, most recent first.
func (e *Engine) All() []models.SubmittedRequest {
	return e.filter(func(models.SubmittedRequest) bool { return true })
}

// Active returns requests that have not reached a terminal status, most
// recent first.
func (e *Engine) Active() []models.SubmittedRequest {
	return e.filter(func(r models.SubmittedRequest) bool { return !r.Status.Terminal() })
}

// Completed returns completed and cancelled requests, most recent first.
func (e *Engine) Completed() []models.SubmittedRequest {
	return e.filter(func(r models.SubmittedRequest) bool { return r.Status.Terminal() })
}

func (e *Engine) filter(keep func(models.SubmittedRequest) bool) []models.SubmittedRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []models.SubmittedRequest{}
	for _, r := range e.requests {
		if keep(r) {
			out = append(out, copyRequest(r))
		}
	}
	return out
}

func (e *Engine) index(id uint64) int {
	for i := range e.requests {
		if e.requests[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) commitLocked() {
	e.slot.Commit(snapshot{Requests: e.requests, NextID: e.nextID, Steps: e.steps})
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

func copyRequest(r models.SubmittedRequest) models.SubmittedRequest {
	if r.EstimatedCompletion != nil {
		eta := *r.EstimatedCompletion
		r.EstimatedCompletion = &eta
	}
	return r
}
