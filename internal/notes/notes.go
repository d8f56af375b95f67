// Package notes owns the note template catalog and the notes filled in
// against it, as drafts or submitted.
package notes

import (
	"fmt"
	"log"
	"sync"

	"github.com/zulandar/wardroom/internal/metrics"
	"github.com/zulandar/wardroom/internal/models"
	"github.com/zulandar/wardroom/internal/schedule"
	"github.com/zulandar/wardroom/internal/store"
)

// SlotName is the persistence slot holding the notes snapshot.
const SlotName = "notes-storage"

// Options configures an Engine.
type Options struct {
	Slot      *store.Slot // nil keeps state in memory only
	Clock     schedule.Clock
	Metrics   *metrics.Recorder
	Templates []models.NoteTemplate // nil uses DefaultTemplates
}

type snapshot struct {
	Notes  []models.CompletedNote `json:"notes"`
	NextID uint64                 `json:"next_id"`
}

// Engine holds completed notes. Templates are fixed at construction.
type Engine struct {
	slot      *store.Slot
	clock     schedule.Clock
	metrics   *metrics.Recorder
	templates []models.NoteTemplate

	mu     sync.Mutex
	notes  []models.CompletedNote
	nextID uint64
}

// New builds an Engine, restoring completed notes from the slot when a
// snapshot can be read.
func New(opts Options) *Engine {
	e := &Engine{
		slot:      opts.Slot,
		clock:     opts.Clock,
		metrics:   opts.Metrics,
		templates: opts.Templates,
		nextID:    1,
	}
	if e.clock == nil {
		e.clock = schedule.SystemClock{}
	}
	if e.slot == nil {
		e.slot = store.NewSlot(store.NewMemory(), SlotName, nil)
	}
	if e.templates == nil {
		e.templates = DefaultTemplates()
	}

	var snap snapshot
	ok, err := e.slot.Load(&snap)
	if err != nil {
		log.Printf("notes: restore failed, starting empty: %v", err)
	}
	if ok && err == nil {
		e.notes = snap.Notes
		e.nextID = snap.NextID
		for _, n := range e.notes {
			if n.ID >= e.nextID {
				e.nextID = n.ID + 1
			}
		}
	}
	return e
}

// Templates returns the catalog in display order.
func (e *Engine) Templates() []models.NoteTemplate {
	out := make([]models.NoteTemplate, len(e.templates))
	for i, t := range e.templates {
		out[i] = copyTemplate(t)
	}
	return out
}

// Template returns the template with id.
func (e *Engine) Template(id string) (models.NoteTemplate, bool) {
	t, ok := e.template(id)
	if !ok {
		return models.NoteTemplate{}, false
	}
	return copyTemplate(t), true
}

func (e *Engine) template(id string) (models.NoteTemplate, bool) {
	for _, t := range e.templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.NoteTemplate{}, false
}

// SaveDraft stores values against templateID without checking required
// fields.
func (e *Engine) SaveDraft(templateID string, values map[string]models.FieldValue) (models.CompletedNote, error) {
	t, ok := e.template(templateID)
	if !ok {
		return models.CompletedNote{}, fmt.Errorf("notes: template %q: %w", templateID, models.ErrNotFound)
	}
	return e.add(t, values, false), nil
}

// Submit stores values against templateID as a submitted note. It fails
// with a *models.ValidationError naming every required field left blank.
func (e *Engine) Submit(templateID string, values map[string]models.FieldValue) (models.CompletedNote, error) {
	t, ok := e.template(templateID)
	if !ok {
		return models.CompletedNote{}, fmt.Errorf("notes: template %q: %w", templateID, models.ErrNotFound)
	}
	if missing := MissingRequired(t, values); len(missing) > 0 {
		return models.CompletedNote{}, &models.ValidationError{Violations: missing}
	}
	return e.add(t, values, true), nil
}

// SubmitDraft submits a previously saved draft. The draft's values must
// satisfy the template's required fields.
func (e *Engine) SubmitDraft(noteID uint64) (models.CompletedNote, error) {
	e.mu.Lock()
	i := e.noteIndex(noteID)
	if i < 0 {
		e.mu.Unlock()
		return models.CompletedNote{}, fmt.Errorf("notes: note %d: %w", noteID, models.ErrNotFound)
	}
	n := &e.notes[i]
	if n.Submitted {
		e.mu.Unlock()
		return models.CompletedNote{}, &models.ValidationError{Violations: []string{"note already submitted"}}
	}
	if t, ok := e.template(n.TemplateID); ok {
		if missing := MissingRequired(t, n.Values); len(missing) > 0 {
			e.mu.Unlock()
			return models.CompletedNote{}, &models.ValidationError{Violations: missing}
		}
	}
	n.Submitted = true
	out := copyNote(*n)
	e.slot.Commit(e.snapshotLocked())
	e.mu.Unlock()

	e.metrics.NoteSaved(out.TemplateID, "submitted")
	return out, nil
}

func (e *Engine) add(t models.NoteTemplate, values map[string]models.FieldValue, submitted bool) models.CompletedNote {
	e.mu.Lock()
	n := models.CompletedNote{
		ID:            e.nextID,
		TemplateID:    t.ID,
		TemplateTitle: t.Title,
		Values:        copyValues(values),
		CreatedAt:     e.clock.Now(),
		Submitted:     submitted,
	}
	e.nextID++
	e.notes = append(e.notes, n)
	e.slot.Commit(e.snapshotLocked())
	e.mu.Unlock()

	state := "draft"
	if submitted {
		state = "submitted"
	}
	e.metrics.NoteSaved(t.ID, state)
	return copyNote(n)
}

// MissingRequired returns the labels of t's required fields that have no
// value in values, in template order.
func MissingRequired(t models.NoteTemplate, values map[string]models.FieldValue) []string {
	var missing []string
	for _, f := range t.Fields {
		if !f.Required {
			continue
		}
		if v, ok := values[f.ID]; !ok || !v.Present() {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

// Notes returns every note in creation order.
func (e *Engine) Notes() []models.CompletedNote {
	return e.filter(func(models.CompletedNote) bool { return true })
}

// PendingNotes returns drafts not yet submitted.
func (e *Engine) PendingNotes() []models.CompletedNote {
	return e.filter(func(n models.CompletedNote) bool { return !n.Submitted })
}

// SubmittedNotes returns submitted notes.
func (e *Engine) SubmittedNotes() []models.CompletedNote {
	return e.filter(func(n models.CompletedNote) bool { return n.Submitted })
}

// Note returns the note with id.
func (e *Engine) Note(id uint64) (models.CompletedNote, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.noteIndex(id)
	if i < 0 {
		return models.CompletedNote{}, false
	}
	return copyNote(e.notes[i]), true
}

func (e *Engine) filter(keep func(models.CompletedNote) bool) []models.CompletedNote {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []models.CompletedNote{}
	for _, n := range e.notes {
		if keep(n) {
			out = append(out, copyNote(n))
		}
	}
	return out
}

func (e *Engine) noteIndex(id uint64) int {
	for i := range e.notes {
		if e.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) snapshotLocked() snapshot {
	return snapshot{Notes: e.notes, NextID: e.nextID}
}

// Checkpoint rewrites the snapshot from the current state.
func (e *Engine) Checkpoint() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slot.Commit(e.snapshotLocked())
}

// LastPersistError returns the most recent snapshot write failure.
func (e *Engine) LastPersistError() error {
	return e.slot.LastError()
}

func copyValues(in map[string]models.FieldValue) map[string]models.FieldValue {
	out := make(map[string]models.FieldValue, len(in))
	for k, v := range in {
		if v.Checked != nil {
			v = models.Bool(*v.Checked)
		}
		out[k] = v
	}
	return out
}

func copyNote(n models.CompletedNote) models.CompletedNote {
	n.Values = copyValues(n.Values)
	return n
}

func copyTemplate(t models.NoteTemplate) models.NoteTemplate {
	fields := make([]models.NoteField, len(t.Fields))
	for i, f := range t.Fields {
		f.Options = append([]string(nil), f.Options...)
		fields[i] = f
	}
	t.Fields = fields
	return t
}
