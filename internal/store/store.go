// Package store persists engine snapshots in named slots.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrNoSnapshot is returned by Read when a slot has never been written.
var ErrNoSnapshot = errors.New("store: no snapshot")

// Store reads and writes raw snapshot bytes by slot name.
type Store interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// PersistenceError wraps a failed snapshot read, decode, encode or write.
type PersistenceError struct {
	Slot string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Slot, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// WriteObserver is told about every snapshot write attempt.
type WriteObserver func(slot string, err error)

// Slot is one engine's persistence boundary: a named snapshot holding JSON.
type Slot struct {
	name     string
	store    Store
	observer WriteObserver

	mu      sync.Mutex
	lastErr error
}

// NewSlot binds name to s. observer may be nil.
func NewSlot(s Store, name string, observer WriteObserver) *Slot {
	return &Slot{name: name, store: s, observer: observer}
}

// Name returns the slot name.
func (s *Slot) Name() string { return s.name }

// Load decodes the slot into v. It reports false with a nil error when the
// slot is empty.
func (s *Slot) Load(v any) (bool, error) {
	data, err := s.store.Read(s.name)
	if errors.Is(err, ErrNoSnapshot) {
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Slot: s.name, Op: "read", Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &PersistenceError{Slot: s.name, Op: "decode", Err: err}
	}
	return true, nil
}

// Save encodes v and writes it to the slot.
func (s *Slot) Save(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Slot: s.name, Op: "encode", Err: err}
	}
	if err := s.store.Write(s.name, data); err != nil {
		return &PersistenceError{Slot: s.name, Op: "write", Err: err}
	}
	return nil
}

// Commit saves v without returning the error to the caller: the in-memory
// state is already authoritative. Failures are logged and kept for
// LastError until the next successful write.
func (s *Slot) Commit(v any) {
	err := s.Save(v)
	if err != nil {
		log.Printf("store: %v", err)
	}
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	if s.observer != nil {
		s.observer(s.name, err)
	}
}

// LastError returns the error from the most recent Commit, or nil.
func (s *Slot) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
