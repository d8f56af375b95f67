package store

import "sync"

// Memory keeps snapshots in process memory.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
	// FailWrites makes every Write return this error when set.
	FailWrites error
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// Read implements Store.
func (m *Memory) Read(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[name]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), data...), nil
}

// Write implements Store.
func (m *Memory) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.slots[name] = append([]byte(nil), data...)
	return nil
}
