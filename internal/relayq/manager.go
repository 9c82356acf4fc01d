package relayq

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotCreated is returned by Get before any queue exists.
	ErrNotCreated = errors.New("relay queue not created yet")
	// ErrNotOwner is returned by CreateOrGet outside the owning process.
	ErrNotOwner = errors.New("relay queue can only be created by the owning process")
	// ErrCapacityFixed is returned when changing capacity after creation.
	ErrCapacityFixed = errors.New("relay queue capacity is fixed once created")
	// ErrHandleSet is returned when adopting over a different live handle.
	ErrHandleSet = errors.New("relay queue handle already set")
)

// Manager owns the process-wide relay queue slot.
type Manager struct {
	mu       sync.Mutex
	handle   Handle
	capacity int
	owner    bool
}

// NewManager returns an empty slot. owner reports whether this process may
// create the queue itself.
func NewManager(owner bool) *Manager {
	return &Manager{capacity: DefaultCapacity, owner: owner}
}

// Owner reports whether the manager may create queues.
func (m *Manager) Owner() bool { return m.owner }

// SetCapacity changes the capacity used by the next creation.
func (m *Manager) SetCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("relay queue capacity must be positive, got %d", capacity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle != nil {
		if q, ok := m.handle.(*Queue); ok && q.Cap() == capacity {
			return nil
		}
		return ErrCapacityFixed
	}
	m.capacity = capacity
	return nil
}

// CreateOrGet returns the existing handle or, in the owning process, creates
// a queue with the configured capacity.
func (m *Manager) CreateOrGet() (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle != nil {
		return m.handle, nil
	}
	if !m.owner {
		return nil, ErrNotOwner
	}
	m.handle = NewQueue(m.capacity)
	return m.handle, nil
}

// Get returns the handle without creating one.
func (m *Manager) Get() (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return nil, ErrNotCreated
	}
	return m.handle, nil
}

// Queue returns the locally owned queue, if the slot holds one.
func (m *Manager) Queue() (*Queue, error) {
	h, err := m.Get()
	if err != nil {
		return nil, err
	}
	q, ok := h.(*Queue)
	if !ok {
		return nil, fmt.Errorf("relay queue %s is a forwarding handle", h.ID())
	}
	return q, nil
}

// Adopt installs a handle received from the owning process.
func (m *Manager) Adopt(h Handle) error {
	if h == nil {
		return errors.New("adopt relay queue: nil handle")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle != nil && m.handle.ID() != h.ID() {
		return ErrHandleSet
	}
	m.handle = h
	return nil
}

// Reset clears the slot. The previous handle is not closed.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.handle = nil
	m.capacity = DefaultCapacity
	m.mu.Unlock()
}

var std = NewManager(!IsWorker())

// Default returns the process-wide manager.
func Default() *Manager { return std }
