package session

import (
	"context"
	"sync"
)

// MemoryStore is the default in-process session store.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]State
	reschedules map[string]string
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]State),
		reschedules: make(map[string]string),
	}
}

// Get returns a copy of the sender's session state, or nil when none exists.
func (s *MemoryStore) Get(_ context.Context, senderID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[senderID]
	if !ok {
		return nil, nil
	}
	copied := state
	return &copied, nil
}

// Save stores the sender's session state. A nil state deletes the session.
func (s *MemoryStore) Save(_ context.Context, senderID string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil {
		delete(s.sessions, senderID)
		return nil
	}
	s.sessions[senderID] = *state
	return nil
}

// Delete removes the sender's session.
func (s *MemoryStore) Delete(_ context.Context, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, senderID)
	return nil
}

// SetRescheduleID records which appointment the sender is rescheduling.
func (s *MemoryStore) SetRescheduleID(_ context.Context, senderID, appointmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reschedules[senderID] = appointmentID
	return nil
}

// RescheduleID returns the pending reschedule selection, or "" when none.
func (s *MemoryStore) RescheduleID(_ context.Context, senderID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reschedules[senderID], nil
}

// ClearRescheduleID drops the pending reschedule selection.
func (s *MemoryStore) ClearRescheduleID(_ context.Context, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reschedules, senderID)
	return nil
}

// Count reports the number of active sessions.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Ping always succeeds for the in-process store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-process store.
func (s *MemoryStore) Close() error {
	return nil
}
