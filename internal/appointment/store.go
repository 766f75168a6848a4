// Package appointment holds confirmed appointments in memory, keyed by
// sender. Records keep their creation order per sender, and mutations are
// serialized so concurrent webhook deliveries for one sender cannot race.
package appointment

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	apperrors "github.com/healthdesk/triage-bot-go/internal/errors"
)

// StatusConfirmed is the only status a stored appointment carries. Cancelled
// appointments are removed, not flagged.
const StatusConfirmed = "confirmed"

// Record is a confirmed appointment.
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	Doctor     string    `json:"doctor"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewID generates a confirmation id: "HC" followed by five digits.
func NewID() string {
	return fmt.Sprintf("HC%d", 10000+rand.Intn(90000))
}

// Store is the in-memory appointment book.
type Store struct {
	mu       sync.RWMutex
	bySender map[string][]Record
}

// NewStore creates an empty appointment store.
func NewStore() *Store {
	return &Store{bySender: make(map[string][]Record)}
}

// Create confirms an appointment for the sender. A missing id, status, or
// creation time is filled in; the stored record is returned.
func (s *Store) Create(senderID string, rec Record) Record {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.Status == "" {
		rec.Status = StatusConfirmed
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySender[senderID] = append(s.bySender[senderID], rec)
	return rec
}

// List returns the sender's appointments in creation order. The returned
// slice is a copy; listing does not change state.
func (s *Store) List(senderID string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.bySender[senderID]
	if len(records) == 0 {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Get returns the sender's appointment with the given id.
func (s *Store) Get(senderID, id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.bySender[senderID] {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Cancel removes the appointment with the given id and returns it.
// Returns ErrAppointmentNotFound when the id does not match.
func (s *Store) Cancel(senderID, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.bySender[senderID]
	for i, rec := range records {
		if rec.ID != id {
			continue
		}
		s.bySender[senderID] = append(records[:i:i], records[i+1:]...)
		if len(s.bySender[senderID]) == 0 {
			delete(s.bySender, senderID)
		}
		return rec, nil
	}
	return Record{}, apperrors.ErrAppointmentNotFound
}

// Reschedule updates only the date and time of the appointment with the
// given id. Doctor, department, and confirmation id are untouched.
// It returns the record before and after the change.
func (s *Store) Reschedule(senderID, id, date, timeSlot string) (before, after Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.bySender[senderID]
	for i, rec := range records {
		if rec.ID != id {
			continue
		}
		before = rec
		records[i].Date = date
		records[i].Time = timeSlot
		return before, records[i], nil
	}
	return Record{}, Record{}, apperrors.ErrAppointmentNotFound
}

// Count reports the total number of stored appointments across senders.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, records := range s.bySender {
		total += len(records)
	}
	return total
}
