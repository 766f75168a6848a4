// Package session tracks per-sender conversation state for the appointment
// booking flow. A session exists only while the bot is collecting patient
// details; it is created when a booking starts and destroyed on confirmation
// or cancellation of the flow.
//
// Two backings implement Store: an in-process concurrent map (the default)
// and Redis for multi-replica deployments.
package session

import "context"

// Stage is the step of the booking flow the sender is currently in.
type Stage string

const (
	// StageNone means no booking flow is active.
	StageNone Stage = ""
	// StageAwaitingName waits for the patient's first name.
	StageAwaitingName Stage = "awaiting_name"
	// StageAwaitingSurname waits for the patient's last name.
	StageAwaitingSurname Stage = "awaiting_surname"
	// StageAwaitingPhone waits for the patient's phone number.
	StageAwaitingPhone Stage = "awaiting_phone"
	// StageAwaitingDepartment waits for a department selection.
	StageAwaitingDepartment Stage = "awaiting_department"
)

// State is the pending booking data collected so far.
type State struct {
	Stage      Stage  `json:"stage"`
	Name       string `json:"name,omitempty"`
	Surname    string `json:"surname,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time,omitempty"`
}

// Store persists booking sessions and pending reschedule selections keyed by
// sender id. Get returns nil (not an error) when no session exists;
// RescheduleID returns "" when no selection is pending.
type Store interface {
	Get(ctx context.Context, senderID string) (*State, error)
	Save(ctx context.Context, senderID string, state *State) error
	Delete(ctx context.Context, senderID string) error

	SetRescheduleID(ctx context.Context, senderID, appointmentID string) error
	RescheduleID(ctx context.Context, senderID string) (string, error)
	ClearRescheduleID(ctx context.Context, senderID string) error

	// Count reports the number of active sessions, for readiness reporting.
	Count(ctx context.Context) (int, error)

	Ping(ctx context.Context) error
	Close() error
}
