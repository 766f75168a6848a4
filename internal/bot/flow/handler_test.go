package flow

import (
	"context"
	"regexp"
	"testing"

	"github.com/healthdesk/triage-bot-go/internal/appointment"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/session"
	"github.com/stretchr/testify/assert"
)

var confirmationIDRe = regexp.MustCompile(`HC\d{5}`)

func newTestHandler(t *testing.T) (*Handler, session.Store, *appointment.Store) {
	t.Helper()
	sessions := session.NewMemoryStore()
	appointments := appointment.NewStore()
	h := New(sessions, appointments, nil, nil, nil, logger.New("error"))
	return h, sessions, appointments
}

func openBooking(t *testing.T, sessions session.Store, senderID string, state *session.State) {
	t.Helper()
	assert.NoError(t, sessions.Save(context.Background(), senderID, state))
}

func TestCanHandleRequiresActiveSession(t *testing.T) {
	h, sessions, _ := newTestHandler(t)
	ctx := context.Background()

	assert.False(t, h.CanHandle(ctx, "u1", "book appointment"))

	openBooking(t, sessions, "u1", &session.State{Stage: session.StageAwaitingName})
	assert.True(t, h.CanHandle(ctx, "u1", "anything at all"))
	assert.False(t, h.CanHandle(ctx, "u2", "anything at all"))
}

func TestFlowCollectsDetailsAndConfirms(t *testing.T) {
	h, sessions, appointments := newTestHandler(t)
	ctx := context.Background()
	openBooking(t, sessions, "u1", &session.State{
		Stage: session.StageAwaitingName,
		Date:  "Tomorrow",
		Time:  "9:00 AM",
	})

	replies := h.Handle(ctx, "u1", "John")
	assert.Len(t, replies, 1)
	assert.Equal(t, "Please provide your last name:", replies[0].Text)

	replies = h.Handle(ctx, "u1", "Doe")
	assert.Equal(t, "Please provide your phone number:", replies[0].Text)

	replies = h.Handle(ctx, "u1", "555-0123")
	assert.Contains(t, replies[0].Text, "Which department would you like to visit?")
	assert.Len(t, replies[0].Buttons, 6)

	replies = h.Handle(ctx, "u1", "/select_Cardiology")
	assert.Contains(t, replies[0].Text, "APPOINTMENT CONFIRMED")
	assert.Contains(t, replies[0].Text, "Patient: John Doe")
	assert.Contains(t, replies[0].Text, "Phone: 555-0123")
	assert.Contains(t, replies[0].Text, "Department: Cardiology")
	assert.Contains(t, replies[0].Text, "Date: Tomorrow at 9:00 AM")
	assert.Regexp(t, confirmationIDRe, replies[0].Text)

	list := appointments.List("u1")
	assert.Len(t, list, 1)
	assert.Equal(t, "John", list[0].Name)
	assert.Equal(t, "Doe", list[0].Surname)
	assert.Equal(t, "Cardiology", list[0].Department)
	assert.NotEmpty(t, list[0].Doctor)
	assert.Regexp(t, confirmationIDRe, list[0].ID)

	// Confirmation ends the flow.
	state, err := sessions.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, state)
	assert.False(t, h.CanHandle(ctx, "u1", "hello"))
}

func TestFlowSkipsDepartmentPromptWhenPreassigned(t *testing.T) {
	h, sessions, appointments := newTestHandler(t)
	ctx := context.Background()
	openBooking(t, sessions, "u1", &session.State{
		Stage:      session.StageAwaitingName,
		Department: "Cardiology",
		Date:       "Today",
		Time:       "4:30 PM",
	})

	h.Handle(ctx, "u1", "Jane")
	h.Handle(ctx, "u1", "Smith")
	replies := h.Handle(ctx, "u1", "555-9999")

	assert.Contains(t, replies[0].Text, "APPOINTMENT CONFIRMED")
	assert.Contains(t, replies[0].Text, "Department: Cardiology")

	list := appointments.List("u1")
	assert.Len(t, list, 1)
	assert.Contains(t, []string{"Dr. Sarah Johnson", "Dr. Robert Williams"}, list[0].Doctor)
}

func TestFlowAcceptsTypedDepartmentName(t *testing.T) {
	h, sessions, appointments := newTestHandler(t)
	ctx := context.Background()
	openBooking(t, sessions, "u1", &session.State{
		Stage:   session.StageAwaitingDepartment,
		Name:    "John",
		Surname: "Doe",
		Phone:   "555-0123",
	})

	replies := h.Handle(ctx, "u1", "Neurology please")

	assert.Contains(t, replies[0].Text, "APPOINTMENT CONFIRMED")
	assert.Equal(t, "Neurology", appointments.List("u1")[0].Department)
}

func TestFlowRejectsUnknownDepartment(t *testing.T) {
	h, sessions, _ := newTestHandler(t)
	ctx := context.Background()
	openBooking(t, sessions, "u1", &session.State{Stage: session.StageAwaitingDepartment})

	replies := h.Handle(ctx, "u1", "/select_Dermatology")

	assert.Equal(t,
		"I didn't understand that department. Please select one from the list above.",
		replies[0].Text)

	// Sender is still being prompted for a department.
	state, err := sessions.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, session.StageAwaitingDepartment, state.Stage)
}

func TestFlowConfirmationFillsDefaults(t *testing.T) {
	h, sessions, appointments := newTestHandler(t)
	ctx := context.Background()
	openBooking(t, sessions, "u1", &session.State{Stage: session.StageAwaitingDepartment})

	replies := h.Handle(ctx, "u1", "/select_General Medicine")

	assert.Contains(t, replies[0].Text, "APPOINTMENT CONFIRMED")
	rec := appointments.List("u1")[0]
	assert.Equal(t, "General Medicine", rec.Department)
	assert.Equal(t, "Tomorrow", rec.Date)
	assert.Equal(t, "9:00 AM", rec.Time)
}

func TestEmergencyWordingIsTreatedAsAnswerMidFlow(t *testing.T) {
	h, sessions, _ := newTestHandler(t)
	ctx := context.Background()
	openBooking(t, sessions, "u1", &session.State{Stage: session.StageAwaitingName})

	assert.True(t, h.CanHandle(ctx, "u1", "chest pain"))
	replies := h.Handle(ctx, "u1", "chest pain")
	assert.Equal(t, "Please provide your last name:", replies[0].Text)

	state, err := sessions.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, "chest pain", state.Name)
}

func TestParseDepartment(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"select payload", "/select_Cardiology", "Cardiology"},
		{"select with space", "/select_General Medicine", "General Medicine"},
		{"typed name", "orthopedics", "Orthopedics"},
		{"typed inside sentence", "I'd like Pediatrics", "Pediatrics"},
		{"unknown payload", "/select_Dermatology", ""},
		{"unrelated text", "tomorrow morning", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDepartment(tt.message))
		})
	}
}
