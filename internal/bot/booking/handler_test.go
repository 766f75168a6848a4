package booking

import (
	"context"
	"fmt"
	"testing"

	"github.com/healthdesk/triage-bot-go/internal/appointment"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/session"
	"github.com/stretchr/testify/assert"
)

func newTestHandler(t *testing.T) (*Handler, session.Store, *appointment.Store) {
	t.Helper()
	sessions := session.NewMemoryStore()
	appointments := appointment.NewStore()
	h := New(sessions, appointments, nil, nil, nil, logger.New("error"))
	return h, sessions, appointments
}

func createAppointment(t *testing.T, store *appointment.Store, senderID string, rec appointment.Record) appointment.Record {
	t.Helper()
	if rec.Doctor == "" {
		rec.Doctor = "Dr. Emily Rodriguez"
	}
	if rec.Date == "" {
		rec.Date = "Tomorrow"
	}
	if rec.Time == "" {
		rec.Time = "9:00 AM"
	}
	return store.Create(senderID, rec)
}

func TestCanHandle(t *testing.T) {
	h, _, _ := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		message string
		want    bool
	}{
		{"I need an appointment", true},
		{"Cancel my appointment", true},
		{"/cancel_apt_HC12345", true},
		{"/reschedule_apt_HC12345", true},
		{"/reschedule_tomorrow_9am", true},
		{"/book_today_430pm", true},
		{"Tomorrow 2:00 PM works", true},
		{"book appointment for friday at 14:30", true},
		{"/type_symptoms", true},
		{"hello", false},
		{"my back hurts", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, h.CanHandle(ctx, "u1", tt.message))
		})
	}
}

func TestGenericAppointmentRequestShowsSlotMenu(t *testing.T) {
	h, _, _ := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "I'd like to schedule an appointment")

	assert.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "APPOINTMENT SCHEDULING")
	assert.Len(t, replies[0].Buttons, 4)
	assert.Equal(t, "/book_today_430pm", replies[0].Buttons[0].Payload)
	assert.Equal(t, "/open_calendar", replies[0].Buttons[3].Payload)
}

func TestTypeSymptomsPrompt(t *testing.T) {
	h, _, _ := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "/type_symptoms")

	assert.Contains(t, replies[0].Text, "Please type your symptoms in your own words.")
	assert.Empty(t, replies[0].Buttons)
}

func TestSlotBookingOpensDetailFlow(t *testing.T) {
	h, sessions, _ := newTestHandler(t)
	ctx := context.Background()

	replies := h.Handle(ctx, "u1", "/book_tomorrow_9am")

	assert.Equal(t,
		"Great! I'll help you book an appointment for Tomorrow at 9:00 AM.\n\nPlease provide your first name:",
		replies[0].Text)

	state, err := sessions.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, session.StageAwaitingName, state.Stage)
	assert.Equal(t, "Tomorrow", state.Date)
	assert.Equal(t, "9:00 AM", state.Time)
	assert.Empty(t, state.Department)
}

func TestCalendarBookingParsesDateAndTime(t *testing.T) {
	h, sessions, _ := newTestHandler(t)
	ctx := context.Background()

	replies := h.Handle(ctx, "u1", "book appointment for friday, december 27, 2024 at 14:30")

	assert.Contains(t, replies[0].Text, "Friday, December 27, 2024 at 14:30")

	state, err := sessions.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, session.StageAwaitingName, state.Stage)
	assert.Equal(t, "Friday, December 27, 2024", state.Date)
	assert.Equal(t, "14:30", state.Time)
}

func TestCalendarBookingWithUnparsableDetails(t *testing.T) {
	h, sessions, _ := newTestHandler(t)
	ctx := context.Background()

	replies := h.Handle(ctx, "u1", "book appointment for whenever suits")

	assert.Contains(t, replies[0].Text, "Unknown date at Unknown time")

	state, err := sessions.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, "Unknown date", state.Date)
	assert.Equal(t, "Unknown time", state.Time)
}

func TestBookingAutoAssignsDepartmentFromSymptomWording(t *testing.T) {
	h, sessions, _ := newTestHandler(t)
	ctx := context.Background()

	h.Handle(ctx, "u1", "book appointment for chest pain at 09:30")

	state, err := sessions.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, "Cardiology", state.Department)
}

func TestCancelWithNoAppointments(t *testing.T) {
	h, _, _ := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "cancel my appointment")

	assert.Equal(t, "No appointments to cancel.", replies[0].Text)
	assert.Len(t, replies[0].Buttons, 1)
	assert.Equal(t, "/schedule_appointment", replies[0].Buttons[0].Payload)
}

func TestCancelSingleAppointmentDirectly(t *testing.T) {
	h, _, appointments := newTestHandler(t)
	rec := createAppointment(t, appointments, "u1", appointment.Record{})

	replies := h.Handle(context.Background(), "u1", "cancel my appointment")

	assert.Contains(t, replies[0].Text, "APPOINTMENT CANCELLED")
	assert.Contains(t, replies[0].Text, rec.ID)
	assert.Contains(t, replies[0].Text, "Would you like to reschedule?")
	assert.Empty(t, appointments.List("u1"))
}

func TestCancelDisambiguationCapsButtonsAtThree(t *testing.T) {
	h, _, appointments := newTestHandler(t)
	for i := 0; i < 4; i++ {
		createAppointment(t, appointments, "u1", appointment.Record{
			ID: fmt.Sprintf("HC1000%d", i),
		})
	}

	replies := h.Handle(context.Background(), "u1", "cancel appointment")

	assert.Contains(t, replies[0].Text, "WHICH APPOINTMENT TO CANCEL?")
	// All four listed, but the quick buttons stop at three.
	assert.Contains(t, replies[0].Text, "4. Tomorrow at 9:00 AM")
	assert.Len(t, replies[0].Buttons, 3)
	assert.Equal(t, "/cancel_apt_HC10000", replies[0].Buttons[0].Payload)
	// Nothing is cancelled until the sender picks one.
	assert.Len(t, appointments.List("u1"), 4)
}

func TestCancelByID(t *testing.T) {
	h, _, appointments := newTestHandler(t)
	ctx := context.Background()
	rec := createAppointment(t, appointments, "u1", appointment.Record{})
	keep := createAppointment(t, appointments, "u1", appointment.Record{Date: "Today", Time: "4:30 PM"})

	replies := h.Handle(ctx, "u1", "/cancel_apt_"+rec.ID)

	assert.Contains(t, replies[0].Text, "APPOINTMENT CANCELLED")
	assert.Contains(t, replies[0].Text, rec.ID)

	list := appointments.List("u1")
	assert.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}

func TestCancelByIDNotFound(t *testing.T) {
	h, _, appointments := newTestHandler(t)
	ctx := context.Background()

	replies := h.Handle(ctx, "u1", "/cancel_apt_HC99999")
	assert.Equal(t, "No appointments found.", replies[0].Text)

	createAppointment(t, appointments, "u1", appointment.Record{ID: "HC11111"})
	replies = h.Handle(ctx, "u1", "/cancel_apt_HC99999")
	assert.Equal(t, " Appointment not found. It may have been already cancelled.", replies[0].Text)
	assert.Len(t, appointments.List("u1"), 1)
}

func TestRescheduleFlow(t *testing.T) {
	h, sessions, appointments := newTestHandler(t)
	ctx := context.Background()
	rec := createAppointment(t, appointments, "u1", appointment.Record{
		ID:         "HC12345",
		Department: "Cardiology",
		Doctor:     "Dr. Sarah Johnson",
	})

	replies := h.Handle(ctx, "u1", "/reschedule_apt_"+rec.ID)
	assert.Contains(t, replies[0].Text, "RESCHEDULING APPOINTMENT")
	assert.Contains(t, replies[0].Text, "Current: Tomorrow at 9:00 AM")
	assert.Len(t, replies[0].Buttons, 3)

	replies = h.Handle(ctx, "u1", "/reschedule_tomorrow_2pm")
	assert.Contains(t, replies[0].Text, "APPOINTMENT RESCHEDULED")
	assert.Contains(t, replies[0].Text, "Old time: Tomorrow at 9:00 AM")
	assert.Contains(t, replies[0].Text, "New time: Tomorrow at 2:00 PM")
	assert.Contains(t, replies[0].Text, "Department: Cardiology")

	// Only the slot moved; identity and assignment are untouched.
	moved, ok := appointments.Get("u1", rec.ID)
	assert.True(t, ok)
	assert.Equal(t, "2:00 PM", moved.Time)
	assert.Equal(t, "Dr. Sarah Johnson", moved.Doctor)
	assert.Equal(t, "Cardiology", moved.Department)

	// The selection is consumed: another slot payload needs a new pick.
	id, err := sessions.RescheduleID(ctx, "u1")
	assert.NoError(t, err)
	assert.Empty(t, id)
	replies = h.Handle(ctx, "u1", "/reschedule_today_430pm")
	assert.Equal(t, " No appointment selected for rescheduling.", replies[0].Text)
}

func TestRescheduleWithoutAppointments(t *testing.T) {
	h, _, _ := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "/reschedule_apt_HC12345")

	assert.Equal(t, "No appointments to reschedule.", replies[0].Text)
}

func TestRescheduleUnknownID(t *testing.T) {
	h, _, appointments := newTestHandler(t)
	createAppointment(t, appointments, "u1", appointment.Record{ID: "HC11111"})

	replies := h.Handle(context.Background(), "u1", "/reschedule_apt_HC99999")

	assert.Equal(t, " Appointment not found.", replies[0].Text)
}

func TestViewAppointments(t *testing.T) {
	h, _, appointments := newTestHandler(t)
	ctx := context.Background()

	replies := h.Handle(ctx, "u1", "view my appointments")
	assert.Contains(t, replies[0].Text, "No appointments scheduled.")

	createAppointment(t, appointments, "u1", appointment.Record{
		ID:         "HC11111",
		Department: "Neurology",
		Doctor:     "Dr. Michael Chen",
	})
	createAppointment(t, appointments, "u1", appointment.Record{
		ID:     "HC22222",
		Date:   "Today",
		Time:   "4:30 PM",
		Doctor: "Dr. Emily Rodriguez",
	})

	replies = h.Handle(ctx, "u1", "/view_appointments")
	assert.Contains(t, replies[0].Text, "YOUR APPOINTMENTS:")
	assert.Contains(t, replies[0].Text, "1. Tomorrow at 9:00 AM")
	assert.Contains(t, replies[0].Text, "Department: Neurology")
	assert.Contains(t, replies[0].Text, "2. Today at 4:30 PM")
	assert.Contains(t, replies[0].Text, "ID: HC22222")
	assert.Len(t, replies[0].Buttons, 2)
}

func TestCancelWordingNeverOpensSlotMenu(t *testing.T) {
	h, _, _ := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "I want to cancel an appointment")

	assert.NotContains(t, replies[0].Text, "APPOINTMENT SCHEDULING")
	assert.Equal(t, "No appointments to cancel.", replies[0].Text)
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"friday, december 27, 2024", "Friday, December 27, 2024"},
		{"TOMORROW", "Tomorrow"},
		{"next monday", "Next Monday"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, titleCase(tt.in))
		})
	}
}
