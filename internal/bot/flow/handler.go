// Package flow implements the patient-detail collection state machine. Once
// a booking starts, every message from that sender belongs to the flow until
// it confirms, so this handler is registered first and claims messages based
// on session state alone.
package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/healthdesk/triage-bot-go/internal/appointment"
	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/journal"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/session"
	"github.com/healthdesk/triage-bot-go/internal/sink"
	"github.com/healthdesk/triage-bot-go/internal/triage"
)

// Handler walks a sender through name, surname, phone, and department
// collection, then confirms the appointment.
type Handler struct {
	sessions     session.Store
	appointments *appointment.Store
	mirror       *sink.Mirror
	journal      *journal.Journal
	metrics      *metrics.Metrics
	log          *logger.Logger
}

// New creates the flow handler. mirror and jrnl may be nil; confirmation
// then skips the corresponding side effects.
func New(sessions session.Store, appointments *appointment.Store, mirror *sink.Mirror, jrnl *journal.Journal, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		sessions:     sessions,
		appointments: appointments,
		mirror:       mirror,
		journal:      jrnl,
		metrics:      m,
		log:          log.WithModule("flow"),
	}
}

// Name implements bot.Handler.
func (h *Handler) Name() string { return "flow" }

// CanHandle claims the message whenever the sender has an active booking
// session, regardless of content. Emergency keywords are deliberately not
// re-checked mid-flow: a sender typing "chest pain" as their reason for
// booking must not trip the emergency protocol while answering prompts.
func (h *Handler) CanHandle(ctx context.Context, senderID, _ string) bool {
	state, err := h.sessions.Get(ctx, senderID)
	if err != nil {
		h.log.WithSender(senderID).WithError(err).Error("Failed to load session")
		return false
	}
	return state != nil && state.Stage != session.StageNone
}

// Handle advances the booking flow one step.
func (h *Handler) Handle(ctx context.Context, senderID, message string) []chat.Reply {
	state, err := h.sessions.Get(ctx, senderID)
	if err != nil || state == nil {
		return []chat.Reply{chat.NewReply(senderID,
			"Sorry, something went wrong with your booking. Please start again.")}
	}

	switch state.Stage {
	case session.StageAwaitingName:
		state.Name = message
		state.Stage = session.StageAwaitingSurname
		if err := h.sessions.Save(ctx, senderID, state); err != nil {
			return h.saveFailed(senderID, err)
		}
		return []chat.Reply{chat.NewReply(senderID, "Please provide your last name:")}

	case session.StageAwaitingSurname:
		state.Surname = message
		state.Stage = session.StageAwaitingPhone
		if err := h.sessions.Save(ctx, senderID, state); err != nil {
			return h.saveFailed(senderID, err)
		}
		return []chat.Reply{chat.NewReply(senderID, "Please provide your phone number:")}

	case session.StageAwaitingPhone:
		state.Phone = message
		if state.Department == "" {
			state.Stage = session.StageAwaitingDepartment
			if err := h.sessions.Save(ctx, senderID, state); err != nil {
				return h.saveFailed(senderID, err)
			}
			return []chat.Reply{departmentMenu(senderID)}
		}
		return h.confirm(ctx, senderID, state)

	case session.StageAwaitingDepartment:
		department := parseDepartment(message)
		if department == "" {
			return []chat.Reply{chat.NewReply(senderID,
				"I didn't understand that department. Please select one from the list above.")}
		}
		state.Department = department
		return h.confirm(ctx, senderID, state)
	}

	// Unreachable while CanHandle guards on an active stage.
	return []chat.Reply{chat.NewReply(senderID,
		"Sorry, something went wrong with your booking. Please start again.")}
}

// confirm creates the appointment from the collected details, clears the
// session, and fires the best-effort mirror write.
func (h *Handler) confirm(ctx context.Context, senderID string, state *session.State) []chat.Reply {
	department := state.Department
	if department == "" {
		department = triage.DefaultDepartment
	}
	date := state.Date
	if date == "" {
		date = "Tomorrow"
	}
	timeSlot := state.Time
	if timeSlot == "" {
		timeSlot = "9:00 AM"
	}

	rec := h.appointments.Create(senderID, appointment.Record{
		Name:       state.Name,
		Surname:    state.Surname,
		Phone:      state.Phone,
		Department: department,
		Doctor:     triage.PickDoctor(department),
		Date:       date,
		Time:       timeSlot,
	})

	if err := h.sessions.Save(ctx, senderID, nil); err != nil {
		h.log.WithSender(senderID).WithError(err).Error("Failed to clear session after confirmation")
	}

	if h.mirror != nil {
		h.mirror.WriteAsync(rec)
	}
	if h.journal != nil {
		if err := h.journal.RecordAppointment(ctx, senderID, journal.KindAppointmentCreated, rec.ID); err != nil {
			h.log.WithError(err).Warn("Failed to journal appointment creation")
		}
	}
	if h.metrics != nil {
		h.metrics.RecordAppointment("created")
	}

	h.log.WithSender(senderID).WithFields(map[string]any{
		"appointment_id": rec.ID,
		"department":     rec.Department,
	}).Info("Appointment confirmed")

	return []chat.Reply{chat.NewReply(senderID,
		" APPOINTMENT CONFIRMED\n\n"+
			fmt.Sprintf("Patient: %s %s\n", rec.Name, rec.Surname)+
			fmt.Sprintf("Phone: %s\n", rec.Phone)+
			fmt.Sprintf("Confirmation: %s\n", rec.ID)+
			fmt.Sprintf("Department: %s\n", rec.Department)+
			fmt.Sprintf("Doctor: %s\n", rec.Doctor)+
			fmt.Sprintf("Date: %s at %s\n", rec.Date, rec.Time)+
			"Location: Main Clinic, Building A\n\n"+
			"Please arrive 15 minutes early and bring:\n"+
			"• Photo ID\n"+
			"• Insurance card\n"+
			"• List of current medications\n\n"+
			fmt.Sprintf("To cancel or reschedule, reference your confirmation number: %s", rec.ID),
		chat.Btn("View my appointments", "/view_appointments"),
		chat.Btn(" Open calendar", "/open_calendar"),
		chat.Btn("Start new conversation", "/greet"),
	)}
}

func (h *Handler) saveFailed(senderID string, err error) []chat.Reply {
	h.log.WithSender(senderID).WithError(err).Error("Failed to save session")
	return []chat.Reply{chat.NewReply(senderID,
		"Sorry, something went wrong with your booking. Please start again.")}
}

// parseDepartment resolves a department selection from either a /select_
// payload or a typed department name.
func parseDepartment(message string) string {
	text := message
	if _, after, ok := strings.Cut(message, "/select_"); ok {
		text = after
	}
	if department, ok := triage.MatchDepartmentName(text); ok {
		return department
	}
	return ""
}

// departmentMenu lists the departments with selection buttons.
func departmentMenu(senderID string) chat.Reply {
	return chat.NewReply(senderID,
		"Which department would you like to visit?\n\n"+
			"🏥 Available Departments:\n"+
			"1. Cardiology - Heart & cardiovascular\n"+
			"2. Neurology - Brain & nervous system\n"+
			"3. General Medicine - Primary care\n"+
			"4. Orthopedics - Bones & joints\n"+
			"5. Pediatrics - Children's health\n"+
			"6. Emergency - Urgent care\n\n"+
			"Please select a department:",
		chat.Btn("Cardiology", "/select_Cardiology"),
		chat.Btn("Neurology", "/select_Neurology"),
		chat.Btn("General Medicine", "/select_General Medicine"),
		chat.Btn("Orthopedics", "/select_Orthopedics"),
		chat.Btn("Pediatrics", "/select_Pediatrics"),
		chat.Btn("Emergency", "/select_Emergency"),
	)
}
