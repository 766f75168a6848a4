// Package booking handles appointment lifecycle messages: starting a
// booking, cancelling, rescheduling, and listing appointments. Collecting
// the patient's details after a booking starts belongs to the flow package.
package booking

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/healthdesk/triage-bot-go/internal/appointment"
	"github.com/healthdesk/triage-bot-go/internal/chat"
	apperrors "github.com/healthdesk/triage-bot-go/internal/errors"
	"github.com/healthdesk/triage-bot-go/internal/journal"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/session"
	"github.com/healthdesk/triage-bot-go/internal/sink"
	"github.com/healthdesk/triage-bot-go/internal/triage"
)

// Calendar bookings arrive as "book appointment for <date> at <HH:MM>".
var (
	calendarTimeRe = regexp.MustCompile(`at (\d{2}:\d{2})`)
	calendarDateRe = regexp.MustCompile(`for (.+?) at`)
)

var rescheduleSlots = []struct {
	payload string
	date    string
	time    string
}{
	{"/reschedule_today_430pm", "Today", "4:30 PM"},
	{"/reschedule_tomorrow_9am", "Tomorrow", "9:00 AM"},
	{"/reschedule_tomorrow_2pm", "Tomorrow", "2:00 PM"},
}

// Handler answers the appointment lifecycle rules.
type Handler struct {
	sessions     session.Store
	appointments *appointment.Store
	mirror       *sink.Mirror
	journal      *journal.Journal
	metrics      *metrics.Metrics
	log          *logger.Logger
}

// New creates the booking handler. mirror and jrnl may be nil.
func New(sessions session.Store, appointments *appointment.Store, mirror *sink.Mirror, jrnl *journal.Journal, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		sessions:     sessions,
		appointments: appointments,
		mirror:       mirror,
		journal:      jrnl,
		metrics:      m,
		log:          log.WithModule("booking"),
	}
}

// Name implements bot.Handler.
func (h *Handler) Name() string { return "booking" }

// CanHandle implements bot.Handler.
func (h *Handler) CanHandle(_ context.Context, _, message string) bool {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(message, "/type_symptoms"),
		strings.Contains(lower, "type symptoms"),
		strings.Contains(lower, "type my symptoms"):
		return true
	case strings.Contains(lower, "book appointment for"):
		return true
	case strings.Contains(lower, "cancel") && strings.Contains(lower, "appointment"):
		return true
	case strings.Contains(message, "/cancel_apt_"),
		strings.Contains(message, "/reschedule_apt_"):
		return true
	case containsRescheduleSlot(message):
		return true
	case strings.Contains(lower, "appointment"):
		// view, generic menu, and anything else appointment-flavored
		return true
	case strings.Contains(lower, "today 4:30"), strings.Contains(message, "/book_today_430pm"),
		strings.Contains(lower, "tomorrow 9:00"), strings.Contains(message, "/book_tomorrow_9am"),
		strings.Contains(lower, "tomorrow 2:00"), strings.Contains(message, "/book_tomorrow_2pm"):
		return true
	}
	return false
}

// Handle implements bot.Handler. The rule order mirrors CanHandle: cancel
// and view are matched before the generic booking menu so "cancel my
// appointment" never opens the slot picker.
func (h *Handler) Handle(ctx context.Context, senderID, message string) []chat.Reply {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(message, "/type_symptoms"),
		strings.Contains(lower, "type symptoms"),
		strings.Contains(lower, "type my symptoms"):
		return []chat.Reply{chat.NewReply(senderID,
			"Please type your symptoms in your own words. Describe:\n"+
				"- What you're feeling\n"+
				"- When it started\n"+
				"- How severe it is\n"+
				"- Any other relevant details")}

	case strings.Contains(lower, "book appointment for"):
		return h.startCalendarBooking(ctx, senderID, lower)

	case strings.Contains(lower, "cancel") && strings.Contains(lower, "appointment"):
		return h.cancelGeneric(ctx, senderID)

	case strings.Contains(message, "/cancel_apt_"):
		_, id, _ := strings.Cut(message, "/cancel_apt_")
		return h.cancelByID(ctx, senderID, id)

	case strings.Contains(message, "/reschedule_apt_"):
		_, id, _ := strings.Cut(message, "/reschedule_apt_")
		return h.startReschedule(ctx, senderID, id)

	case containsRescheduleSlot(message):
		return h.applyReschedule(ctx, senderID, message)

	case (strings.Contains(lower, "view") || strings.Contains(lower, "my") || strings.Contains(message, "/view_appointments")) &&
		strings.Contains(lower, "appointment"):
		return h.viewAppointments(senderID)

	case strings.Contains(lower, "book appointment") || strings.Contains(lower, "schedule appointment") ||
		strings.Contains(lower, "appointment"):
		return []chat.Reply{slotMenu(senderID)}

	case strings.Contains(lower, "today 4:30"), strings.Contains(message, "/book_today_430pm"):
		return h.startSlotBooking(ctx, senderID, lower, "Today", "4:30 PM")

	case strings.Contains(lower, "tomorrow 9:00"), strings.Contains(message, "/book_tomorrow_9am"):
		return h.startSlotBooking(ctx, senderID, lower, "Tomorrow", "9:00 AM")

	case strings.Contains(lower, "tomorrow 2:00"), strings.Contains(message, "/book_tomorrow_2pm"):
		return h.startSlotBooking(ctx, senderID, lower, "Tomorrow", "2:00 PM")
	}

	return []chat.Reply{slotMenu(senderID)}
}

// startCalendarBooking parses "book appointment for <date> at <HH:MM>" and
// opens the patient detail flow.
func (h *Handler) startCalendarBooking(ctx context.Context, senderID, lower string) []chat.Reply {
	timeStr := "Unknown time"
	if m := calendarTimeRe.FindStringSubmatch(lower); m != nil {
		timeStr = m[1]
	}
	dateStr := "Unknown date"
	if m := calendarDateRe.FindStringSubmatch(lower); m != nil {
		dateStr = m[1]
	}
	dateStr = titleCase(dateStr)

	return h.startBooking(ctx, senderID, lower, dateStr, timeStr)
}

// startSlotBooking opens the patient detail flow for a fixed slot.
func (h *Handler) startSlotBooking(ctx context.Context, senderID, lower, date, timeSlot string) []chat.Reply {
	return h.startBooking(ctx, senderID, lower, date, timeSlot)
}

func (h *Handler) startBooking(ctx context.Context, senderID, lower, date, timeSlot string) []chat.Reply {
	state := &session.State{
		Stage: session.StageAwaitingName,
		Date:  date,
		Time:  timeSlot,
	}
	// Department can sometimes be assigned from symptom wording in the
	// booking message itself, skipping the department prompt later.
	if department, ok := triage.AutoAssignDepartment(lower); ok {
		state.Department = department
	}

	if err := h.sessions.Save(ctx, senderID, state); err != nil {
		h.log.WithSender(senderID).WithError(err).Error("Failed to open booking session")
		return []chat.Reply{chat.NewReply(senderID,
			"Sorry, something went wrong starting your booking. Please try again.")}
	}

	return []chat.Reply{chat.NewReply(senderID,
		fmt.Sprintf("Great! I'll help you book an appointment for %s at %s.\n\nPlease provide your first name:", date, timeSlot))}
}

// cancelGeneric handles "cancel ... appointment" wording. One appointment
// cancels directly; several get a disambiguation list capped at 3 buttons.
func (h *Handler) cancelGeneric(ctx context.Context, senderID string) []chat.Reply {
	list := h.appointments.List(senderID)

	switch {
	case len(list) == 0:
		return []chat.Reply{chat.NewReply(senderID,
			"No appointments to cancel.",
			chat.Btn("Schedule appointment", "/schedule_appointment"),
		)}

	case len(list) == 1:
		rec, err := h.appointments.Cancel(senderID, list[0].ID)
		if err != nil {
			return []chat.Reply{chat.NewReply(senderID,
				" Appointment not found. It may have been already cancelled.")}
		}
		h.recordCancellation(ctx, senderID, rec.ID)
		return []chat.Reply{chat.NewReply(senderID,
			cancelledText(rec),
			chat.Btn("Schedule new appointment", "/schedule_appointment"),
			chat.Btn("Main menu", "/greet"),
		)}

	default:
		var text strings.Builder
		text.WriteString(" WHICH APPOINTMENT TO CANCEL?\n\n")
		var buttons []chat.Button
		for i, rec := range list {
			fmt.Fprintf(&text, "%d. %s at %s\n", i+1, rec.Date, rec.Time)
			fmt.Fprintf(&text, "   Doctor: %s\n", rec.Doctor)
			fmt.Fprintf(&text, "   ID: %s\n\n", rec.ID)
			buttons = append(buttons, chat.Btn(
				fmt.Sprintf("Cancel #%d: %s %s", i+1, rec.Date, rec.Time),
				"/cancel_apt_"+rec.ID,
			))
		}
		if len(buttons) > 3 {
			buttons = buttons[:3]
		}
		return []chat.Reply{chat.NewReply(senderID,
			strings.TrimRight(text.String(), "\n"), buttons...)}
	}
}

// cancelByID handles the /cancel_apt_<id> payload.
func (h *Handler) cancelByID(ctx context.Context, senderID, id string) []chat.Reply {
	if len(h.appointments.List(senderID)) == 0 {
		return []chat.Reply{chat.NewReply(senderID, "No appointments found.")}
	}

	rec, err := h.appointments.Cancel(senderID, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return []chat.Reply{chat.NewReply(senderID,
				" Appointment not found. It may have been already cancelled.")}
		}
		h.log.WithSender(senderID).WithError(err).Error("Failed to cancel appointment")
		return []chat.Reply{chat.NewReply(senderID,
			" Appointment not found. It may have been already cancelled.")}
	}

	h.recordCancellation(ctx, senderID, rec.ID)
	return []chat.Reply{chat.NewReply(senderID,
		cancelledText(rec),
		chat.Btn("Schedule new appointment", "/schedule_appointment"),
		chat.Btn("View my appointments", "/view_appointments"),
		chat.Btn("Main menu", "/greet"),
	)}
}

// startReschedule handles /reschedule_apt_<id>: remember the selection and
// offer the three fixed slots.
func (h *Handler) startReschedule(ctx context.Context, senderID, id string) []chat.Reply {
	if len(h.appointments.List(senderID)) == 0 {
		return []chat.Reply{chat.NewReply(senderID, "No appointments to reschedule.")}
	}

	rec, ok := h.appointments.Get(senderID, id)
	if !ok {
		return []chat.Reply{chat.NewReply(senderID, " Appointment not found.")}
	}

	if err := h.sessions.SetRescheduleID(ctx, senderID, id); err != nil {
		h.log.WithSender(senderID).WithError(err).Error("Failed to store reschedule selection")
		return []chat.Reply{chat.NewReply(senderID,
			"Sorry, something went wrong. Please try again.")}
	}

	return []chat.Reply{chat.NewReply(senderID,
		" RESCHEDULING APPOINTMENT\n\n"+
			fmt.Sprintf("Current: %s at %s\n", rec.Date, rec.Time)+
			fmt.Sprintf("Doctor: %s\n\n", rec.Doctor)+
			"Select new time:",
		chat.Btn("Today 4:30 PM", "/reschedule_today_430pm"),
		chat.Btn("Tomorrow 9:00 AM", "/reschedule_tomorrow_9am"),
		chat.Btn("Tomorrow 2:00 PM", "/reschedule_tomorrow_2pm"),
	)}
}

// applyReschedule moves the previously selected appointment to the slot in
// the payload. Only date and time change; doctor and department stay.
func (h *Handler) applyReschedule(ctx context.Context, senderID, message string) []chat.Reply {
	id, err := h.sessions.RescheduleID(ctx, senderID)
	if err != nil {
		h.log.WithSender(senderID).WithError(err).Error("Failed to load reschedule selection")
	}
	if id == "" {
		return []chat.Reply{chat.NewReply(senderID, " No appointment selected for rescheduling.")}
	}

	var date, timeSlot string
	for _, slot := range rescheduleSlots {
		if strings.Contains(message, slot.payload) {
			date, timeSlot = slot.date, slot.time
			break
		}
	}

	before, after, err := h.appointments.Reschedule(senderID, id, date, timeSlot)
	if err != nil {
		return []chat.Reply{chat.NewReply(senderID, " No appointment selected for rescheduling.")}
	}

	if err := h.sessions.ClearRescheduleID(ctx, senderID); err != nil {
		h.log.WithSender(senderID).WithError(err).Warn("Failed to clear reschedule selection")
	}
	if h.mirror != nil {
		h.mirror.WriteAsync(after)
	}
	if h.journal != nil {
		if err := h.journal.RecordAppointment(ctx, senderID, journal.KindAppointmentRescheduled, after.ID); err != nil {
			h.log.WithError(err).Warn("Failed to journal reschedule")
		}
	}
	if h.metrics != nil {
		h.metrics.RecordAppointment("rescheduled")
	}

	department := after.Department
	if department == "" {
		department = "N/A"
	}
	return []chat.Reply{chat.NewReply(senderID,
		" APPOINTMENT RESCHEDULED\n\n"+
			fmt.Sprintf("Old time: %s at %s\n", before.Date, before.Time)+
			fmt.Sprintf("New time: %s at %s\n", after.Date, after.Time)+
			fmt.Sprintf("Department: %s\n", department)+
			fmt.Sprintf("Doctor: %s\n", after.Doctor)+
			fmt.Sprintf("Confirmation: %s", after.ID),
		chat.Btn("View my appointments", "/view_appointments"),
		chat.Btn("Start new conversation", "/greet"),
	)}
}

// viewAppointments lists the sender's appointments in creation order.
func (h *Handler) viewAppointments(senderID string) []chat.Reply {
	list := h.appointments.List(senderID)
	if len(list) == 0 {
		return []chat.Reply{chat.NewReply(senderID,
			" No appointments scheduled.\n\nWould you like to schedule one?",
			chat.Btn("Schedule appointment", "/schedule_appointment"),
		)}
	}

	var text strings.Builder
	text.WriteString(" YOUR APPOINTMENTS:\n\n")
	for i, rec := range list {
		fmt.Fprintf(&text, "%d. %s at %s\n", i+1, rec.Date, rec.Time)
		if rec.Department != "" {
			fmt.Fprintf(&text, "   Department: %s\n", rec.Department)
		}
		fmt.Fprintf(&text, "   Doctor: %s\n", rec.Doctor)
		fmt.Fprintf(&text, "   ID: %s\n\n", rec.ID)
	}

	return []chat.Reply{chat.NewReply(senderID,
		strings.TrimRight(text.String(), "\n"),
		chat.Btn("Cancel appointment", "/cancel_appointment"),
		chat.Btn("Add new appointment", "/schedule_appointment"),
	)}
}

func (h *Handler) recordCancellation(ctx context.Context, senderID, id string) {
	if h.journal != nil {
		if err := h.journal.RecordAppointment(ctx, senderID, journal.KindAppointmentCancelled, id); err != nil {
			h.log.WithError(err).Warn("Failed to journal cancellation")
		}
	}
	if h.metrics != nil {
		h.metrics.RecordAppointment("cancelled")
	}
	h.log.WithSender(senderID).WithField("appointment_id", id).Info("Appointment cancelled")
}

func cancelledText(rec appointment.Record) string {
	return " APPOINTMENT CANCELLED\n\n" +
		fmt.Sprintf("Cancelled: %s at %s\n", rec.Date, rec.Time) +
		fmt.Sprintf("Doctor: %s\n", rec.Doctor) +
		fmt.Sprintf("Confirmation: %s\n\n", rec.ID) +
		"Would you like to reschedule?"
}

func slotMenu(senderID string) chat.Reply {
	return chat.NewReply(senderID,
		" APPOINTMENT SCHEDULING\n\n"+
			"Available slots:\n"+
			"• Today 4:30 PM\n"+
			"• Tomorrow 9:00 AM\n"+
			"• Tomorrow 2:00 PM\n\n"+
			"Please select your preferred time:",
		chat.Btn("Today 4:30 PM", "/book_today_430pm"),
		chat.Btn("Tomorrow 9:00 AM", "/book_tomorrow_9am"),
		chat.Btn("Tomorrow 2:00 PM", "/book_tomorrow_2pm"),
		chat.Btn(" Open Calendar", "/open_calendar"),
	)
}

func containsRescheduleSlot(message string) bool {
	for _, slot := range rescheduleSlots {
		if strings.Contains(message, slot.payload) {
			return true
		}
	}
	return false
}

// titleCase uppercases the first letter of each word and lowercases the
// rest, so parsed calendar dates render as "Friday, December 27, 2024".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
