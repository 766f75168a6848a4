// Package emergency handles life-threatening keyword detection and the
// emergency guidance payloads. It is registered right after the flow module
// so emergency wording pre-empts every topic rule, including booking.
package emergency

import (
	"context"
	"strings"

	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/triage"
)

// Handler answers emergency keywords, ambulance requests, and the
// emergency-services payload leaves.
type Handler struct {
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New creates the emergency handler. m may be nil.
func New(m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{metrics: m, log: log.WithModule("emergency")}
}

// Name implements bot.Handler.
func (h *Handler) Name() string { return "emergency" }

// CanHandle implements bot.Handler.
func (h *Handler) CanHandle(_ context.Context, _, message string) bool {
	lower := strings.ToLower(message)
	if triage.IsEmergency(lower) || strings.Contains(lower, "ambulance") {
		return true
	}
	if matchEmergencyPayload(message) {
		return true
	}
	for _, payload := range []string{
		"/call_999", "/call_911",
		"/called_911", "/called_999",
		"/go_to_ae", "/paramedic_info", "/directions", "/first_aid",
	} {
		if strings.Contains(message, payload) {
			return true
		}
	}
	return false
}

// matchEmergencyPayload recognizes /emergency_help and the other /emergency_*
// payloads that resolve to the general guidance card. The chest-pain and
// breathing variants are excluded: those belong to the symptom assessments.
func matchEmergencyPayload(message string) bool {
	if !strings.Contains(message, "/emergency") {
		return false
	}
	return !strings.Contains(message, "/emergency_chest_pain") &&
		!strings.Contains(message, "/emergency_breathing")
}

// Handle implements bot.Handler.
func (h *Handler) Handle(_ context.Context, senderID, message string) []chat.Reply {
	lower := strings.ToLower(message)

	switch {
	case triage.IsEmergency(lower):
		h.log.WithSender(senderID).Warn("Emergency keywords detected")
		if h.metrics != nil {
			h.metrics.RecordTriageCategory(triage.CategoryEmergency.String())
		}
		return []chat.Reply{chat.NewReply(senderID,
			" EMERGENCY PROTOCOL ACTIVATED\n\n"+
				"CALL 911 IMMEDIATELY\n\n"+
				"Your symptoms require immediate medical attention:\n"+
				"• Do NOT drive yourself to the hospital\n"+
				"• Stay calm and still\n"+
				"• Unlock your door for paramedics\n"+
				"• Have someone wait outside to guide them\n\n"+
				"Help is on the way!")}

	case strings.Contains(lower, "ambulance"):
		if h.metrics != nil {
			h.metrics.RecordTriageCategory(triage.CategoryEmergency.String())
		}
		return []chat.Reply{chat.NewReply(senderID,
			"🚑 AMBULANCE DISPATCHED\n\n"+
				" CALLING 911...\n\n"+
				"WHILE WAITING:\n"+
				"1. Stay calm\n"+
				"2. Unlock door if possible\n"+
				"3. Gather medications\n\n"+
				"ETA: 5-10 minutes\n"+
				"Nearest hospital: Memorial Medical Center (2.3 miles)",
			chat.Btn("Ambulance status", "/ambulance_status"),
			chat.Btn("Cancel ambulance", "/cancel_ambulance"),
		)}

	case matchEmergencyPayload(message):
		return []chat.Reply{chat.NewReply(senderID,
			" EMERGENCY GUIDANCE\n\n"+
				" CALL 999 IMMEDIATELY IF:\n\n"+
				"🔴 Life-threatening symptoms:\n"+
				"• Chest pain or pressure\n"+
				"• Difficulty breathing\n"+
				"• Severe bleeding\n"+
				"• Loss of consciousness\n"+
				"• Stroke symptoms (FAST)\n"+
				"• Severe allergic reaction\n\n"+
				" WHAT TO DO:\n"+
				"1. Call 999 now\n"+
				"2. Stay calm\n"+
				"3. Follow operator instructions\n"+
				"4. Don't hang up\n\n"+
				"🏥 IF LESS URGENT:\n"+
				"Call 111 for urgent medical advice\n\n"+
				"Is this a life-threatening emergency?",
			chat.Btn("Yes - Call 999", "/call_999"),
			chat.Btn("No - Describe symptoms", "/describe_symptoms"),
			chat.Btn("Call 111 for advice", "/call_111"),
			chat.Btn("Main menu", "/greet"),
		)}

	case strings.Contains(message, "/call_999") || strings.Contains(message, "/call_911"):
		return []chat.Reply{chat.NewReply(senderID,
			" CALLING EMERGENCY SERVICES\n\n"+
				" DIAL 999 (UK) or 911 (US) NOW\n\n"+
				"TELL THE OPERATOR:\n"+
				"1. Your exact location/address\n"+
				"2. Main symptom (e.g., 'chest pain')\n"+
				"3. Patient's age\n"+
				"4. Consciousness level\n"+
				"5. Breathing status\n\n"+
				"WHILE WAITING:\n"+
				"• Stay calm\n"+
				"• Don't hang up\n"+
				"• Follow operator instructions\n"+
				"• Unlock door if possible\n"+
				"• Gather medications list",
			chat.Btn("I called 999", "/called_911"),
			chat.Btn("First aid guidance", "/first_aid"),
		)}

	case strings.Contains(message, "/called_911") || strings.Contains(message, "/called_999"):
		return []chat.Reply{chat.NewReply(senderID,
			" HELP IS ON THE WAY\n\n"+
				"Average arrival: 7-10 minutes\n\n"+
				"WHILE WAITING:\n"+
				"• Keep patient calm\n"+
				"• Monitor breathing\n"+
				"• Note any changes\n"+
				"• Gather medications\n"+
				"• Unlock front door\n\n"+
				"Stay on line with 999 if requested.",
			chat.Btn("First aid tips", "/first_aid"),
			chat.Btn("What to tell paramedics", "/paramedic_info"),
		)}

	case strings.Contains(message, "/go_to_ae"):
		return []chat.Reply{chat.NewReply(senderID,
			"🏥 A&E DEPARTMENTS\n\n"+
				"NEAREST A&E:\n"+
				"📍 City General Hospital\n"+
				"   24/7 Emergency Department\n"+
				"   Average wait: 2-4 hours\n\n"+
				"BRING WITH YOU:\n"+
				"• Photo ID\n"+
				"• List of medications\n"+
				"• Insurance details\n"+
				"• Phone charger\n\n"+
				" Call 999 if you can't get there safely",
			chat.Btn("Get directions", "/directions"),
			chat.Btn("Call 999 instead", "/call_999"),
		)}

	case strings.Contains(message, "/paramedic_info"):
		return []chat.Reply{chat.NewReply(senderID,
			"🚑 WHAT TO TELL PARAMEDICS\n\n"+
				"KEY INFORMATION:\n"+
				"• Main symptoms\n"+
				"• When it started\n"+
				"• Medical conditions\n"+
				"• Current medications\n"+
				"• Allergies\n"+
				"• Last food/drink\n\n"+
				"Have medications ready to show",
			chat.Btn("Emergency checklist", "/emergency_checklist"),
			chat.Btn("Main menu", "/greet"),
		)}

	case strings.Contains(message, "/directions"):
		return []chat.Reply{chat.NewReply(senderID,
			"📏 NEAREST A&E\n\n"+
				"City General Hospital\n"+
				"123 Hospital Road\n"+
				"Open 24/7\n\n"+
				"BY CAR: 15 minutes\n"+
				"BY BUS: Routes 12, 45\n"+
				"BY TAXI: £15-20\n\n"+
				"Call ahead: 0800-123-456",
			chat.Btn("Open in maps", "/open_maps"),
			chat.Btn("Call taxi", "/call_taxi"),
			chat.Btn("Back", "/go_to_ae"),
		)}

	case strings.Contains(message, "/first_aid"):
		return []chat.Reply{chat.NewReply(senderID,
			"🚑 FIRST AID BASICS\n\n"+
				"CHECK FOR:\n"+
				"• Danger\n"+
				"• Response\n"+
				"• Airway\n"+
				"• Breathing\n"+
				"• Circulation\n\n"+
				"What's the emergency?",
			chat.Btn("Not breathing", "/cpr_guide"),
			chat.Btn("Bleeding", "/bleeding_control"),
			chat.Btn("Choking", "/choking_help"),
			chat.Btn("Burns", "/burn_care"),
		)}
	}

	// Unreachable while CanHandle and Handle test the same conditions.
	return []chat.Reply{chat.NewReply(senderID, " EMERGENCY PROTOCOL ACTIVATED\n\nCALL 911 IMMEDIATELY")}
}
