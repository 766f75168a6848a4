// Package freetext analyzes unstructured symptom descriptions. When no
// structured rule claims a message, keyword families map it onto a guided
// menu: pain, respiratory, digestive, neurological, skin, and general
// unwellness. Families are ordered and the first match wins.
package freetext

import (
	"context"
	"strings"

	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/logger"
)

var (
	painWords        = []string{"pain", "ache", "hurt", "sore", "painful", "hurting"}
	respiratoryWords = []string{"breath", "breathing", "wheeze", "cough", "congestion"}
	giWords          = []string{"nausea", "vomit", "diarrhea", "constipation", "bloat", "gas"}
	neuroWords       = []string{"dizzy", "faint", "confused", "memory", "numbness", "tingling"}
	skinWords        = []string{"rash", "itch", "hives", "swelling", "bump", "spot"}
	generalWords     = []string{"tired", "fatigue", "weak", "fever", "chills", "sweat"}
)

// Handler maps free-text symptom descriptions onto guided menus.
type Handler struct {
	log *logger.Logger
}

// New creates the free-text handler.
func New(log *logger.Logger) *Handler {
	return &Handler{log: log.WithModule("freetext")}
}

// Name implements bot.Handler.
func (h *Handler) Name() string { return "freetext" }

// CanHandle implements bot.Handler.
func (h *Handler) CanHandle(_ context.Context, _, message string) bool {
	lower := strings.ToLower(message)
	for _, family := range [][]string{painWords, respiratoryWords, giWords, neuroWords, skinWords, generalWords} {
		if containsAny(lower, family) {
			return true
		}
	}
	return false
}

// Handle implements bot.Handler.
func (h *Handler) Handle(_ context.Context, senderID, message string) []chat.Reply {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, painWords):
		if strings.Contains(lower, "back") {
			return []chat.Reply{chat.NewReply(senderID,
				"🔙 BACK PAIN ASSESSMENT\n\n"+
					"I understand you have back pain. Let me help assess this.\n\n"+
					"Location of pain:\n"+
					"• Upper back (between shoulders)\n"+
					"• Mid back\n"+
					"• Lower back (most common)\n"+
					"• Radiating to legs\n\n"+
					"How severe (1-10)?\n"+
					"When did it start?\n"+
					"Any recent injury or strain?",
				chat.Btn("Mild (1-3) manageable", "/mild_back_pain"),
				chat.Btn("Moderate (4-6) limiting", "/moderate_back_pain"),
				chat.Btn("Severe (7-10) debilitating", "/severe_back"),
				chat.Btn("With numbness/tingling", "/back_with_neuro"),
				chat.Btn("Type my symptoms", "/type_symptoms"),
			)}
		}
		return []chat.Reply{chat.NewReply(senderID,
			"📍 I see you're experiencing pain.\n\n"+
				"To help you better, please tell me:\n\n"+
				"1. WHERE is the pain located?\n"+
				"2. HOW SEVERE is it (1-10)?\n"+
				"3. WHEN did it start?\n"+
				"4. WHAT TYPE of pain?\n"+
				"   • Sharp/stabbing\n"+
				"   • Dull/aching\n"+
				"   • Burning\n"+
				"   • Throbbing\n\n"+
				"Select the area that best matches:",
			chat.Btn("Head/neck pain", "/headache"),
			chat.Btn("Chest pain", "/chest_pain"),
			chat.Btn("Abdominal pain", "/stomach"),
			chat.Btn("Back pain", "/back_pain"),
			chat.Btn("Other location", "/other_pain"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)}

	case containsAny(lower, respiratoryWords):
		return []chat.Reply{chat.NewReply(senderID,
			"🫁 I see you have breathing/respiratory concerns.\n\n"+
				"How severe is your symptom?",
			chat.Btn("Mild - manageable", "/mild_cold_flu"),
			chat.Btn("Moderate - concerning", "/moderate_breathing"),
			chat.Btn("Severe - struggling", "/breathing_difficulty"),
			chat.Btn("Emergency - can't breathe", "/emergency_breathing"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)}

	case containsAny(lower, giWords):
		return []chat.Reply{chat.NewReply(senderID,
			"🤢 I see you have digestive symptoms.\n\n"+
				"What are you experiencing?",
			chat.Btn("Nausea/vomiting", "/nausea_vomiting"),
			chat.Btn("Diarrhea", "/diarrhea"),
			chat.Btn("Constipation", "/constipation"),
			chat.Btn("Stomach pain", "/stomach"),
			chat.Btn("Multiple GI issues", "/mild_digestive"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)}

	case containsAny(lower, neuroWords):
		return []chat.Reply{chat.NewReply(senderID,
			"🧠 I see you have neurological symptoms.\n\n"+
				"What are you experiencing?",
			chat.Btn("Dizziness or fainting", "/moderate_symptoms"),
			chat.Btn("Numbness or tingling", "/nerve_pain"),
			chat.Btn("Confusion or memory issues", "/severe_symptoms"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)}

	case containsAny(lower, skinWords):
		return []chat.Reply{chat.NewReply(senderID,
			"🩹 I see you have a skin concern.\n\n"+
				"What does it look like?",
			chat.Btn("Rash or itching", "/mild_symptoms"),
			chat.Btn("Hives or swelling", "/moderate_symptoms"),
			chat.Btn("Spreading or painful", "/severe_symptoms"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)}

	case containsAny(lower, generalWords):
		if strings.Contains(lower, "tired") || strings.Contains(lower, "fatigue") {
			return []chat.Reply{chat.NewReply(senderID,
				"😴 FATIGUE ASSESSMENT\n\n"+
					"I see you're feeling tired. Let me help assess this.\n\n"+
					"How long have you been feeling fatigued?\n"+
					"• Just today\n"+
					"• Few days\n"+
					"• More than a week\n"+
					"• Chronic (months)\n\n"+
					"Is it accompanied by:",
				chat.Btn("Just tired, no other symptoms", "/mild_fatigue"),
				chat.Btn("With body aches", "/fatigue_with_aches"),
				chat.Btn("With fever", "/fatigue_with_fever"),
				chat.Btn("With other symptoms", "/moderate_multiple"),
				chat.Btn("Type my symptoms", "/type_symptoms"),
			)}
		}
		return []chat.Reply{chat.NewReply(senderID,
			"🌡 I understand you're not feeling well.\n\n"+
				"How severe are your symptoms overall?",
			chat.Btn("Mild - can manage", "/mild_symptoms"),
			chat.Btn("Moderate - need help", "/moderate_symptoms"),
			chat.Btn("Severe - very unwell", "/severe_symptoms"),
			chat.Btn("Not sure", "/describe_symptoms"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)}
	}

	return nil
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
