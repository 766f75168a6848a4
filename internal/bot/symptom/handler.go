// Package symptom implements the symptom assessment cascade: the four
// primary assessments (fever, headache, cough, stomach), the severity
// trees reached from the describe-symptoms menu, the focused assessments
// (chest pain, breathing, severe pain, high fever), and the pain scale.
//
// Rules are ordered and the first match wins; every branch is terminal.
// Order is load-bearing: the primary assessment rule deliberately shadows
// later rules whose payloads contain a primary keyword (for example
// /headache_diary resolves to the headache assessment).
package symptom

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/triage"
)

var painLevelRe = regexp.MustCompile(`/pain_(\d+)`)

// rule is one entry of the cascade. match sees both the raw message (for
// payload tokens) and its lowercase form (for free text).
type rule struct {
	match   func(message, lower string) bool
	replies func(senderID, message, lower string) []chat.Reply
}

// Handler runs the symptom cascade.
type Handler struct {
	metrics *metrics.Metrics
	log     *logger.Logger
	rules   []rule
}

// New creates the symptom handler. m may be nil.
func New(m *metrics.Metrics, log *logger.Logger) *Handler {
	h := &Handler{metrics: m, log: log.WithModule("symptom")}
	h.rules = h.buildRules()
	return h
}

// Name implements bot.Handler.
func (h *Handler) Name() string { return "symptom" }

// CanHandle implements bot.Handler.
func (h *Handler) CanHandle(_ context.Context, _, message string) bool {
	lower := strings.ToLower(message)
	for _, r := range h.rules {
		if r.match(message, lower) {
			return true
		}
	}
	return false
}

// Handle implements bot.Handler.
func (h *Handler) Handle(_ context.Context, senderID, message string) []chat.Reply {
	lower := strings.ToLower(message)
	for _, r := range h.rules {
		if r.match(message, lower) {
			return r.replies(senderID, message, lower)
		}
	}
	return nil
}

// payload matches a slash-command token in the raw message.
func payload(tokens ...string) func(message, lower string) bool {
	return func(message, _ string) bool {
		for _, t := range tokens {
			if strings.Contains(message, t) {
				return true
			}
		}
		return false
	}
}

// text matches a phrase in the lowercased message.
func text(phrases ...string) func(message, lower string) bool {
	return func(_, lower string) bool {
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}
}

func either(fns ...func(message, lower string) bool) func(message, lower string) bool {
	return func(message, lower string) bool {
		for _, fn := range fns {
			if fn(message, lower) {
				return true
			}
		}
		return false
	}
}

// static builds a replies func for a fixed single reply.
func static(body string, buttons ...chat.Button) func(senderID, message, lower string) []chat.Reply {
	return func(senderID, _, _ string) []chat.Reply {
		return []chat.Reply{chat.NewReply(senderID, body, buttons...)}
	}
}

func (h *Handler) buildRules() []rule {
	return []rule{
		{text("fever", "headache", "cough", "stomach"), h.primaryAssessment},

		{either(text("describe symptom", "i have symptoms"), payload("/describe_symptoms")), static(
			"📋 SYMPTOM ASSESSMENT\n\n"+
				"Please describe your symptoms. I can help with:\n\n"+
				"• Pain (head, chest, stomach, back)\n"+
				"• Respiratory (cough, breathing issues)\n"+
				"• Fever/chills\n"+
				"• Nausea/vomiting\n"+
				"• Dizziness/fatigue\n"+
				"• Rash/skin issues\n\n"+
				"Tell me:\n"+
				"1. What symptoms are you experiencing?\n"+
				"2. How long have you had them?\n"+
				"3. Rate severity (1-10)\n"+
				"4. Any other symptoms?",
			chat.Btn("Mild symptoms", "/mild_symptoms"),
			chat.Btn("Moderate symptoms", "/moderate_symptoms"),
			chat.Btn("Severe symptoms", "/severe_symptoms"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{either(text("mild symptom"), payload("/mild_symptoms")), static(
			"🟢 MILD SYMPTOMS ASSESSMENT\n\n"+
				"Let me help you determine the best care approach.\n\n"+
				"What type of mild symptoms are you experiencing?\n\n"+
				"Common mild symptoms:\n"+
				"• Runny nose / congestion\n"+
				"• Mild headache\n"+
				"• Sore throat\n"+
				"• Minor aches and pains\n"+
				"• Mild fatigue\n"+
				"• Low-grade fever (<100.4°F)\n\n"+
				"How long have you had these symptoms?",
			chat.Btn("Cold/flu symptoms", "/mild_cold_flu"),
			chat.Btn("Mild headache", "/mild_headache"),
			chat.Btn("Minor digestive issues", "/mild_digestive"),
			chat.Btn("General fatigue", "/mild_fatigue"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/mild_cold_flu"), static(
			"🤧 MILD COLD/FLU CARE\n\n"+
				"Your symptoms suggest a common cold or mild flu.\n\n"+
				"HOME CARE PLAN:\n\n"+
				"💊 Medications:\n"+
				"• Acetaminophen for fever/aches\n"+
				"• Decongestants for stuffy nose\n"+
				"• Throat lozenges for sore throat\n\n"+
				"🏠 Self-care:\n"+
				"• Rest - get 8+ hours sleep\n"+
				"• Fluids - drink warm tea, soup\n"+
				"• Steam inhalation for congestion\n"+
				"• Wash hands frequently\n\n"+
				" See doctor if:\n"+
				"• Fever > 103°F for 3+ days\n"+
				"• Difficulty breathing\n"+
				"• Chest pain\n"+
				"• Symptoms worsen after 7 days",
			chat.Btn("More self-care tips", "/self_care"),
			chat.Btn("When to see doctor", "/when_to_see_doctor"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/mild_digestive"), static(
			"🤢 MILD DIGESTIVE ISSUES\n\n"+
				"Common digestive discomfort management:\n\n"+
				"IMMEDIATE RELIEF:\n"+
				"• Small sips of water\n"+
				"• Ginger tea or peppermint tea\n"+
				"• BRAT diet (Bananas, Rice, Applesauce, Toast)\n"+
				"• Avoid fatty/spicy foods\n\n"+
				"MEDICATIONS:\n"+
				"• Antacids for heartburn\n"+
				"• Simethicone for gas\n"+
				"• Loperamide for diarrhea\n\n"+
				" See doctor if:\n"+
				"• Blood in stool/vomit\n"+
				"• Severe dehydration\n"+
				"• Pain lasting > 24 hours\n"+
				"• Fever with symptoms",
			chat.Btn("Hydration tips", "/hydration_tips"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/mild_fatigue"), static(
			"😴 MILD FATIGUE ASSESSMENT\n\n"+
				"Fatigue can have many causes. Let's explore:\n\n"+
				"LIFESTYLE FACTORS:\n"+
				"• Sleep: Are you getting 7-9 hours?\n"+
				"• Hydration: Drinking enough water?\n"+
				"• Diet: Eating balanced meals?\n"+
				"• Exercise: Too much or too little?\n\n"+
				"SELF-CARE PLAN:\n"+
				"• Maintain regular sleep schedule\n"+
				"• Limit caffeine after 2 PM\n"+
				"• Take short walks\n"+
				"• Manage stress\n\n"+
				" See doctor if:\n"+
				"• Fatigue > 2 weeks\n"+
				"• With unexplained weight loss\n"+
				"• With fever or pain\n"+
				"• Affecting daily life",
			chat.Btn("Sleep hygiene tips", "/sleep_tips"),
			chat.Btn("Energy boosting tips", "/energy_tips"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/mild_headache"), static(
			"🤕 MILD HEADACHE MANAGEMENT\n\n"+
				"Most mild headaches can be managed at home.\n\n"+
				"IMMEDIATE RELIEF:\n"+
				"• Take ibuprofen or acetaminophen\n"+
				"• Apply cold compress to head\n"+
				"• Rest in dark, quiet room\n"+
				"• Stay hydrated\n\n"+
				"COMMON TRIGGERS TO AVOID:\n"+
				"• Dehydration\n"+
				"• Eye strain (screens)\n"+
				"• Poor posture\n"+
				"• Stress\n"+
				"• Skipping meals\n\n"+
				" Seek care if:\n"+
				"• Sudden severe headache\n"+
				"• With fever and stiff neck\n"+
				"• After head injury\n"+
				"• Vision changes",
			chat.Btn("Track symptoms", "/symptom_diary"),
			chat.Btn("Relaxation techniques", "/relaxation"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/moderate_breathing"), static(
			"🫁 MODERATE BREATHING CONCERNS\n\n"+
				"Breathing issues need careful monitoring.\n\n"+
				"ASSESSMENT:\n"+
				"• Can you walk and talk normally?\n"+
				"• Is it worse with activity?\n"+
				"• Any wheezing or coughing?\n"+
				"• History of asthma/allergies?\n\n"+
				"IMMEDIATE ACTIONS:\n"+
				"• Sit upright\n"+
				"• Use inhaler if prescribed\n"+
				"• Avoid triggers (smoke, allergens)\n"+
				"• Monitor oxygen if available\n\n"+
				"SEE DOCTOR TODAY if:\n"+
				"• Not improving with rest\n"+
				"• New onset without clear cause\n"+
				"• With chest pain or fever",
			chat.Btn("Book urgent appointment", "/schedule_appointment"),
			chat.Btn("Breathing exercises", "/breathing_exercises"),
			chat.Btn("When to call 911", "/emergency_signs"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/moderate_multiple"), static(
			"📋 MULTIPLE SYMPTOMS ASSESSMENT\n\n"+
				"Having several symptoms may indicate systemic illness.\n\n"+
				"PLEASE LIST YOUR SYMPTOMS:\n"+
				"Type all symptoms you're experiencing\n"+
				"(e.g., fever, headache, cough, fatigue)\n\n"+
				"IMPORTANT TO NOTE:\n"+
				"• When symptoms started\n"+
				"• Order of appearance\n"+
				"• Severity of each (1-10)\n"+
				"• What makes better/worse\n\n"+
				"Multiple symptoms often need medical evaluation\n"+
				"to rule out infection or other conditions.",
			chat.Btn("See doctor today", "/schedule_appointment"),
			chat.Btn("Speak to nurse now", "/nurse"),
			chat.Btn("Emergency signs", "/emergency_signs"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{either(text("moderate symptom"), payload("/moderate_symptoms")), static(
			"🟡 MODERATE SYMPTOMS ASSESSMENT\n\n"+
				"Your symptoms need careful evaluation.\n\n"+
				"Which best describes your condition?\n\n"+
				"🔸 PERSISTENT SYMPTOMS:\n"+
				"• Symptoms lasting 3-7 days\n"+
				"• Not improving with self-care\n"+
				"• Moderate pain (4-6/10)\n\n"+
				"🔸 WORSENING SYMPTOMS:\n"+
				"• Started mild, getting worse\n"+
				"• New symptoms developing\n"+
				"• Interfering with daily activities\n\n"+
				"🔸 CONCERNING SIGNS:\n"+
				"• Moderate fever (101-103°F)\n"+
				"• Persistent cough\n"+
				"• Moderate breathing difficulty",
			chat.Btn("Persistent fever/infection", "/moderate_infection"),
			chat.Btn("Worsening pain", "/moderate_pain"),
			chat.Btn("Breathing concerns", "/moderate_breathing"),
			chat.Btn("Multiple symptoms", "/moderate_multiple"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/moderate_infection"), static(
			"🦠 MODERATE INFECTION ASSESSMENT\n\n"+
				"Your symptoms suggest possible infection needing treatment.\n\n"+
				"RECOMMENDATION: See doctor within 24 hours\n\n"+
				"Why you need medical care:\n"+
				"• May need antibiotics\n"+
				"• Risk of complications\n"+
				"• Need proper diagnosis\n\n"+
				"Meanwhile:\n"+
				"• Continue fever management\n"+
				"• Stay hydrated\n"+
				"• Rest completely\n"+
				"• Isolate from others\n\n"+
				" Go to ER if:\n"+
				"• Fever > 104°F\n"+
				"• Difficulty breathing\n"+
				"• Confusion\n"+
				"• Severe dehydration",
			chat.Btn("Book urgent appointment", "/schedule_appointment"),
			chat.Btn("Find walk-in clinic", "/urgent_care"),
			chat.Btn("Video consultation", "/telemedicine"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/moderate_pain"), static(
			"😰 MODERATE PAIN EVALUATION\n\n"+
				"Pain that's worsening needs medical attention.\n\n"+
				"PAIN ASSESSMENT:\n"+
				"Please rate your pain level below:\n\n"+
				"IMMEDIATE STEPS:\n"+
				"1. Take prescribed pain medication\n"+
				"2. Apply ice/heat as appropriate\n"+
				"3. Rest affected area\n"+
				"4. Document pain patterns\n\n"+
				"SEE DOCTOR TODAY IF:\n"+
				"• Pain increasing despite medication\n"+
				"• New numbness or tingling\n"+
				"• Swelling or redness\n"+
				"• Can't perform daily tasks",
			chat.Btn("Book same-day appointment", "/schedule_appointment"),
			chat.Btn("Pain management tips", "/pain_management"),
			chat.Btn("Speak to nurse", "/nurse"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{either(text("severe symptom"), payload("/severe_symptoms")), static(
			" SEVERE SYMPTOMS - DETAILED ASSESSMENT\n\n"+
				"I need to ask you some important questions to determine the right care:\n\n"+
				"Which of these are you experiencing?\n\n"+
				"🔴 EMERGENCY SYMPTOMS:\n"+
				"• Chest pain or pressure\n"+
				"• Difficulty breathing\n"+
				"• Loss of consciousness\n"+
				"• Severe bleeding\n\n"+
				"🟡 URGENT SYMPTOMS:\n"+
				"• Severe pain (8-10/10)\n"+
				"• High fever (>103°F)\n"+
				"• Persistent vomiting\n"+
				"• Confusion or disorientation\n\n"+
				"Please select your primary symptom:",
			chat.Btn("Chest pain", "/chest_pain"),
			chat.Btn("Breathing difficulty", "/breathing_difficulty"),
			chat.Btn("Severe pain", "/severe_pain"),
			chat.Btn("High fever", "/high_fever"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		// Free-text "chest pain" trips the emergency protocol before this
		// module runs, so this rule effectively answers the payload only.
		{either(text("chest pain"), payload("/chest_pain")), static(
			"🔴 CHEST PAIN ASSESSMENT\n\n"+
				"This could be serious. Please answer:\n\n"+
				"How long have you had chest pain?\n"+
				"• Just started (< 15 minutes)\n"+
				"• Less than 1 hour\n"+
				"• Several hours\n"+
				"• More than a day\n\n"+
				"What does it feel like?\n"+
				"• Crushing/pressure\n"+
				"• Sharp/stabbing\n"+
				"• Burning sensation\n\n"+
				"Associated symptoms?\n"+
				"• Shortness of breath\n"+
				"• Sweating\n"+
				"• Nausea\n"+
				"• Pain in arm/jaw",
			chat.Btn("It's crushing with sweating", "/emergency_chest_pain"),
			chat.Btn("Sharp when breathing", "/pleuritic_pain"),
			chat.Btn("Burning after eating", "/gerd_pain"),
			chat.Btn("I'm not sure", "/unsure_chest_pain"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/emergency_chest_pain", "/unsure_chest_pain"), static(
			" EMERGENCY - POSSIBLE HEART ATTACK\n\n"+
				"CALL 911 IMMEDIATELY!\n\n"+
				"While waiting for ambulance:\n"+
				"1. Chew aspirin (325mg) if available\n"+
				"2. Sit upright, stay calm\n"+
				"3. Unlock your door\n"+
				"4. Have someone wait outside\n\n"+
				"Do NOT drive yourself!\n\n"+
				"If symptoms worsen, call 911 again.",
			chat.Btn("Call 911 now", "/call_911"),
			chat.Btn("I called 911", "/called_911"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/pleuritic_pain"), static(
			"📋 PLEURITIC CHEST PAIN\n\n"+
				"Your pain pattern suggests possible:\n"+
				"• Pleurisy (lung lining inflammation)\n"+
				"• Muscle strain\n"+
				"• Rib injury\n\n"+
				"Recommendation: See doctor TODAY\n\n"+
				"Go to ER if:\n"+
				"• Sudden severe shortness of breath\n"+
				"• Coughing blood\n"+
				"• Fever > 103°F\n"+
				"• Pain worsens rapidly\n\n"+
				"Meanwhile:\n"+
				"• Rest\n"+
				"• Anti-inflammatory medicine\n"+
				"• Monitor breathing",
			chat.Btn("Book urgent appointment", "/schedule_appointment"),
			chat.Btn("Find urgent care", "/urgent_care"),
			chat.Btn("Speak to nurse", "/nurse"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/gerd_pain"), static(
			"💊 LIKELY HEARTBURN/GERD\n\n"+
				"Your symptoms suggest acid reflux.\n\n"+
				"Try these immediately:\n"+
				"• Antacids (Tums, Mylanta)\n"+
				"• Sit upright\n"+
				"• Loosen tight clothing\n"+
				"• Sip water slowly\n\n"+
				"See doctor if:\n"+
				"• Pain doesn't improve in 30 min\n"+
				"• Frequent episodes (>2x/week)\n"+
				"• Difficulty swallowing\n"+
				"• Unexplained weight loss\n\n"+
				"Avoid:\n"+
				"• Lying down\n"+
				"• Spicy/acidic foods\n"+
				"• Coffee and alcohol",
			chat.Btn("Book GP appointment", "/schedule_appointment"),
			chat.Btn("Self-care tips", "/self_care"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{either(text("breathing difficulty"), payload("/breathing_difficulty")), static(
			"🫁 BREATHING ASSESSMENT\n\n"+
				"How severe is your breathing difficulty?\n\n"+
				"Can you:\n"+
				"• Speak in full sentences?\n"+
				"• Walk across the room?\n"+
				"• Lie flat?\n\n"+
				"When did it start?\n"+
				"• Suddenly (minutes ago)\n"+
				"• Gradually (hours/days)\n\n"+
				"Associated symptoms:\n"+
				"• Chest pain?\n"+
				"• Wheezing?\n"+
				"• Fever?\n"+
				"• Swollen legs?",
			chat.Btn("Can't speak full sentences", "/emergency_breathing"),
			chat.Btn("Wheezing, known asthma", "/asthma_attack"),
			chat.Btn("Gradual with fever", "/respiratory_infection"),
			chat.Btn("Anxiety/panic feeling", "/anxiety_breathing"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/emergency_breathing"), static(
			" EMERGENCY - SEVERE BREATHING DIFFICULTY\n\n"+
				"CALL 911 NOW!\n\n"+
				"While waiting:\n"+
				"• Sit upright, lean forward\n"+
				"• Use rescue inhaler if you have one\n"+
				"• Stay calm, breathe slowly\n"+
				"• Open windows for fresh air\n"+
				"• Loosen tight clothing\n\n"+
				"Someone should stay with you!",
			chat.Btn("Call 911", "/call_911"),
			chat.Btn("I called 911", "/called_911"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{payload("/respiratory_infection"), static(
			"🦠 RESPIRATORY INFECTION ASSESSMENT\n\n"+
				"Gradual breathing difficulty with fever suggests possible:\n"+
				"• Pneumonia\n"+
				"• Bronchitis\n"+
				"• Severe flu\n\n"+
				"⚠️ SEE DOCTOR TODAY if:\n"+
				"• Fever > 101°F (38.3°C)\n"+
				"• Breathing getting worse\n"+
				"• Coughing up colored mucus\n"+
				"• Chest pain when breathing\n\n"+
				"IMMEDIATE CARE:\n"+
				"• Rest and stay hydrated\n"+
				"• Monitor temperature\n"+
				"• Use humidifier\n"+
				"• Avoid cold air\n\n"+
				"What would you like to do?",
			chat.Btn("Book urgent GP appointment", "/urgent_appointment"),
			chat.Btn("Self-care advice", "/respiratory_self_care"),
			chat.Btn("When to go to A&E", "/respiratory_emergency_signs"),
			chat.Btn("Speak to nurse", "/nurse"),
		)},

		{payload("/respiratory_self_care"), static(
			"🏠 RESPIRATORY INFECTION SELF-CARE\n\n"+
				"HYDRATION:\n"+
				"• Drink 8-10 glasses of fluids daily\n"+
				"• Warm liquids (tea, soup, broth)\n"+
				"• Avoid alcohol and caffeine\n\n"+
				"BREATHING SUPPORT:\n"+
				"• Use humidifier or steam inhalation\n"+
				"• Sleep with head elevated\n"+
				"• Practice deep breathing exercises\n\n"+
				"REST:\n"+
				"• Stay home from work/school\n"+
				"• Sleep 8-10 hours\n"+
				"• Avoid strenuous activity\n\n"+
				"FEVER MANAGEMENT:\n"+
				"• Paracetamol/Ibuprofen as directed\n"+
				"• Cool compress on forehead\n"+
				"• Monitor temperature 2x daily",
			chat.Btn("Book GP appointment", "/schedule_appointment"),
			chat.Btn("When to seek emergency care", "/respiratory_emergency_signs"),
			chat.Btn("Main menu", "/main_menu"),
		)},

		{payload("/respiratory_emergency_signs"), static(
			"🚨 GO TO A&E IMMEDIATELY IF:\n\n"+
				"SEVERE BREATHING:\n"+
				"• Can't speak full sentences\n"+
				"• Gasping for air\n"+
				"• Blue lips or face\n"+
				"• Chest pulling in with breaths\n\n"+
				"HIGH FEVER:\n"+
				"• Temperature > 104°F (40°C)\n"+
				"• Fever with severe headache\n"+
				"• Stiff neck + confusion\n\n"+
				"OTHER RED FLAGS:\n"+
				"• Coughing up blood\n"+
				"• Severe chest pain\n"+
				"• Drowsiness/confusion\n"+
				"• Can't keep fluids down\n\n"+
				"CALL 999 if any of the above!",
			chat.Btn("Find nearest A&E", "/find_ae"),
			chat.Btn("Call 999", "/call_999"),
			chat.Btn("Speak to nurse now", "/nurse"),
		)},

		{either(text("severe pain"), payload("/severe_pain")), static(
			"😣 SEVERE PAIN ASSESSMENT\n\n"+
				"Where is your severe pain located?\n\n"+
				"Common areas:\n"+
				"• Head (severe headache)\n"+
				"• Abdomen (stomach area)\n"+
				"• Back (upper/lower)\n"+
				"• Joint/limb\n\n"+
				"Rate your pain (1-10):\n"+
				"• 7-8: Severe\n"+
				"• 9-10: Unbearable\n\n"+
				"How long have you had this pain?",
			chat.Btn("Severe headache", "/severe_headache"),
			chat.Btn("Severe abdominal", "/severe_abdominal"),
			chat.Btn("Severe back pain", "/severe_back"),
			chat.Btn("Other location", "/other_severe_pain"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{either(text("high fever"), payload("/high_fever")), static(
			"🌡 HIGH FEVER ASSESSMENT\n\n"+
				"Current temperature?\n"+
				"• 101-102°F: Moderate\n"+
				"• 103-104°F: High\n"+
				"• Above 104°F: Very high\n\n"+
				"Duration:\n"+
				"• Just started today\n"+
				"• 1-2 days\n"+
				"• More than 3 days\n\n"+
				"Other symptoms:\n"+
				"• Severe headache?\n"+
				"• Stiff neck?\n"+
				"• Confusion?\n"+
				"• Rash?\n"+
				"• Difficulty breathing?",
			chat.Btn("Fever with stiff neck", "/meningitis_concern"),
			chat.Btn("Above 104°F", "/very_high_fever"),
			chat.Btn("Fever 3+ days", "/persistent_fever"),
			chat.Btn("Fever with other symptoms", "/fever_with_symptoms"),
			chat.Btn("Type my symptoms", "/type_symptoms"),
		)},

		{either(text("urgent care"), payload("/urgent_care")), static(
			"🏥 URGENT CARE INFORMATION\n\n"+
				"Nearest Urgent Care Centers:\n\n"+
				"📍 MedExpress Urgent Care\n"+
				"   123 Main St • 0.5 miles\n"+
				"   Open until 9 PM\n\n"+
				"📍 CityMD Urgent Care\n"+
				"   456 Oak Ave • 1.2 miles\n"+
				"   Open 24/7\n\n"+
				"📍 MinuteClinic\n"+
				"   789 Pine Rd • 2.0 miles\n"+
				"   Open until 7 PM\n\n"+
				"Bring: ID, insurance card, medication list",
			chat.Btn("Get directions", "/directions"),
			chat.Btn("Call ahead", "/call_urgent_care"),
		)},

		{either(text("symptom tracker"), payload("/symptom_tracker")), static(
			"📊 SYMPTOM TRACKER\n\n"+
				"Let's track your symptoms over time:\n\n"+
				"📝 CURRENT SYMPTOMS:\n"+
				"Rate each symptom (0-10):\n"+
				"• Pain level: ___\n"+
				"• Fatigue: ___\n"+
				"• Nausea: ___\n"+
				"• Temperature: ___°C\n\n"+
				"⏰ TRACKING SCHEDULE:\n"+
				"• Morning (8 AM)\n"+
				"• Afternoon (2 PM)\n"+
				"• Evening (8 PM)\n\n"+
				"📈 PATTERNS TO WATCH:\n"+
				"• Worsening symptoms\n"+
				"• New symptoms appearing\n"+
				"• Symptoms not improving after 48h\n\n"+
				"💡 TIP: Keep a written log or use a health app",
			chat.Btn("Log symptoms now", "/log_symptoms"),
			chat.Btn("View my history", "/symptom_history"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
		)},

		{either(text("migraine check"), payload("/migraine_check")), static(
			"🔍 MIGRAINE ASSESSMENT\n\n"+
				"Do you experience these symptoms?\n\n"+
				"⚡ MIGRAINE INDICATORS:\n"+
				"□ Moderate to severe pain\n"+
				"□ Throbbing or pulsing sensation\n"+
				"□ Usually one side of head\n"+
				"□ Nausea or vomiting\n"+
				"□ Sensitivity to light/sound\n"+
				"□ Visual disturbances (aura)\n\n"+
				"⏱ DURATION:\n"+
				"□ Lasts 4-72 hours\n"+
				"□ Worsens with physical activity\n\n"+
				"If you checked 3+ boxes, you may have migraines.\n\n"+
				"🏥 NEXT STEPS:\n"+
				"• See GP for diagnosis\n"+
				"• Consider preventive treatment\n"+
				"• Identify personal triggers",
			chat.Btn("Book GP appointment", "/schedule_appointment"),
			chat.Btn("Migraine treatments", "/migraine_treatment"),
			chat.Btn("Emergency signs", "/emergency_headache"),
		)},

		{either(text("food poisoning"), payload("/food_poisoning")), static(
			"🦠 FOOD POISONING GUIDANCE\n\n"+
				"⏰ TYPICAL TIMELINE:\n"+
				"• Symptoms start: 1-72 hours after eating\n"+
				"• Duration: 24-48 hours usually\n"+
				"• Full recovery: 3-5 days\n\n"+
				" IMMEDIATE CARE:\n"+
				"• Stop eating solid food\n"+
				"• Sip water every 15 minutes\n"+
				"• Oral rehydration salts\n"+
				"• Rest completely\n\n"+
				" A&E IF:\n"+
				"• Blood in vomit/stool\n"+
				"• Signs of severe dehydration\n"+
				"• High fever (>38.5°C)\n"+
				"• Symptoms >48 hours\n"+
				"• Confusion or dizziness\n\n"+
				" Report to local health authority if suspect restaurant/takeaway",
			chat.Btn("Dehydration signs", "/dehydration_check"),
			chat.Btn("When to call 111", "/call_111"),
			chat.Btn("Recovery diet", "/recovery_diet"),
		)},

		{either(text("back exercises"), payload("/back_exercises")), static(
			"🤸 BACK PAIN EXERCISES\n\n"+
				" Stop if pain worsens!\n\n"+
				"🔄 GENTLE STRETCHES (hold 30 sec):\n\n"+
				"1⃣ KNEE TO CHEST:\n"+
				"• Lie on back\n"+
				"• Pull one knee to chest\n"+
				"• Repeat other side\n\n"+
				"2⃣ CAT-COW STRETCH:\n"+
				"• On hands and knees\n"+
				"• Arch and round back slowly\n\n"+
				"3⃣ CHILD'S POSE:\n"+
				"• Kneel and sit back on heels\n"+
				"• Reach arms forward\n\n"+
				"💪 STRENGTHENING (10 reps):\n"+
				"• Pelvic tilts\n"+
				"• Partial crunches\n"+
				"• Wall sits (30 seconds)\n\n"+
				" Do 2-3 times daily",
			chat.Btn("Video tutorials", "/exercise_videos"),
			chat.Btn("Physiotherapy", "/physio_referral"),
			chat.Btn("Pain still bad", "/persistent_back_pain"),
		)},

		{either(text("physio referral"), payload("/physio_referral")), static(
			"🏥 PHYSIOTHERAPY REFERRAL\n\n"+
				"OPTIONS FOR PHYSIOTHERAPY:\n\n"+
				"1⃣ NHS REFERRAL:\n"+
				"• See your GP first\n"+
				"• Waiting time: 4-12 weeks\n"+
				"• Free at point of care\n\n"+
				"2⃣ SELF-REFERRAL (some areas):\n"+
				"• Direct booking available\n"+
				"• Check local NHS website\n"+
				"• Usually faster access\n\n"+
				"3⃣ PRIVATE PHYSIO:\n"+
				"• No referral needed\n"+
				"• Cost: £40-80 per session\n"+
				"• Immediate availability\n\n"+
				"📋 BRING TO FIRST APPOINTMENT:\n"+
				"• Pain diary\n"+
				"• List of medications\n"+
				"• Previous scan results",
			chat.Btn("Book GP for referral", "/schedule_appointment"),
			chat.Btn("Find local physio", "/find_physio"),
			chat.Btn("What to expect", "/physio_info"),
		)},

		{matchPainScale, painScaleReplies},

		{either(text("when to see"), payload("/when_to_see_doctor")), static(
			"🩺 WHEN TO SEE A DOCTOR\n\n"+
				"See doctor TODAY if:\n"+
				"• Fever > 103°F\n"+
				"• Severe pain (7-10/10)\n"+
				"• Difficulty breathing\n"+
				"• Persistent vomiting\n"+
				"• Signs of infection\n\n"+
				"Within 24-48 hours if:\n"+
				"• Symptoms worsen\n"+
				"• No improvement after 3 days\n"+
				"• Moderate pain (4-6/10)\n"+
				"• Recurring symptoms\n\n"+
				"Emergency room if:\n"+
				"• Chest pain\n"+
				"• Stroke symptoms\n"+
				"• Severe bleeding\n"+
				"• Loss of consciousness",
			chat.Btn("Book appointment", "/schedule_appointment"),
			chat.Btn("Emergency help", "/emergency_help"),
		)},
	}
}

// primaryAssessment answers the four primary symptom keywords with an
// assessment card, escalating the recommendation when urgent-care wording
// is also present.
func (h *Handler) primaryAssessment(senderID, _, lower string) []chat.Reply {
	var symptom, advice string
	switch {
	case strings.Contains(lower, "fever"):
		symptom = "FEVER"
		advice = "📊 Temperature Guide:\n" +
			"• 98-99°F - Normal\n" +
			"• 99-100.4°F - Low-grade fever\n" +
			"• 100.4-103°F - Moderate fever (see doctor)\n" +
			"• Above 103°F - High fever (urgent care)\n\n" +
			"Monitor temperature every 4 hours"
	case strings.Contains(lower, "headache"):
		symptom = "HEADACHE"
		advice = "📍 Location & Type:\n" +
			"• Tension: Band around head\n" +
			"• Migraine: One-sided, throbbing\n" +
			"• Cluster: Behind eye\n\n" +
			" Seek care if:\n" +
			"• Sudden severe headache\n" +
			"• With fever and stiff neck\n" +
			"• After head injury"
	case strings.Contains(lower, "cough"):
		symptom = "COUGH"
		advice = "🔍 Type of cough:\n" +
			"• Dry cough - No phlegm\n" +
			"• Productive - With phlegm\n\n" +
			"⏱ Duration:\n" +
			"• < 3 weeks: Acute (usually viral)\n" +
			"• > 3 weeks: Chronic (see doctor)\n\n" +
			"Self-care: Honey, warm fluids, humidifier"
	case strings.Contains(lower, "stomach"):
		symptom = "STOMACH PAIN"
		advice = "📍 Location matters:\n" +
			"• Upper right: Gallbladder\n" +
			"• Upper center: Stomach/ulcer\n" +
			"• Lower right: Appendix (URGENT)\n\n" +
			" URGENT if:\n" +
			"• Severe sudden pain\n" +
			"• With high fever\n" +
			"• Can't pass gas/stool"
	}

	var recommendation string
	var buttons []chat.Button
	if triage.IsUrgent(lower) {
		recommendation = "URGENT CARE NEEDED"
		buttons = []chat.Button{
			chat.Btn("Go to urgent care", "/urgent_care"),
			chat.Btn("Call ambulance", "/call_ambulance"),
		}
		if h.metrics != nil {
			h.metrics.RecordTriageCategory(triage.CategoryUrgent.String())
		}
	} else {
		recommendation = "GP APPOINTMENT RECOMMENDED"
		buttons = []chat.Button{
			chat.Btn("Book GP appointment", "/schedule_appointment"),
			chat.Btn("Self-care advice", "/self_care"),
		}
		if h.metrics != nil {
			h.metrics.RecordTriageCategory(triage.CategoryGP.String())
		}
	}

	return []chat.Reply{chat.NewReply(senderID,
		fmt.Sprintf("%s ASSESSMENT\n\n%s\n\nRecommendation: %s", symptom, advice, recommendation),
		buttons...)}
}

// matchPainScale recognizes the pain-rating payloads: the named levels
// (/pain_mild etc.) and the numeric ones (/pain_1 .. /pain_10).
func matchPainScale(message, _ string) bool {
	for _, t := range []string{"/pain_mild", "/pain_moderate", "/pain_severe", "/pain_extreme"} {
		if strings.Contains(message, t) {
			return true
		}
	}
	return painLevelRe.MatchString(message)
}

// painScaleReplies maps a pain rating to its banded guidance: 1-3 mild,
// 4-6 moderate, 7-8 severe, 9-10 extreme.
func painScaleReplies(senderID, message, _ string) []chat.Reply {
	level := 0
	if m := painLevelRe.FindStringSubmatch(message); m != nil {
		level, _ = strconv.Atoi(m[1])
	}

	switch {
	case strings.Contains(message, "/pain_mild") || (level >= 1 && level <= 3):
		return []chat.Reply{chat.NewReply(senderID,
			" MILD PAIN (1-3/10)\n\n"+
				"Good news - your pain is manageable.\n\n"+
				"SELF-CARE RECOMMENDATIONS:\n"+
				"• Rest the affected area\n"+
				"• Apply ice for 20 minutes\n"+
				"• Take OTC pain relief (as directed)\n"+
				"• Gentle stretching\n\n"+
				"MONITOR FOR:\n"+
				"• Pain increasing\n"+
				"• New symptoms\n"+
				"• Swelling or redness\n\n"+
				"Usually resolves in 2-3 days with care.",
			chat.Btn("Pain management tips", "/pain_management"),
			chat.Btn("When to see doctor", "/when_to_see_doctor"),
			chat.Btn("Main menu", "/greet"),
		)}

	case strings.Contains(message, "/pain_moderate") || (level >= 4 && level <= 6):
		return []chat.Reply{chat.NewReply(senderID,
			" MODERATE PAIN (4-6/10)\n\n"+
				"This level needs attention.\n\n"+
				"IMMEDIATE ACTIONS:\n"+
				"• Take prescribed pain medication\n"+
				"• Alternate ice and heat\n"+
				"• Limit activity\n"+
				"• Document when pain is worst\n\n"+
				"SEE GP WITHIN 48 HOURS IF:\n"+
				"• Not improving after 2 days\n"+
				"• Affecting sleep\n"+
				"• Limiting daily activities\n\n"+
				"Consider booking an appointment.",
			chat.Btn("Book GP appointment", "/schedule_appointment"),
			chat.Btn("Pain relief options", "/pain_management"),
			chat.Btn("Call 111 advice", "/call_111"),
		)}

	case strings.Contains(message, "/pain_severe") || (level >= 7 && level <= 8):
		return []chat.Reply{chat.NewReply(senderID,
			"🔴 SEVERE PAIN (7-8/10)\n\n"+
				"This requires medical attention TODAY.\n\n"+
				"IMMEDIATE STEPS:\n"+
				"1. Take maximum safe dose of pain relief\n"+
				"2. Call GP for same-day appointment\n"+
				"3. If unavailable, go to urgent care\n\n"+
				"GO TO A&E IF:\n"+
				"• Sudden onset severe pain\n"+
				"• With fever or vomiting\n"+
				"• After injury or fall\n"+
				"• Chest, abdomen or head pain\n\n"+
				"Don't wait if pain is unbearable.",
			chat.Btn("Book urgent appointment", "/urgent_appointment"),
			chat.Btn("Find urgent care", "/urgent_care"),
			chat.Btn("Call 111 now", "/call_111"),
		)}

	default:
		return []chat.Reply{chat.NewReply(senderID,
			" EXTREME PAIN (9-10/10)\n\n"+
				" SEEK EMERGENCY CARE NOW\n\n"+
				"This level of pain is a medical emergency.\n\n"+
				"CALL 999 IF:\n"+
				"• Unbearable pain\n"+
				"• Can't move or function\n"+
				"• Suspected broken bone\n"+
				"• Severe injury\n\n"+
				"GO TO A&E IMMEDIATELY IF:\n"+
				"• Severe abdominal pain\n"+
				"• Chest pain\n"+
				"• Head injury pain\n\n"+
				"Don't drive yourself - call ambulance.",
			chat.Btn("Call 999", "/call_999"),
			chat.Btn("Go to A&E", "/go_to_ae"),
			chat.Btn("Call 111 for advice", "/call_111"),
		)}
	}
}
