// Package selfcare implements the self-care guidance rules: the condition
// menu with its cold and back-pain guides, the wellness tips, the nurse
// triage entry, and the focused payload leaves for digestive, back, and
// localized pain complaints.
//
// Rules are ordered and the first match wins. The general self-care branch
// is the single place in the responder that emits two replies: the
// condition menu followed by the general guidelines card.
package selfcare

import (
	"context"
	"strings"

	"github.com/healthdesk/triage-bot-go/internal/appointment"
	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/logger"
)

type rule struct {
	match   func(message, lower string) bool
	replies func(senderID, message, lower string) []chat.Reply
}

// Handler runs the self-care cascade.
type Handler struct {
	appointments *appointment.Store
	log          *logger.Logger
	rules        []rule
}

// New creates the self-care handler. The appointment store backs the
// add-to-calendar leaf.
func New(appointments *appointment.Store, log *logger.Logger) *Handler {
	h := &Handler{appointments: appointments, log: log.WithModule("selfcare")}
	h.rules = h.buildRules()
	return h
}

// Name implements bot.Handler.
func (h *Handler) Name() string { return "selfcare" }

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

func static(body string, buttons ...chat.Button) func(senderID, message, lower string) []chat.Reply {
	return func(senderID, _, _ string) []chat.Reply {
		return []chat.Reply{chat.NewReply(senderID, body, buttons...)}
	}
}

func (h *Handler) buildRules() []rule {
	return []rule{
		{matchSelfCare, selfCareReplies},

		{payload("/energy_tips"), static(
			"⚡ ENERGY BOOSTING TIPS\n\n"+
				"IMMEDIATE ENERGY BOOST:\n"+
				"• Take a 5-minute walk\n"+
				"• Drink a glass of cold water\n"+
				"• Do 10 jumping jacks\n"+
				"• Eat a healthy snack\n\n"+
				"NUTRITION FOR ENERGY:\n"+
				"• Complex carbs (oatmeal, whole grains)\n"+
				"• Protein (nuts, eggs, yogurt)\n"+
				"• Iron-rich foods (spinach, beans)\n"+
				"• B vitamins (bananas, avocados)\n\n"+
				"LIFESTYLE CHANGES:\n"+
				"• Sleep 7-9 hours nightly\n"+
				"• Exercise 30 min daily\n"+
				"• Limit caffeine after 2pm\n"+
				"• Stay hydrated\n\n"+
				"AVOID ENERGY DRAINS:\n"+
				"• Skipping meals\n"+
				"• Too much sugar\n"+
				"• Dehydration\n"+
				"• Excessive screen time",
			chat.Btn("Sleep improvement", "/sleep_tips"),
			chat.Btn("Fatigue assessment", "/mild_fatigue"),
			chat.Btn("Book GP appointment", "/schedule_appointment"),
		)},

		{payload("/sleep_tips"), static(
			"😴 SLEEP HYGIENE TIPS\n\n"+
				"BEDTIME ROUTINE:\n"+
				"• Same sleep/wake time daily\n"+
				"• Wind down 1 hour before bed\n"+
				"• No screens 30 min before sleep\n"+
				"• Keep bedroom cool (65-68°F)\n\n"+
				"IMPROVE SLEEP QUALITY:\n"+
				"• Dark, quiet room\n"+
				"• Comfortable mattress/pillows\n"+
				"• White noise if needed\n\n"+
				"DAYTIME HABITS:\n"+
				"• Morning sunlight exposure\n"+
				"• Exercise (not late evening)\n"+
				"• Limit naps to 20 min\n"+
				"• No caffeine after 2pm",
			chat.Btn("Relaxation techniques", "/relaxation"),
			chat.Btn("When to see doctor", "/when_to_see_doctor"),
			chat.Btn("Main menu", "/greet"),
		)},

		// Payload only: free text mentioning a nurse falls through to the
		// greeting, matching the button-driven entry point.
		{func(message, _ string) bool { return message == "/nurse" }, static(
			"NURSE TRIAGE ASSESSMENT\n\n"+
				"I'll connect you with a nurse for assessment.\n\n"+
				"OPTIONS:\n"+
				" Call 111 (24/7 NHS nurse)\n"+
				" Online nurse chat\n"+
				" Video consultation\n\n"+
				"Average wait: 5-10 minutes",
			chat.Btn("Call 111 now", "/call_111"),
			chat.Btn("Describe symptoms", "/describe_symptoms"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/hydration_tips"), static(
			"💧 HYDRATION GUIDE\n\n"+
				"DAILY WATER INTAKE:\n"+
				"• Men: 3.7 liters (15.5 cups)\n"+
				"• Women: 2.7 liters (11.5 cups)\n"+
				"• More if exercising/hot weather\n\n"+
				"SIGNS OF DEHYDRATION:\n"+
				"• Dark yellow urine\n"+
				"• Headache\n"+
				"• Fatigue\n"+
				"• Dry mouth/lips\n"+
				"• Dizziness",
			chat.Btn("Dehydration check", "/dehydration_check"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/breathing_exercises"), static(
			"🫁 BREATHING EXERCISES\n\n"+
				"CALM BREATHING (4-7-8):\n"+
				"1. Exhale completely\n"+
				"2. Inhale through nose - 4 counts\n"+
				"3. Hold breath - 7 counts\n"+
				"4. Exhale through mouth - 8 counts\n"+
				"5. Repeat 3-4 times\n\n"+
				"BENEFITS:\n"+
				"✓ Reduces anxiety\n"+
				"✓ Lowers blood pressure\n"+
				"✓ Improves focus",
			chat.Btn("Relaxation techniques", "/relaxation"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/relaxation"), static(
			"🧘 RELAXATION TECHNIQUES\n\n"+
				"QUICK TECHNIQUES:\n"+
				"• Deep breathing (5 min)\n"+
				"• Visualization (imagine calm place)\n"+
				"• Body scan meditation\n"+
				"• Gentle stretching\n\n"+
				"DAILY PRACTICE:\n"+
				"• Morning: 5 min breathing\n"+
				"• Lunch: Quick stretch\n"+
				"• Evening: Full relaxation",
			chat.Btn("Breathing exercises", "/breathing_exercises"),
			chat.Btn("Sleep better", "/sleep_tips"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/severe_abdominal"), static(
			"🔴 SEVERE ABDOMINAL PAIN\n\n"+
				" SEEK EMERGENCY CARE IF:\n"+
				"• Sudden, severe pain\n"+
				"• Pain with fever\n"+
				"• Vomiting blood\n"+
				"• Black/bloody stools\n"+
				"• Rigid/hard abdomen\n\n"+
				"How severe is your pain?",
			chat.Btn("Unbearable - Call 999", "/call_999"),
			chat.Btn("Severe but stable", "/urgent_care"),
			chat.Btn("With other symptoms", "/abdominal_symptoms"),
		)},

		{payload("/add_to_calendar"), h.addToCalendar},

		{payload("/dehydration_check"), static(
			"💧 DEHYDRATION CHECK\n\n"+
				"MILD SIGNS:\n"+
				"• Thirst\n"+
				"• Dry mouth\n"+
				"• Dark yellow urine\n"+
				"• Tiredness\n\n"+
				"SEVERE SIGNS:\n"+
				"• Dizziness\n"+
				"• Rapid heartbeat\n"+
				"• Sunken eyes\n"+
				"• No urination 8+ hours\n\n"+
				"Treatment: Sip water slowly",
			chat.Btn("Hydration tips", "/hydration_tips"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
		)},

		{payload("/mild_back_pain"), static(
			"💚 MILD BACK PAIN RELIEF\n\n"+
				"IMMEDIATE STEPS:\n"+
				"• Keep moving gently\n"+
				"• Apply heat or ice\n"+
				"• Over-counter painkillers\n"+
				"• Gentle stretches\n\n"+
				"Usually improves in few days",
			chat.Btn("Back exercises", "/back_exercises"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/moderate_back_pain"), static(
			" MODERATE BACK PAIN\n\n"+
				"MANAGEMENT:\n"+
				"• Regular painkillers\n"+
				"• Alternate heat/ice\n"+
				"• Gentle movement\n"+
				"• Avoid heavy lifting\n\n"+
				"SEE GP IF:\n"+
				"• Pain >1 week\n"+
				"• Getting worse\n"+
				"• Numbness/tingling",
			chat.Btn("Book appointment", "/schedule_appointment"),
			chat.Btn("Physiotherapy", "/physio_referral"),
			chat.Btn("Pain management", "/pain_management"),
		)},

		{payload("/severe_back", "/back_with_neuro"), static(
			"🔴 SEVERE BACK PAIN WARNING\n\n"+
				" SEEK URGENT CARE IF:\n"+
				"• Loss of bladder/bowel control\n"+
				"• Leg weakness\n"+
				"• Numbness in groin\n"+
				"• Can't walk\n\n"+
				"These are RED FLAGS - A&E NOW",
			chat.Btn("Go to A&E", "/go_to_ae"),
			chat.Btn("Call 999", "/call_999"),
			chat.Btn("Urgent GP", "/urgent_appointment"),
		)},

		{payload("/nausea_vomiting"), static(
			"🤮 NAUSEA & VOMITING CARE\n\n"+
				"IMMEDIATE HELP:\n"+
				"• Small sips of water\n"+
				"• Ginger tea\n"+
				"• Fresh air\n"+
				"• Sit upright\n\n"+
				" SEEK HELP IF:\n"+
				"• Blood in vomit\n"+
				"• Can't keep fluids down 24h\n"+
				"• Signs of dehydration",
			chat.Btn("Dehydration check", "/dehydration_check"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/diarrhea"), static(
			"💩 DIARRHEA MANAGEMENT\n\n"+
				"IMMEDIATE CARE:\n"+
				"• Oral rehydration salts\n"+
				"• Clear fluids frequently\n"+
				"• Avoid dairy products\n"+
				"• Rest\n\n"+
				" SEE DOCTOR IF:\n"+
				"• Blood in stool\n"+
				"• High fever\n"+
				"• Lasts >3 days",
			chat.Btn("Hydration tips", "/hydration_tips"),
			chat.Btn("Food poisoning", "/food_poisoning"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
		)},

		{payload("/constipation"), static(
			"🚽 CONSTIPATION RELIEF\n\n"+
				"IMMEDIATE HELP:\n"+
				"• Drink warm water\n"+
				"• Gentle exercise\n"+
				"• Abdominal massage\n"+
				"• Prune juice\n\n"+
				"DIETARY CHANGES:\n"+
				"• More fiber\n"+
				"• 8+ glasses water daily",
			chat.Btn("Dietary advice", "/diet_fiber"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/abdominal_symptoms"), static(
			"🤒 STOMACH PAIN ASSESSMENT\n\n"+
				"LOCATION HELPS DIAGNOSIS:\n"+
				"• Upper right: Gallbladder\n"+
				"• Upper center: Stomach\n"+
				"• Around navel: Small intestine\n"+
				"• Lower right: Appendix\n\n"+
				"DESCRIBE YOUR PAIN:",
			chat.Btn("Sharp/stabbing", "/sharp_abdominal"),
			chat.Btn("Cramping", "/cramping_abdominal"),
			chat.Btn("Burning", "/burning_abdominal"),
			chat.Btn("Constant ache", "/aching_abdominal"),
		)},

		{payload("/sharp_abdominal"), static(
			"🔪 SHARP ABDOMINAL PAIN\n\n"+
				"This could be serious.\n\n"+
				"POSSIBLE CAUSES:\n"+
				"• Appendicitis\n"+
				"• Gallstones\n"+
				"• Kidney stones\n\n"+
				"Seek urgent care if severe",
			chat.Btn("Go to A&E", "/go_to_ae"),
			chat.Btn("Call 111", "/call_111"),
			chat.Btn("See more symptoms", "/abdominal_symptoms"),
		)},

		{payload("/cramping_abdominal"), static(
			"〰 CRAMPING PAIN\n\n"+
				"COMMON CAUSES:\n"+
				"• IBS\n"+
				"• Gas/bloating\n"+
				"• Food intolerance\n"+
				"• Period cramps\n\n"+
				"Usually not serious but monitor",
			chat.Btn("Self-care tips", "/digestive_self_care"),
			chat.Btn("When to worry", "/when_to_see_doctor"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/burning_abdominal"), static(
			"🔥 BURNING PAIN\n\n"+
				"LIKELY CAUSES:\n"+
				"• Heartburn/GERD\n"+
				"• Stomach ulcer\n"+
				"• Gastritis\n\n"+
				"Try antacids for relief",
			chat.Btn("Heartburn relief", "/heartburn_relief"),
			chat.Btn("Diet advice", "/diet_advice"),
			chat.Btn("Book GP", "/schedule_appointment"),
		)},

		{payload("/aching_abdominal"), static(
			"😣 CONSTANT ACHE\n\n"+
				"POSSIBLE CAUSES:\n"+
				"• Constipation\n"+
				"• Viral infection\n"+
				"• Stress\n\n"+
				"Monitor for changes",
			chat.Btn("Track symptoms", "/symptom_diary"),
			chat.Btn("Self-care", "/self_care"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/other_pain", "/other_severe_pain"), static(
			"📍 OTHER PAIN LOCATION\n\n"+
				"Please describe:\n"+
				"• Where is the pain?\n"+
				"• How long have you had it?\n"+
				"• Rate severity (1-10)\n\n"+
				"Common areas we can help with:",
			chat.Btn("Joint pain", "/joint_pain"),
			chat.Btn("Muscle pain", "/muscle_pain"),
			chat.Btn("Nerve pain", "/nerve_pain"),
			chat.Btn("Type symptoms", "/type_symptoms"),
		)},

		{payload("/joint_pain"), static(
			"🦴 JOINT PAIN ASSESSMENT\n\n"+
				"SYMPTOMS TO WATCH:\n"+
				"• Swelling\n"+
				"• Redness\n"+
				"• Warmth\n"+
				"• Stiffness\n\n"+
				"Could be arthritis, injury, or infection",
			chat.Btn("Self-care", "/joint_care"),
			chat.Btn("Book GP", "/schedule_appointment"),
			chat.Btn("When urgent", "/when_to_see_doctor"),
		)},

		{payload("/muscle_pain"), static(
			"💪 MUSCLE PAIN CARE\n\n"+
				"RICE METHOD:\n"+
				"• Rest\n"+
				"• Ice (first 48h)\n"+
				"• Compression\n"+
				"• Elevation\n\n"+
				"Usually improves in few days",
			chat.Btn("Stretches", "/muscle_stretches"),
			chat.Btn("Pain relief", "/pain_management"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/nerve_pain"), static(
			"⚡ NERVE PAIN\n\n"+
				"CHARACTERISTICS:\n"+
				"• Shooting/burning\n"+
				"• Numbness\n"+
				"• Tingling\n"+
				"• Weakness\n\n"+
				"Often needs medical assessment",
			chat.Btn("Book GP urgently", "/urgent_appointment"),
			chat.Btn("Pain management", "/pain_management"),
			chat.Btn("Call 111", "/call_111"),
		)},

		{payload("/telemedicine"), static(
			"💻 VIDEO CONSULTATION\n\n"+
				"AVAILABLE SERVICES:\n"+
				"• NHS Video Consults\n"+
				"• Private GP services\n"+
				"• Specialist referrals\n\n"+
				"Average wait: 30 minutes",
			chat.Btn("Book video consult", "/book_video"),
			chat.Btn("Call 111 instead", "/call_111"),
			chat.Btn("Main menu", "/greet"),
		)},

		{payload("/symptom_diary", "/log_symptoms"), static(
			"📝 SYMPTOM DIARY\n\n"+
				"TRACK DAILY:\n"+
				"• Time symptoms occur\n"+
				"• Severity (1-10 scale)\n"+
				"• Duration\n"+
				"• Triggers\n"+
				"• What helped\n\n"+
				"Keep for at least 2 weeks",
			chat.Btn("Start logging", "/start_diary"),
			chat.Btn("View tips", "/diary_tips"),
			chat.Btn("Main menu", "/greet"),
		)},
	}
}

func matchSelfCare(message, lower string) bool {
	return strings.Contains(lower, "self-care") ||
		strings.Contains(lower, "self care") ||
		strings.Contains(message, "/self_care")
}

// selfCareReplies answers the condition-specific guides, or the general
// two-part advice when no condition payload is present. The headache and
// stomach variants never reach here: their payloads contain a primary
// symptom keyword, so the symptom assessments answer them first.
func selfCareReplies(senderID, message, _ string) []chat.Reply {
	switch {
	case strings.Contains(message, "/self_care_cold"):
		return []chat.Reply{chat.NewReply(senderID,
			"🤧 COLD & FLU SELF-CARE\n\n"+
				" RECOMMENDED ACTIONS:\n\n"+
				"💊 MEDICATION:\n"+
				"• Paracetamol for fever/pain (max 4g daily)\n"+
				"• Ibuprofen for inflammation (with food)\n"+
				"• Throat lozenges for sore throat\n"+
				"• Decongestants for blocked nose\n\n"+
				"🏠 HOME REMEDIES:\n"+
				"• Warm salt water gargle (3x daily)\n"+
				"• Steam inhalation with eucalyptus\n"+
				"• Honey and lemon in warm water\n"+
				"• Chicken soup for nutrition\n\n"+
				"💧 HYDRATION:\n"+
				"• 2-3 liters of fluids daily\n"+
				"• Warm herbal teas\n"+
				"• Avoid alcohol completely\n\n"+
				"🛌 REST:\n"+
				"• Sleep 8-10 hours\n"+
				"• Stay home from work/school\n"+
				"• Avoid spreading to others\n\n"+
				" SEE DOCTOR IF:\n"+
				"• Fever >39°C for 3+ days\n"+
				"• Difficulty breathing\n"+
				"• Chest pain or pressure\n"+
				"• Severe headache or confusion",
			chat.Btn("Track my symptoms", "/symptom_tracker"),
			chat.Btn("When to see doctor", "/when_to_see_doctor"),
			chat.Btn("Book appointment", "/schedule_appointment"),
		)}

	case strings.Contains(message, "/self_care_back"):
		return []chat.Reply{chat.NewReply(senderID,
			"🔙 BACK PAIN SELF-CARE\n\n"+
				" PAIN MANAGEMENT:\n\n"+
				"💊 MEDICATION:\n"+
				"• Ibuprofen 400mg (3x daily with food)\n"+
				"• Paracetamol 1g (4x daily max)\n"+
				"• Topical heat/cold gel\n"+
				"• Muscle relaxants (if prescribed)\n\n"+
				"🏃 MOVEMENT:\n"+
				"• Stay active - bed rest delays recovery\n"+
				"• Gentle stretching exercises\n"+
				"• Walking 10-15 minutes hourly\n"+
				"• Swimming if possible\n\n"+
				"🔥❄ TEMPERATURE THERAPY:\n"+
				"• Ice first 48 hours (20 min sessions)\n"+
				"• Heat after 48 hours\n"+
				"• Warm baths with Epsom salt\n"+
				"• Alternating hot/cold\n\n"+
				"😴 SLEEPING POSITION:\n"+
				"• Side: pillow between knees\n"+
				"• Back: pillow under knees\n"+
				"• Avoid stomach sleeping\n"+
				"• Firm mattress support\n\n"+
				" RED FLAGS - A&E NOW:\n"+
				"• Loss of bladder/bowel control\n"+
				"• Leg weakness or numbness\n"+
				"• Severe pain at night\n"+
				"• After significant trauma",
			chat.Btn("Back exercises", "/back_exercises"),
			chat.Btn("Physiotherapy referral", "/physio_referral"),
			chat.Btn("Book appointment", "/schedule_appointment"),
		)}
	}

	return []chat.Reply{
		chat.NewReply(senderID,
			"🏠 SELF-CARE OPTIONS\n\n"+
				"Select specific guidance for your condition:\n\n"+
				"Common conditions we can help with:\n"+
				"• Cold & flu symptoms\n"+
				"• Headaches & migraines\n"+
				"• Stomach upset & nausea\n"+
				"• Back pain & muscle aches\n\n"+
				"Or choose general self-care advice below.",
			chat.Btn("Cold & flu care", "/self_care_cold"),
			chat.Btn("Headache relief", "/self_care_headache"),
			chat.Btn("Stomach upset", "/self_care_stomach"),
			chat.Btn("Back pain help", "/self_care_back"),
		),
		chat.NewReply(senderID,
			"📋 GENERAL SELF-CARE GUIDELINES\n\n"+
				"💊 SAFE MEDICATION USE:\n"+
				"• Read labels carefully\n"+
				"• Don't exceed recommended doses\n"+
				"• Check drug interactions\n"+
				"• Keep medication list updated\n\n"+
				"💧 HYDRATION:\n"+
				"• 8-10 glasses water daily\n"+
				"• More if fever/vomiting\n"+
				"• Clear fluids preferred\n\n"+
				"🛌 REST & RECOVERY:\n"+
				"• 7-9 hours sleep\n"+
				"• Take time off if needed\n"+
				"• Gradual return to activity\n\n"+
				"🌡 MONITORING:\n"+
				"• Keep symptom diary\n"+
				"• Check temperature 2x daily\n"+
				"• Note any changes\n\n"+
				" Seek medical help if symptoms worsen or persist!",
			chat.Btn("When to see doctor", "/when_to_see_doctor"),
			chat.Btn("Schedule appointment", "/schedule_appointment"),
			chat.Btn("Main menu", "/greet"),
		),
	}
}

// addToCalendar shows calendar details for the sender's most recent
// appointment.
func (h *Handler) addToCalendar(senderID, _, _ string) []chat.Reply {
	records := h.appointments.List(senderID)
	if len(records) == 0 {
		return []chat.Reply{chat.NewReply(senderID,
			" NO APPOINTMENTS FOUND\n\n"+
				"You don't have any scheduled appointments.",
			chat.Btn("Schedule appointment", "/schedule_appointment"),
			chat.Btn("Main menu", "/greet"),
		)}
	}

	apt := records[len(records)-1]
	return []chat.Reply{chat.NewReply(senderID,
		" ADD TO CALENDAR\n\n"+
			"Copy these details:\n\n"+
			"Event: Medical Appointment\n"+
			"Date: "+apt.Date+"\n"+
			"Time: "+apt.Time+"\n"+
			"Doctor: "+apt.Doctor+"\n\n"+
			"SET REMINDERS:\n"+
			"• 1 day before\n"+
			"• 2 hours before",
		chat.Btn("View appointment", "/view_appointments"),
		chat.Btn("Main menu", "/greet"),
	)}
}
