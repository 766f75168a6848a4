package symptom

import (
	"context"
	"testing"

	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/stretchr/testify/assert"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return New(nil, logger.New("error"))
}

func TestPrimarySymptomAssessments(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		message string
		expect  string
	}{
		{"I have a fever", "FEVER ASSESSMENT"},
		{"my headache won't go away", "HEADACHE ASSESSMENT"},
		{"a nasty cough since monday", "COUGH ASSESSMENT"},
		{"stomach ache after dinner", "STOMACH PAIN ASSESSMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.True(t, h.CanHandle(ctx, "u1", tt.message))

			replies := h.Handle(ctx, "u1", tt.message)
			assert.Len(t, replies, 1)
			assert.Contains(t, replies[0].Text, tt.expect)
			assert.Contains(t, replies[0].Text, "Recommendation: GP APPOINTMENT RECOMMENDED")
			assert.Len(t, replies[0].Buttons, 2)
			assert.Equal(t, "/schedule_appointment", replies[0].Buttons[0].Payload)
		})
	}
}

func TestUrgentWordingEscalatesRecommendation(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tests := []string{
		"high fever for two days",
		"severe headache since this morning",
	}
	for _, message := range tests {
		t.Run(message, func(t *testing.T) {
			replies := h.Handle(ctx, "u1", message)
			assert.Contains(t, replies[0].Text, "Recommendation: URGENT CARE NEEDED")
			assert.Equal(t, "/urgent_care", replies[0].Buttons[0].Payload)
		})
	}
}

// Payloads that merely contain a primary keyword resolve to the matching
// assessment, the same answer their dedicated cards would lead back to.
func TestPayloadsResolveToPrimaryAssessment(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		message string
		expect  string
	}{
		{"/headache_diary", "HEADACHE ASSESSMENT"},
		{"/self_care_headache", "HEADACHE ASSESSMENT"},
		{"/self_care_stomach", "STOMACH PAIN ASSESSMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			replies := h.Handle(ctx, "u1", tt.message)
			assert.Contains(t, replies[0].Text, tt.expect)
		})
	}
}

func TestDescribeSymptomsMenu(t *testing.T) {
	h := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "/describe_symptoms")

	assert.Contains(t, replies[0].Text, "SYMPTOM ASSESSMENT")
	assert.Contains(t, replies[0].Text, "Rate severity (1-10)")
	assert.Len(t, replies[0].Buttons, 4)
}

func TestChestPainAndBreathingAssessments(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	replies := h.Handle(ctx, "u1", "/chest_pain")
	assert.Contains(t, replies[0].Text, "CHEST PAIN ASSESSMENT")
	assert.Len(t, replies[0].Buttons, 5)

	replies = h.Handle(ctx, "u1", "/emergency_chest_pain")
	assert.Contains(t, replies[0].Text, "EMERGENCY - POSSIBLE HEART ATTACK")

	replies = h.Handle(ctx, "u1", "/unsure_chest_pain")
	assert.Contains(t, replies[0].Text, "EMERGENCY - POSSIBLE HEART ATTACK")

	replies = h.Handle(ctx, "u1", "/emergency_breathing")
	assert.Contains(t, replies[0].Text, "EMERGENCY - SEVERE BREATHING DIFFICULTY")
}

func TestPainScaleBands(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		message string
		expect  string
	}{
		{"/pain_1", "MILD PAIN (1-3/10)"},
		{"/pain_3", "MILD PAIN (1-3/10)"},
		{"/pain_4", "MODERATE PAIN (4-6/10)"},
		{"/pain_6", "MODERATE PAIN (4-6/10)"},
		{"/pain_7", "SEVERE PAIN (7-8/10)"},
		{"/pain_8", "SEVERE PAIN (7-8/10)"},
		{"/pain_9", "EXTREME PAIN (9-10/10)"},
		{"/pain_10", "EXTREME PAIN (9-10/10)"},
		{"/pain_mild", "MILD PAIN (1-3/10)"},
		{"/pain_moderate", "MODERATE PAIN (4-6/10)"},
		{"/pain_severe", "SEVERE PAIN (7-8/10)"},
		{"/pain_extreme", "EXTREME PAIN (9-10/10)"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.True(t, h.CanHandle(ctx, "u1", tt.message))

			replies := h.Handle(ctx, "u1", tt.message)
			assert.Contains(t, replies[0].Text, tt.expect)
			assert.Len(t, replies[0].Buttons, 3)
		})
	}
}

func TestMildAndModerateSymptomMenus(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	replies := h.Handle(ctx, "u1", "/mild_symptoms")
	assert.Contains(t, replies[0].Text, "MILD SYMPTOMS ASSESSMENT")

	replies = h.Handle(ctx, "u1", "/moderate_symptoms")
	assert.Contains(t, replies[0].Text, "MODERATE SYMPTOMS ASSESSMENT")

	replies = h.Handle(ctx, "u1", "/severe_symptoms")
	assert.Contains(t, replies[0].Text, "SEVERE SYMPTOMS - DETAILED ASSESSMENT")
}

func TestWhenToSeeDoctor(t *testing.T) {
	h := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "/when_to_see_doctor")

	assert.Contains(t, replies[0].Text, "WHEN TO SEE A DOCTOR")
	assert.Contains(t, replies[0].Text, "Emergency room if:")
}

func TestCanHandleIgnoresUnrelatedText(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	assert.False(t, h.CanHandle(ctx, "u1", "hello there"))
	assert.False(t, h.CanHandle(ctx, "u1", "book appointment for tomorrow at 09:00"))
}
