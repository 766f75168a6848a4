package freetext

import (
	"context"
	"testing"

	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/stretchr/testify/assert"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return New(logger.New("error"))
}

func TestKeywordFamiliesMapToGuidedMenus(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		message string
		expect  string
	}{
		{"my back really hurts", "BACK PAIN ASSESSMENT"},
		{"my arm is sore", "I see you're experiencing pain."},
		{"I've been wheezing all night", "breathing/respiratory concerns"},
		{"constant nausea and bloating", "digestive symptoms"},
		{"feeling dizzy and confused", "neurological symptoms"},
		{"numbness in my fingers", "neurological symptoms"},
		{"itchy rash on my arm", "skin concern"},
		{"hives after eating shellfish", "skin concern"},
		{"I'm so tired lately", "FATIGUE ASSESSMENT"},
		{"chills and sweating at night", "How severe are your symptoms overall?"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.True(t, h.CanHandle(ctx, "u1", tt.message))

			replies := h.Handle(ctx, "u1", tt.message)
			assert.Len(t, replies, 1)
			assert.Contains(t, replies[0].Text, tt.expect)
			assert.NotEmpty(t, replies[0].Buttons)
		})
	}
}

// Families are ordered: wording that fits several families gets the first
// one, so "painful cough" is answered as pain, not as respiratory.
func TestFamilyOrderFirstMatchWins(t *testing.T) {
	h := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "a painful cough")

	assert.Contains(t, replies[0].Text, "I see you're experiencing pain.")
}

func TestBackPainMenuOffersNeuroEscalation(t *testing.T) {
	h := newTestHandler(t)

	replies := h.Handle(context.Background(), "u1", "lower back pain after lifting")

	assert.Contains(t, replies[0].Text, "BACK PAIN ASSESSMENT")
	var payloads []string
	for _, b := range replies[0].Buttons {
		payloads = append(payloads, b.Payload)
	}
	assert.Contains(t, payloads, "/back_with_neuro")
	assert.Contains(t, payloads, "/type_symptoms")
}

func TestCanHandleIgnoresUnrelatedText(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	assert.False(t, h.CanHandle(ctx, "u1", "hello"))
	assert.False(t, h.CanHandle(ctx, "u1", "thanks, goodbye"))
}
