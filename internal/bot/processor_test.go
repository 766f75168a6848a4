package bot

import (
	"context"
	"testing"
	"time"

	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

func newTestProcessor(reg *Registry, limiter *ratelimit.PerKeyLimiter) *Processor {
	return NewProcessor(ProcessorConfig{
		Registry: reg,
		Limiter:  limiter,
		Logger:   logger.New("error"),
	})
}

func TestProcessFallsBackToGreeting(t *testing.T) {
	p := newTestProcessor(NewRegistry(), nil)

	replies := p.Process(context.Background(), chat.Inbound{Sender: "u1", Message: "hello"})

	assert.Len(t, replies, 1)
	assert.Equal(t, "u1", replies[0].RecipientID)
	assert.Contains(t, replies[0].Text, "HEALTHCARE TRIAGE SYSTEM")
	assert.Contains(t, replies[0].Text, "How can I assist you today?")
	assert.Len(t, replies[0].Buttons, 4)
	assert.Equal(t, "/describe_symptoms", replies[0].Buttons[0].Payload)
}

func TestProcessSubstitutesDefaultSender(t *testing.T) {
	p := newTestProcessor(NewRegistry(), nil)

	replies := p.Process(context.Background(), chat.Inbound{Message: "hello"})

	assert.Len(t, replies, 1)
	assert.Equal(t, chat.DefaultSender, replies[0].RecipientID)
}

func TestProcessNormalizesWhitespaceBeforeDispatch(t *testing.T) {
	h := &fakeHandler{name: "booking", keyword: "appointment"}
	reg := NewRegistry()
	reg.Register(h)
	p := newTestProcessor(reg, nil)

	p.Process(context.Background(), chat.Inbound{Sender: "u1", Message: "  book \t an   appointment  "})

	assert.Equal(t, []string{"book an appointment"}, h.handled)
}

func TestProcessDispatchesToClaimingHandler(t *testing.T) {
	h := &fakeHandler{name: "emergency", keyword: "chest pain"}
	reg := NewRegistry()
	reg.Register(h)
	p := newTestProcessor(reg, nil)

	replies := p.Process(context.Background(), chat.Inbound{Sender: "u1", Message: "I have chest pain"})

	assert.Len(t, replies, 1)
	assert.Equal(t, "emergency", replies[0].Text)
}

func TestProcessRateLimitsBurstySenders(t *testing.T) {
	limiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Stop()

	p := newTestProcessor(NewRegistry(), limiter)

	first := p.Process(context.Background(), chat.Inbound{Sender: "u1", Message: "hello"})
	second := p.Process(context.Background(), chat.Inbound{Sender: "u1", Message: "hello again"})

	assert.Contains(t, first[0].Text, "HEALTHCARE TRIAGE SYSTEM")
	assert.Len(t, second, 1)
	assert.Equal(t, rateLimitedText, second[0].Text)
	// A different sender has its own bucket.
	other := p.Process(context.Background(), chat.Inbound{Sender: "u2", Message: "hello"})
	assert.Contains(t, other[0].Text, "HEALTHCARE TRIAGE SYSTEM")
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims edges", "  hello  ", "hello"},
		{"collapses runs", "book    appointment", "book appointment"},
		{"mixed whitespace", "a\t b\n c", "a b c"},
		{"preserves case", "  John   DOE ", "John DOE"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeWhitespace(tt.in))
		})
	}
}
