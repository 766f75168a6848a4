package bot

import (
	"context"
	"strings"
	"time"

	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/journal"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/ratelimit"
)

const rateLimitedText = "You're sending messages very quickly. Please wait a moment and try again."

// Processor runs the full per-message pipeline: rate limiting, input
// normalization, handler dispatch, and the greeting fallback.
type Processor struct {
	registry       *Registry
	limiter        *ratelimit.PerKeyLimiter
	log            *logger.Logger
	metrics        *metrics.Metrics
	journal        *journal.Journal
	dispatchWindow time.Duration
}

// ProcessorConfig bundles the processor dependencies.
type ProcessorConfig struct {
	Registry *Registry
	Limiter  *ratelimit.PerKeyLimiter
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Journal  *journal.Journal

	// DispatchWindow bounds a single message's handling, session and
	// journal writes included. Zero means 10 seconds.
	DispatchWindow time.Duration
}

// NewProcessor creates a message processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	window := cfg.DispatchWindow
	if window <= 0 {
		window = 10 * time.Second
	}
	return &Processor{
		registry:       cfg.Registry,
		limiter:        cfg.Limiter,
		log:            cfg.Logger,
		metrics:        cfg.Metrics,
		journal:        cfg.Journal,
		dispatchWindow: window,
	}
}

// Process handles one inbound message and returns the ordered replies.
// It never returns an empty slice: unmatched messages get the greeting
// menu, and rate-limited senders get a polite slow-down reply.
func (p *Processor) Process(ctx context.Context, in chat.Inbound) []chat.Reply {
	senderID := in.Sender
	if senderID == "" {
		senderID = chat.DefaultSender
	}

	if p.limiter != nil && !p.limiter.Allow(senderID) {
		p.log.WithSender(senderID).Warn("Message dropped by rate limiter")
		if p.metrics != nil {
			p.metrics.RecordRateLimiterDrop("sender")
		}
		return []chat.Reply{chat.NewReply(senderID, rateLimitedText)}
	}

	message := normalizeWhitespace(in.Message)

	ctx, cancel := context.WithTimeout(ctx, p.dispatchWindow)
	defer cancel()

	start := time.Now()
	replies, module, ok := p.registry.Dispatch(ctx, senderID, message)
	if !ok {
		module = "greeting"
		replies = []chat.Reply{greeting(senderID)}
	}
	elapsed := time.Since(start)

	status := "success"
	if err := ctx.Err(); err != nil {
		status = "timeout"
	}

	p.log.WithSender(senderID).WithFields(map[string]any{
		"module":     module,
		"replies":    len(replies),
		"elapsed_ms": elapsed.Milliseconds(),
	}).Debug("Processed message")

	if p.metrics != nil {
		p.metrics.RecordMessage(module, status, elapsed.Seconds())
		p.metrics.RecordReplies(module, len(replies))
	}
	if p.journal != nil {
		if err := p.journal.RecordMessage(ctx, senderID, module, status); err != nil {
			p.log.WithError(err).Warn("Failed to journal message event")
		}
	}

	return replies
}

// greeting is the fallback main menu shown when no module claims a message.
func greeting(senderID string) chat.Reply {
	return chat.NewReply(senderID,
		"HEALTHCARE TRIAGE SYSTEM\n\n"+
			"I can help you with:\n\n"+
			"• Symptom assessment & triage\n"+
			"• Appointment scheduling\n"+
			"• Emergency assistance\n"+
			"• Medical guidance\n\n"+
			"How can I assist you today?",
		chat.Btn("I have symptoms", "/describe_symptoms"),
		chat.Btn("Schedule appointment", "/schedule_appointment"),
		chat.Btn("Emergency help", "/emergency_help"),
		chat.Btn("Speak to nurse", "/nurse"),
	)
}

// normalizeWhitespace trims the message and collapses runs of internal
// whitespace. Case is preserved; the flow module collects names verbatim.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
