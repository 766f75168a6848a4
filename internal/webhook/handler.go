// Package webhook implements the Rasa REST channel endpoint: it decodes the
// inbound message body, serializes processing per sender, and returns the
// ordered reply array.
package webhook

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthdesk/triage-bot-go/internal/bot"
	"github.com/healthdesk/triage-bot-go/internal/chat"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
)

// Handler handles POST /webhooks/rest/webhook.
type Handler struct {
	processor *bot.Processor
	metrics   *metrics.Metrics
	logger    *logger.Logger
	locks     *senderLocks
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Processor *bot.Processor
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		processor: cfg.Processor,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		locks:     newSenderLocks(),
	}
}

// Handle is the Gin handler for the webhook endpoint. Messages from the
// same sender are processed one at a time so the booking state machine
// observes them in order; distinct senders proceed concurrently.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()

	var in chat.Inbound
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.WithError(err).Warn("Malformed webhook body")
		if h.metrics != nil {
			h.metrics.RecordWebhook("bad_request", time.Since(start).Seconds())
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	senderID := in.Sender
	if senderID == "" {
		senderID = chat.DefaultSender
	}

	unlock := h.locks.lock(senderID)
	replies := h.processor.Process(c.Request.Context(), in)
	unlock()

	if h.metrics != nil {
		h.metrics.RecordWebhook("success", time.Since(start).Seconds())
	}

	c.JSON(http.StatusOK, replies)
}

// senderLocks hands out one mutex per sender id. Entries are created on
// first use and released once no request holds or waits on them.
type senderLocks struct {
	mu    sync.Mutex
	locks map[string]*senderLock
}

type senderLock struct {
	mu   sync.Mutex
	refs int
}

func newSenderLocks() *senderLocks {
	return &senderLocks{locks: make(map[string]*senderLock)}
}

// lock blocks until the sender's mutex is held and returns the release
// function.
func (s *senderLocks) lock(senderID string) func() {
	s.mu.Lock()
	l, ok := s.locks[senderID]
	if !ok {
		l = &senderLock{}
		s.locks[senderID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, senderID)
		}
		s.mu.Unlock()
	}
}
