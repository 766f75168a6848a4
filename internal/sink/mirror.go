package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/healthdesk/triage-bot-go/internal/appointment"
	apperrors "github.com/healthdesk/triage-bot-go/internal/errors"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/sentry"
)

// Uploader is the part of the object store the mirror needs.
type Uploader interface {
	Upload(ctx context.Context, key string, body *bytes.Reader, contentType string) (string, error)
}

// uploaderAdapter lets *Client satisfy Uploader without widening its API.
type uploaderAdapter struct{ c *Client }

func (a uploaderAdapter) Upload(ctx context.Context, key string, body *bytes.Reader, contentType string) (string, error) {
	return a.c.Upload(ctx, key, body, contentType)
}

// Mirror writes appointment records to the object store at
// appointments/<confirmation-id>.json on create and reschedule.
type Mirror struct {
	store   Uploader
	log     *logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewMirror creates a mirror over the given client.
func NewMirror(client *Client, log *logger.Logger, m *metrics.Metrics, timeout time.Duration) *Mirror {
	return NewMirrorWithUploader(uploaderAdapter{c: client}, log, m, timeout)
}

// NewMirrorWithUploader creates a mirror over any Uploader. Used by tests.
func NewMirrorWithUploader(store Uploader, log *logger.Logger, m *metrics.Metrics, timeout time.Duration) *Mirror {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Mirror{
		store:   store,
		log:     log.WithModule("sink"),
		metrics: m,
		timeout: timeout,
	}
}

// Key returns the object key for a confirmation id.
func Key(confirmationID string) string {
	return "appointments/" + confirmationID + ".json"
}

// Write mirrors one appointment record. It is best-effort: the call is
// bounded by the configured timeout and the outcome is only logged and
// counted.
func (m *Mirror) Write(ctx context.Context, rec appointment.Record) {
	start := time.Now()
	key := Key(rec.ID)

	err := m.write(ctx, key, rec)
	duration := time.Since(start).Seconds()

	if err != nil {
		m.metrics.RecordSinkWrite("error", duration)
		m.log.WithError(err).WithField("key", key).Warn("appointment mirror write failed")
		sentry.CaptureException(apperrors.NewSinkError("upload", key, err))
		return
	}

	m.metrics.RecordSinkWrite("success", duration)
	m.log.WithField("key", key).Debug("appointment mirrored")
}

// WriteAsync mirrors the record on a background goroutine. The goroutine is
// detached from the request context so an answered webhook cannot cancel
// the write.
func (m *Mirror) WriteAsync(rec appointment.Record) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.log.WithField("panic", r).Error("panic in appointment mirror")
			}
		}()
		m.Write(context.Background(), rec)
	}()
}

func (m *Mirror) write(ctx context.Context, key string, rec appointment.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err = m.store.Upload(ctx, key, bytes.NewReader(data), "application/json")
	return err
}
