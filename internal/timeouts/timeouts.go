// Package timeouts provides centralized timeout constants for the application.
//
// The Rasa REST channel is synchronous: the caller blocks until the reply
// array comes back, so server-side bounds stay short and every background
// concern (sink writes, journal appends) gets its own budget.
package timeouts

import "time"

// Webhook timeouts
const (
	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Inbound bodies are small JSON objects.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout. It must cover the
	// dispatch window plus response serialization.
	WebhookHTTPWrite = 30 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive
	// connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Background job intervals
const (
	// SessionMetricsInterval is how often the active-session gauge is
	// refreshed from the session store.
	SessionMetricsInterval = 1 * time.Minute

	// RateLimiterCleanupInterval is how often inactive sender rate limiters
	// are cleaned.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// SentryFlush bounds the final Sentry event flush during shutdown.
	SentryFlush = 2 * time.Second
)
