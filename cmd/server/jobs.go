// Package main provides the healthcare triage bot server entry point.
package main

import (
	"context"
	"time"

	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/session"
	"github.com/healthdesk/triage-bot-go/internal/timeouts"
)

// updateSessionMetrics periodically refreshes the active-session gauge from
// the session store. Runs until ctx is cancelled.
func updateSessionMetrics(ctx context.Context, sessions session.Store, m *metrics.Metrics, log *logger.Logger) {
	ticker := time.NewTicker(timeouts.SessionMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := sessions.Count(ctx)
			if err != nil {
				log.WithError(err).Warn("Failed to count active sessions")
				continue
			}
			m.SetActiveSessions(count)
		}
	}
}
