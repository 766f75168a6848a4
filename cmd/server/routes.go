// Package main provides the healthcare triage bot server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthdesk/triage-bot-go/internal/appointment"
	"github.com/healthdesk/triage-bot-go/internal/buildinfo"
	"github.com/healthdesk/triage-bot-go/internal/journal"
	"github.com/healthdesk/triage-bot-go/internal/session"
	"github.com/healthdesk/triage-bot-go/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, webhookHandler *webhook.Handler, jrnl *journal.Journal, sessions session.Store, appointments *appointment.Store, registry *prometheus.Registry) {
	// Root endpoint - service identity for channel compatibility checks
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":            "Healthcare Triage Chatbot",
			"version":         "1.0.0",
			"rasa_compatible": "3.6.0",
			"endpoints": []string{
				"/webhooks/rest/webhook",
				"/health",
			},
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Readiness Probe - checks if the application is ready to serve traffic
	readyHandler := func(c *gin.Context) {
		// Check the session store connection
		if err := sessions.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		journalStatus := "disabled"
		var stats journal.Stats
		if jrnl != nil {
			if err := jrnl.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
					"reason": err.Error(),
				})
				return
			}
			journalStatus = "connected"
			stats, _ = jrnl.GetStats(c.Request.Context())
		}

		sessionCount, _ := sessions.Count(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":  "ready",
			"version": buildinfo.Version,
			"journal": journalStatus,
			"state": gin.H{
				"sessions":     sessionCount,
				"appointments": appointments.Count(),
			},
			"events": gin.H{
				"total":       stats.Events,
				"created":     stats.Created,
				"cancelled":   stats.Cancelled,
				"rescheduled": stats.Rescheduled,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Rasa REST channel webhook endpoint
	router.POST("/webhooks/rest/webhook", webhookHandler.Handle)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
