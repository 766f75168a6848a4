// Package main provides the healthcare triage bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/healthdesk/triage-bot-go/internal/appointment"
	"github.com/healthdesk/triage-bot-go/internal/bot"
	"github.com/healthdesk/triage-bot-go/internal/bot/booking"
	"github.com/healthdesk/triage-bot-go/internal/bot/emergency"
	"github.com/healthdesk/triage-bot-go/internal/bot/flow"
	"github.com/healthdesk/triage-bot-go/internal/bot/freetext"
	"github.com/healthdesk/triage-bot-go/internal/bot/selfcare"
	"github.com/healthdesk/triage-bot-go/internal/bot/symptom"
	"github.com/healthdesk/triage-bot-go/internal/buildinfo"
	"github.com/healthdesk/triage-bot-go/internal/config"
	"github.com/healthdesk/triage-bot-go/internal/journal"
	"github.com/healthdesk/triage-bot-go/internal/logger"
	"github.com/healthdesk/triage-bot-go/internal/metrics"
	"github.com/healthdesk/triage-bot-go/internal/ratelimit"
	"github.com/healthdesk/triage-bot-go/internal/sentry"
	"github.com/healthdesk/triage-bot-go/internal/session"
	"github.com/healthdesk/triage-bot-go/internal/sink"
	"github.com/healthdesk/triage-bot-go/internal/timeouts"
	"github.com/healthdesk/triage-bot-go/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting Healthcare Triage Server")

	// Initialize error reporting (no-op without a token)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error reporting disabled")
	} else if sentry.IsEnabled() {
		log.Info("Sentry error reporting enabled")
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Open the event journal. Losing it degrades readiness, not message
	// handling, so startup continues without one.
	var jrnl *journal.Journal
	if j, err := journal.New(cfg.JournalPath()); err != nil {
		log.WithError(err).WithField("path", cfg.JournalPath()).
			Warn("Failed to open event journal; continuing without it")
		sentry.CaptureException(err)
	} else {
		jrnl = j
		log.WithField("path", jrnl.Path()).Info("Event journal opened")
	}

	// Create session store
	var sessions session.Store
	if cfg.RedisEnabled() {
		store, err := session.NewRedisStore(context.Background(), session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		sessions = store
		log.WithField("addr", cfg.RedisAddr).Info("Redis session store connected")
	} else {
		sessions = session.NewMemoryStore()
		log.Info("In-process session store created")
	}

	// Create appointment store
	appointments := appointment.NewStore()

	// Create appointment mirror (optional)
	var mirror *sink.Mirror
	if cfg.SinkEnabled {
		client, err := sink.New(context.Background(), sink.Config{
			Endpoint:    cfg.SinkEndpoint,
			AccessKeyID: cfg.SinkAccessKeyID,
			SecretKey:   cfg.SinkSecretAccessKey,
			BucketName:  cfg.SinkBucket,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to create sink client")
		}
		mirror = sink.NewMirror(client, log, m, cfg.SinkTimeout)
		log.WithField("bucket", cfg.SinkBucket).Info("Appointment mirror enabled")
	}

	// Create per-sender rate limiter
	limiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.UserRateLimitBurst,
		RefillRate:    cfg.UserRateLimitRefillPerSec,
		CleanupPeriod: timeouts.RateLimiterCleanupInterval,
	})

	// Register conversation modules: the booking flow claims its senders
	// first, emergency pre-empts every topic rule, then the topic cascades,
	// with free-text analysis last before the greeting fallback.
	reg := bot.NewRegistry()
	reg.Register(flow.New(sessions, appointments, mirror, jrnl, m, log))
	reg.Register(emergency.New(m, log))
	reg.Register(booking.New(sessions, appointments, mirror, jrnl, m, log))
	reg.Register(symptom.New(m, log))
	reg.Register(selfcare.New(appointments, log))
	reg.Register(freetext.New(log))

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Registry:       reg,
		Limiter:        limiter,
		Logger:         log,
		Metrics:        m,
		Journal:        jrnl,
		DispatchWindow: cfg.WebhookTimeout,
	})

	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		Processor: processor,
		Metrics:   m,
		Logger:    log,
	})
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, webhookHandler, jrnl, sessions, appointments, registry)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  timeouts.WebhookHTTPRead,
		WriteTimeout: timeouts.WebhookHTTPWrite,
		IdleTimeout:  timeouts.WebhookHTTPIdle,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Session gauge updater goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in session metrics goroutine")
			}
		}()
		updateSessionMetrics(ctx, sessions, m, log)
	}()

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop the rate limiter cleanup loop
	limiter.Stop()

	// Cancel context to stop the session metrics updater
	cancel()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close the event journal
	if jrnl != nil {
		if err := jrnl.Close(); err != nil {
			log.WithError(err).Error("Failed to close event journal")
		}
	}

	// Close the session store
	if err := sessions.Close(); err != nil {
		log.WithError(err).Error("Failed to close session store")
	}

	// Flush pending error reports
	sentry.Flush(timeouts.SentryFlush)

	log.Info("Server stopped")
}
