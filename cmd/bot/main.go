// Package main provides the wanabot Telegram bot entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/wanabot/wanabot-go/internal/booker"
	"github.com/wanabot/wanabot-go/internal/bot"
	"github.com/wanabot/wanabot-go/internal/buildinfo"
	"github.com/wanabot/wanabot-go/internal/config"
	"github.com/wanabot/wanabot-go/internal/dialog"
	"github.com/wanabot/wanabot-go/internal/logger"
	"github.com/wanabot/wanabot-go/internal/metrics"
	"github.com/wanabot/wanabot-go/internal/ratelimit"
	"github.com/wanabot/wanabot-go/internal/sentry"
	"github.com/wanabot/wanabot-go/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithBetterstack(cfg.LogLevel, cfg.BetterstackToken)
	log.WithField("version", buildinfo.Version).Info("Starting wanabot")

	// Initialize error tracking
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.Environment,
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Error("Failed to initialize error tracking")
	}
	defer sentry.Flush(2 * time.Second)

	// Create Prometheus registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create booker API client
	bookerClient := booker.NewClient(cfg.BookerBaseURL, cfg.BookerTimeout, m)
	log.WithField("base_url", cfg.BookerBaseURL).Info("Booker client created")

	// Build the dialog engine: registry of commands and wizard steps
	registryBot := bot.NewRegistry()
	dialog.NewHandler(bookerClient, log, cfg.Bot).Register(registryBot)
	log.WithField("commands", registryBot.CommandNames()).Info("Dialog handlers registered")

	// Connect to Telegram
	gateway, err := telegram.NewGateway(cfg.TelegramToken, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Telegram")
	}

	router := bot.NewRouter(registryBot, gateway, log, m)

	// Per-chat rate limiter
	limiter := ratelimit.NewPerChatLimiter(ratelimit.PerChatLimiterConfig{
		MaxTokens:  cfg.Bot.ChatRateLimitBurst,
		RefillRate: cfg.Bot.ChatRateLimitRefillPerSec,
	})
	limiter.OnDrop(m.RecordRateLimitDrop)
	defer limiter.Stop()

	listener := telegram.NewListener(gateway, registryBot, router, limiter, log, m)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Ops HTTP server: health probes and metrics
	engine := gin.New()
	engine.Use(gin.Recovery())
	if sentry.IsEnabled() {
		engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	engine.Use(securityHeadersMiddleware())
	engine.Use(loggingMiddleware(log))
	setupRoutes(engine, cfg, bookerClient, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.WithField("port", cfg.Port).Info("Ops server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		return listener.Run(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ops server shutdown: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.WithError(err).Error("Stopped with error")
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}

	log.Info("Stopped")
}
