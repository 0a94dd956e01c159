// Command interject runs the turn-taking decision layer for a conversational
// voice agent: it connects to the hosting session's event stream, classifies
// user transcripts against configurable word lists, and issues interrupt
// requests when the user genuinely wants the agent to stop talking.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxhall/interject/internal/app"
	"github.com/voxhall/interject/internal/config"
	"github.com/voxhall/interject/internal/health"
	"github.com/voxhall/interject/internal/observe"
	"github.com/voxhall/interject/pkg/eventsource/ws"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── Load configuration ────────────────────────────────────────────────────
	settings := config.FromEnv()

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(settings.LogLevel)
	slog.SetDefault(logger)

	slog.Info("interject starting",
		"version", version,
		"listen_addr", settings.ListenAddr,
		"log_level", settings.LogLevel,
		"default_language", settings.DefaultLanguage,
		"word_config", settings.WordConfigPath,
	)

	if settings.SessionURL == "" {
		slog.Error("SESSION_URL must be set")
		return 1
	}

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "interject",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Session connection ────────────────────────────────────────────────────
	var dialOpts []ws.Option
	if settings.SessionToken != "" {
		dialOpts = append(dialOpts, ws.WithToken(settings.SessionToken))
	}
	session, err := ws.Dial(ctx, settings.SessionURL, dialOpts...)
	if err != nil {
		slog.Error("failed to connect to session", "url", settings.SessionURL, "err", err)
		return 1
	}

	// ── Application ───────────────────────────────────────────────────────────
	application, err := app.New(settings, session)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	// ── Metrics and probe endpoints ───────────────────────────────────────────
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	health.New(session, application.Store()).Register(mux)

	srv := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "err", err)
		}
	}()

	slog.Info("decision layer ready")

	runErr := application.Run(ctx)

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("metrics server shutdown error", "err", err)
	}
	if err := application.Shutdown(); err != nil {
		slog.Warn("session close error", "err", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("run error", "err", runErr)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

func newLogger(level config.LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level.Level(),
	}))
}
