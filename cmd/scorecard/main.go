package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/argos-av/scorecard/internal/api"
	"github.com/argos-av/scorecard/internal/config"
	"github.com/argos-av/scorecard/internal/evaluator"
	"github.com/argos-av/scorecard/internal/events"
	"github.com/argos-av/scorecard/internal/filter"
	"github.com/argos-av/scorecard/internal/matcher"
	"github.com/argos-av/scorecard/internal/metrics"
	"github.com/argos-av/scorecard/internal/passfail"
	"github.com/argos-av/scorecard/internal/perception"
	"github.com/argos-av/scorecard/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Frame store (optional)
	var frameStore store.Store
	if cfg.Database.URL != "" {
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		frameStore = db
		logger.Info("connected to database")
	} else {
		logger.Warn("no database configured, frame storage disabled")
	}

	// Event publisher (optional)
	var eventClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to NATS, running without events", "error", err)
		} else {
			eventClient = ec
			defer ec.Close()
			logger.Info("connected to NATS")
		}
	}

	// Matcher
	matcherClient := matcher.NewHTTPClient(cfg.Matcher.URL, cfg.Matcher.Token)

	// Evaluator
	svc, err := evaluator.New(
		frameStore,
		eventClient,
		metricsConfig(cfg.Evaluation),
		passFailConfig(cfg.PassFail),
		criticalConfig(cfg.PassFail.Critical),
		logger,
	)
	if err != nil {
		logger.Error("invalid evaluation config", "error", err)
		os.Exit(1)
	}

	// API server
	router := api.NewRouter(svc, frameStore, matcherClient, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func labels(names []string) []perception.Label {
	out := make([]perception.Label, 0, len(names))
	for _, n := range names {
		out = append(out, perception.Label(n))
	}
	return out
}

func metricsConfig(cfg config.EvaluationConfig) metrics.Config {
	return metrics.Config{
		TargetLabels:             labels(cfg.TargetLabels),
		CenterDistanceThresholds: cfg.CenterDistanceThresholds,
		IoU3DThresholds:          cfg.IoU3DThresholds,
		PlaneDistanceThresholds:  cfg.PlaneDistanceThresholds,
	}
}

func passFailConfig(cfg config.PassFailConfig) passfail.Config {
	thresholds := make(map[perception.Label]float64, len(cfg.Thresholds))
	var targets []perception.Label
	for name, threshold := range cfg.Thresholds {
		thresholds[perception.Label(name)] = threshold
		targets = append(targets, perception.Label(name))
	}
	return passfail.Config{
		TargetLabels:         targets,
		Mode:                 perception.MatchingMode(cfg.MatchingMode),
		Thresholds:           thresholds,
		RestrictFPToCritical: cfg.RestrictFPToCritical,
	}
}

func criticalConfig(cfg config.CriticalConfig) filter.CriticalConfig {
	return filter.CriticalConfig{
		TargetLabels:   labels(cfg.TargetLabels),
		MaxEgoDistance: cfg.MaxEgoDistance,
	}
}
