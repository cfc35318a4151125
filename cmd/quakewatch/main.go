package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"quakewatch/internal/alert"
	"quakewatch/internal/config"
	"quakewatch/internal/feed"
	"quakewatch/internal/notify"
	"quakewatch/internal/observability"
	"quakewatch/internal/scheduler"
	"quakewatch/internal/server"
	"quakewatch/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	metrics := observability.NewMetrics()

	var notifier notify.Notifier
	if cfg.TelegramEnabled() {
		notifier, err = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Error("create telegram notifier", "error", err)
			os.Exit(1)
		}
	} else {
		log.Info("no telegram credentials configured, alerts go to the log")
		notifier = notify.NewLog(log)
	}

	client := feed.New(http.DefaultClient, cfg.FeedBaseURL, cfg.FeedMinMagnitude)
	client.SkippedFeature = metrics.FeaturesSkipped.Inc

	engine := alert.New(store, notifier, log, metrics)
	poller := scheduler.New(client, engine, log, metrics)
	poller.SetInterval(cfg.PollInterval)

	// The display path fetches on demand and shares nothing mutable
	// with the poller.
	displayClient := feed.New(http.DefaultClient, cfg.FeedBaseURL, cfg.FeedMinMagnitude)
	displayClient.SkippedFeature = metrics.FeaturesSkipped.Inc
	srv := server.New(cfg.HTTPAddr, displayClient, poller, clockwork.NewRealClock(), log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting quakewatch",
		"feed", cfg.FeedBaseURL,
		"poll_interval", cfg.PollInterval,
		"http_addr", cfg.HTTPAddr,
	)

	go poller.Run(ctx)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}

	log.Info("quakewatch stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
