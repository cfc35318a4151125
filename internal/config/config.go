// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	FeedBaseURL      string
	FeedMinMagnitude float64
	PollInterval     time.Duration
	DatabasePath     string
	HTTPAddr         string
	LogLevel         string
	TelegramBotToken string
	TelegramChatID   int64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		FeedBaseURL:      envOrDefault("FEED_BASE_URL", "https://earthquake.usgs.gov"),
		FeedMinMagnitude: 4.0,
		PollInterval:     15 * time.Minute,
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/quakewatch.db"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if raw := os.Getenv("FEED_MIN_MAGNITUDE"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FEED_MIN_MAGNITUDE %q: %w", raw, err)
		}
		cfg.FeedMinMagnitude = v
	}

	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: %w", raw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %q", raw)
		}
		cfg.PollInterval = d
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		cfg.TelegramChatID = id
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return cfg, nil
}

// TelegramEnabled reports whether alerts should go to Telegram rather
// than the log-backed notifier.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
