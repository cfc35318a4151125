package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults applied",
			env:  map[string]string{},
			want: &Config{
				FeedBaseURL:      "https://earthquake.usgs.gov",
				FeedMinMagnitude: 4.0,
				PollInterval:     15 * time.Minute,
				DatabasePath:     "./data/quakewatch.db",
				HTTPAddr:         ":8080",
				LogLevel:         "info",
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"FEED_BASE_URL":      "https://feed.example.com",
				"FEED_MIN_MAGNITUDE": "3.5",
				"POLL_INTERVAL":      "5m",
				"DATABASE_PATH":      "/tmp/qw.db",
				"HTTP_ADDR":          ":9090",
				"LOG_LEVEL":          "debug",
				"TELEGRAM_BOT_TOKEN": "tok",
				"TELEGRAM_CHAT_ID":   "12345",
			},
			want: &Config{
				FeedBaseURL:      "https://feed.example.com",
				FeedMinMagnitude: 3.5,
				PollInterval:     5 * time.Minute,
				DatabasePath:     "/tmp/qw.db",
				HTTPAddr:         ":9090",
				LogLevel:         "debug",
				TelegramBotToken: "tok",
				TelegramChatID:   12345,
			},
		},
		{
			name:    "invalid poll interval",
			env:     map[string]string{"POLL_INTERVAL": "soon"},
			wantErr: true,
		},
		{
			name:    "negative poll interval",
			env:     map[string]string{"POLL_INTERVAL": "-1m"},
			wantErr: true,
		},
		{
			name:    "invalid min magnitude",
			env:     map[string]string{"FEED_MIN_MAGNITUDE": "big"},
			wantErr: true,
		},
		{
			name:    "invalid chat id",
			env:     map[string]string{"TELEGRAM_CHAT_ID": "abc"},
			wantErr: true,
		},
		{
			name:    "token without chat id",
			env:     map[string]string{"TELEGRAM_BOT_TOKEN": "tok"},
			wantErr: true,
		},
	}

	keys := []string{
		"FEED_BASE_URL", "FEED_MIN_MAGNITUDE", "POLL_INTERVAL",
		"DATABASE_PATH", "HTTP_ADDR", "LOG_LEVEL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range keys {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTelegramEnabled(t *testing.T) {
	if (&Config{}).TelegramEnabled() {
		t.Error("expected disabled without token")
	}
	if !(&Config{TelegramBotToken: "tok", TelegramChatID: 1}).TelegramEnabled() {
		t.Error("expected enabled with token")
	}
}
