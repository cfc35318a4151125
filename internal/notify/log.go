package notify

import "log/slog"

// Log is a Notifier that writes alerts to the application log. Used
// when no Telegram credentials are configured, so the alert path
// stays exercised in development deployments.
type Log struct {
	log *slog.Logger
}

// NewLog creates a log-backed notifier.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

// Emit logs the alert at warn level.
func (l *Log) Emit(title, message string) {
	l.log.Warn("alert", "title", title, "message", message)
}
