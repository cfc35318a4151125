// Package notify delivers alert payloads to the user-visible channel.
package notify

import (
	"fmt"

	"quakewatch/internal/model"
)

// AlertTitle is the fixed title of every quake alert.
const AlertTitle = "Significant Quake Detected!"

// Notifier is the alert emitter collaborator. Emit is fire-and-forget
// and must not block the decision engine; delivery failures are the
// implementation's problem to log.
type Notifier interface {
	Emit(title, message string)
}

// FormatAlert builds the alert payload for an event.
func FormatAlert(ev model.SeismicEvent) model.Alert {
	return model.Alert{
		Title:   AlertTitle,
		Message: fmt.Sprintf("Magnitude %.1f - %s", ev.Magnitude, ev.Place),
	}
}

// FormatShareText renders the plain-text share summary of an event.
func FormatShareText(ev model.SeismicEvent) string {
	return fmt.Sprintf("Earthquake Alert!\nMag: %.1f\nLoc: %s", ev.Magnitude, ev.Place)
}
