// Package classify implements the magnitude and time-window
// classification rules. All functions are pure: time is always an
// explicit argument, never read from the system clock.
package classify

import (
	"time"

	"quakewatch/internal/model"
)

// Magnitude thresholds shared by severity banding, alerting, and the
// display filter.
const (
	HighMagnitude     = 6.0
	ModerateMagnitude = 4.5
	AlertMagnitude    = 5.0
)

// Time windows in milliseconds.
const (
	RecentWindowMillis = 3_600_000  // 1 hour
	DayWindowMillis    = 86_400_000 // 24 hours
)

// Severity maps a magnitude to its band. Thresholds are inclusive at
// the lower bound of each band. Total over all inputs, including
// negative magnitudes.
func Severity(magnitude float64) model.Band {
	switch {
	case magnitude >= HighMagnitude:
		return model.BandHigh
	case magnitude >= ModerateMagnitude:
		return model.BandModerate
	default:
		return model.BandLow
	}
}

// IsRecent reports whether an event occurred within the last hour,
// used for the "fresh event" emphasis.
func IsRecent(eventMillis, nowMillis int64) bool {
	return nowMillis-eventMillis < RecentWindowMillis
}

// PassesFilter reports whether an event belongs to the given display
// filter mode. Filtering is display-only and never affects the
// dedup/alert path. Unknown modes pass everything, like FilterAll.
func PassesFilter(ev model.SeismicEvent, mode model.FilterMode, now time.Time) bool {
	switch mode {
	case model.FilterMagnitude5:
		return ev.Magnitude >= AlertMagnitude
	case model.FilterLast24h:
		return now.UnixMilli()-ev.Time <= DayWindowMillis
	default:
		return true
	}
}

// ParseFilterMode validates a user-supplied mode string. An empty
// string selects FilterAll.
func ParseFilterMode(s string) (model.FilterMode, bool) {
	switch model.FilterMode(s) {
	case model.FilterAll, "":
		return model.FilterAll, true
	case model.FilterMagnitude5:
		return model.FilterMagnitude5, true
	case model.FilterLast24h:
		return model.FilterLast24h, true
	}
	return "", false
}
