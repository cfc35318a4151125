// Package model defines the domain types used across the application.
package model

// NoID is the sentinel identifier assigned to feed events that arrive
// without a source-assigned id. Successive id-less events share this
// sentinel and are therefore treated as duplicates of each other.
const NoID = "no_id"

// SeismicEvent is one reported event from the feed.
type SeismicEvent struct {
	// ID is the source-assigned identifier. Empty when the feed
	// omitted it; AlertID normalizes that case.
	ID        string
	Magnitude float64
	Place     string
	// Time is the event occurrence time in epoch milliseconds, as
	// reported by the feed (not the fetch time).
	Time    int64
	Tsunami bool

	Longitude float64
	Latitude  float64
	// HasCoordinates is false when the feed supplied a malformed or
	// incomplete coordinate pair. Such events are excluded from
	// display output but remain valid for alerting.
	HasCoordinates bool
}

// AlertID returns the identifier used for dedup decisions,
// substituting the NoID sentinel for an absent id.
func (e SeismicEvent) AlertID() string {
	if e.ID == "" {
		return NoID
	}
	return e.ID
}

// Band is the coarse severity classification derived from magnitude.
type Band string

// Severity bands, ordered low to high.
const (
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
)

// FilterMode selects which events the display path returns.
// It never affects the alert/dedup path.
type FilterMode string

// Supported filter modes.
const (
	FilterAll        FilterMode = "all"
	FilterMagnitude5 FilterMode = "mag5"
	FilterLast24h    FilterMode = "24h"
)

// Alert is the payload handed to the notifier when the decision
// engine elects to alert.
type Alert struct {
	Title   string
	Message string
}
