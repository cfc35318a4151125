// Package alert implements the per-cycle alert decision engine.
package alert

import (
	"context"
	"fmt"
	"log/slog"

	"quakewatch/internal/classify"
	"quakewatch/internal/model"
	"quakewatch/internal/notify"
	"quakewatch/internal/observability"
	"quakewatch/internal/storage"
)

// AlertThreshold is the minimum magnitude that qualifies for an
// alert. The display filter shares the same value; the server-side
// feed pre-filter sits below it.
const AlertThreshold = classify.AlertMagnitude

// Engine combines a fetched snapshot with the persisted checkpoint to
// decide whether to emit an alert.
type Engine struct {
	store    storage.Storage
	notifier notify.Notifier
	log      *slog.Logger
	metrics  *observability.Metrics
}

// New creates an Engine.
func New(store storage.Storage, notifier notify.Notifier, log *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		log:      log,
		metrics:  metrics,
	}
}

// Process runs the alert decision for one snapshot and returns whether
// an alert was emitted.
//
// Only the first event of the snapshot is eligible: the feed reports
// most-recent-first, and a cycle alerts on at most one event. Later
// qualifying events in the same snapshot are intentionally ignored; a
// deliberate limitation, not a bug to fix silently.
//
// The decision rule: alert iff the candidate's id (absent ids
// normalize to model.NoID) differs from the checkpoint and its
// magnitude is at or above the alert threshold. On alert the
// checkpoint is written after the emit call, so a crash between
// decision and emission never swallows an alert.
func (e *Engine) Process(ctx context.Context, events []model.SeismicEvent) (bool, error) {
	if len(events) == 0 {
		return false, nil
	}

	candidate := events[0]
	id := candidate.AlertID()

	lastID, err := e.store.LastAlertID(ctx)
	if err != nil {
		return false, fmt.Errorf("read checkpoint: %w", err)
	}

	if id == lastID {
		e.log.Debug("candidate already alerted", "id", id)
		return false, nil
	}
	if candidate.Magnitude < AlertThreshold {
		e.log.Debug("candidate below alert threshold", "id", id, "magnitude", candidate.Magnitude)
		return false, nil
	}

	payload := notify.FormatAlert(candidate)
	e.notifier.Emit(payload.Title, payload.Message)
	e.metrics.AlertsEmitted.Inc()
	e.log.Info("alert emitted",
		"id", id,
		"magnitude", candidate.Magnitude,
		"place", candidate.Place,
	)

	if err := e.store.SetLastAlertID(ctx, id); err != nil {
		// The alert is already out; a failed write means the next
		// cycle may alert on the same event again. Nothing to recover
		// locally, but this must not drown in routine noise.
		e.metrics.CheckpointWriteFailures.Inc()
		e.log.Error("checkpoint write failed after alert, duplicate alert possible",
			"id", id, "error", err)
	}

	return true, nil
}
