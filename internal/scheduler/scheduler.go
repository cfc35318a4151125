// Package scheduler drives the periodic poll cycle: fetch, decide,
// persist. One logical poller, one in-flight cycle at a time.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sethvargo/go-retry"

	"quakewatch/internal/model"
	"quakewatch/internal/observability"
)

// Outcome classifies one poll trigger.
type Outcome string

// Trigger outcomes. Every error path is retryable; there is no
// unrecoverable state at this layer, so a fatal outcome does not
// exist.
const (
	// OutcomeSuccess means a decision was reached, alert or not.
	OutcomeSuccess Outcome = "success"
	// OutcomeRetry means the cycle kept failing transiently through
	// the whole backoff window; the next full period will try again.
	OutcomeRetry Outcome = "retry"
	// OutcomeSkipped means the trigger fired while a cycle was still
	// in flight and was coalesced, not queued.
	OutcomeSkipped Outcome = "skipped"
)

// Fetcher fetches the current feed snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.SeismicEvent, error)
}

// DecisionEngine runs the alert decision for one snapshot.
type DecisionEngine interface {
	Process(ctx context.Context, events []model.SeismicEvent) (bool, error)
}

// Poller periodically fetches the feed and feeds the decision engine.
type Poller struct {
	feed    Fetcher
	engine  DecisionEngine
	log     *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	interval      time.Duration
	retryBase     time.Duration
	retryAttempts uint64

	inFlight atomic.Bool
	ready    atomic.Bool
}

// New creates a Poller with the default 15-minute period and the real
// clock.
func New(feed Fetcher, engine DecisionEngine, log *slog.Logger, metrics *observability.Metrics) *Poller {
	return &Poller{
		feed:          feed,
		engine:        engine,
		log:           log,
		metrics:       metrics,
		clock:         clockwork.NewRealClock(),
		interval:      15 * time.Minute,
		retryBase:     30 * time.Second,
		retryAttempts: 3,
	}
}

// SetInterval overrides the default poll period.
func (p *Poller) SetInterval(d time.Duration) {
	p.interval = d
}

// SetRetryPolicy overrides the backoff window for transient failures.
func (p *Poller) SetRetryPolicy(base time.Duration, attempts uint64) {
	p.retryBase = base
	p.retryAttempts = attempts
}

// SetClock swaps the time source, for tests.
func (p *Poller) SetClock(c clockwork.Clock) {
	p.clock = c
}

// CheckReadiness returns nil once at least one poll cycle has reached
// a decision.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no poll cycle has completed yet")
	}
	return nil
}

// Run starts the poll loop, blocking until ctx is cancelled. The
// first cycle runs immediately.
func (p *Poller) Run(ctx context.Context) {
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	p.Trigger(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			p.Trigger(ctx)
		}
	}
}

// Trigger runs one poll cycle, retrying transient failures within a
// bounded exponential-backoff window. A trigger that fires while a
// cycle is still in flight is dropped; cycles are idempotent, so a
// missed trigger is harmless.
func (p *Poller) Trigger(ctx context.Context) Outcome {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.log.Debug("poll trigger coalesced, cycle already in flight")
		return OutcomeSkipped
	}
	defer p.inFlight.Store(false)

	backoff := retry.WithMaxRetries(p.retryAttempts, retry.NewExponential(p.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := p.cycle(ctx); err != nil {
			p.log.Warn("poll cycle failed, will retry", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			p.log.Error("poll cycle exhausted retry window", "error", err)
		}
		p.metrics.PollCycles.WithLabelValues(string(OutcomeRetry)).Inc()
		return OutcomeRetry
	}

	p.metrics.PollCycles.WithLabelValues(string(OutcomeSuccess)).Inc()
	return OutcomeSuccess
}

func (p *Poller) cycle(ctx context.Context) error {
	start := p.clock.Now()
	events, err := p.feed.Fetch(ctx)
	p.metrics.FetchDuration.Observe(p.clock.Since(start).Seconds())
	if err != nil {
		return err
	}
	p.metrics.EventsFetched.Observe(float64(len(events)))

	if len(events) > 0 {
		// The feed is assumed most-recent-first but does not
		// guarantee it; logging the candidate keeps a mis-ordered
		// feed visible.
		p.log.Debug("poll snapshot",
			"events", len(events),
			"candidate_id", events[0].AlertID(),
			"candidate_magnitude", events[0].Magnitude,
		)
	}

	if _, err := p.engine.Process(ctx, events); err != nil {
		return err
	}

	p.ready.Store(true)
	return nil
}
