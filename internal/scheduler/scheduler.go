package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MaintenanceRunner is the daily sweep the scheduler drives.
type MaintenanceRunner interface {
	RunDaily(ctx context.Context) error
}

// Retrier retries a failing run on transient errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Scheduler fires the maintenance sweep on a fixed interval. The sweep is
// idempotent per day, so overlapping or repeated runs are harmless.
type Scheduler struct {
	maintenance MaintenanceRunner
	retrier     Retrier
	interval    time.Duration
	runOnStart  bool
	logger      zerolog.Logger
}

// New creates a Scheduler. A nil retrier means failed runs wait for the
// next tick instead of retrying.
func New(
	maintenance MaintenanceRunner,
	retrier Retrier,
	interval time.Duration,
	runOnStart bool,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		maintenance: maintenance,
		retrier:     retrier,
		interval:    interval,
		runOnStart:  runOnStart,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled, firing the sweep every interval.
func (s *Scheduler) Run(ctx context.Context) {
	if s.runOnStart {
		s.fire(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	start := time.Now()

	run := func() error { return s.maintenance.RunDaily(ctx) }

	var err error
	if s.retrier != nil {
		err = s.retrier.Retry(ctx, run)
	} else {
		err = run()
	}

	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled maintenance run failed")
		return
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("scheduled maintenance run completed")
}
