package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/logger"
)

// DefaultInterval is the time between two triggers.
const DefaultInterval = 10 * time.Second

// ErrNotStarted is returned by Shutdown before Start.
var ErrNotStarted = errors.New("trigger source is not started")

// Source publishes soil.Trigger on a schedule.
type Source struct {
	channel        *bus.Channel[soil.Trigger]
	interval       time.Duration
	publishTimeout time.Duration
	scheduler      gocron.Scheduler
}

// New creates a source for ch. A non-positive interval means DefaultInterval.
func New(ch *bus.Channel[soil.Trigger], interval, publishTimeout time.Duration) *Source {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Source{
		channel:        ch,
		interval:       interval,
		publishTimeout: publishTimeout,
	}
}

// Start schedules the trigger job. A tick that is still publishing when the
// next one is due is rescheduled instead of piling up.
func (s *Source) Start(ctx context.Context) error {
	ctx = logger.WithName(ctx, "trigger")

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			//nolint:errcheck // Fire logs the dropped tick itself.
			_ = s.Fire(ctx)
		}),
		gocron.WithName("soil-trigger"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		//nolint:errcheck // The job error is the one worth reporting.
		_ = scheduler.Shutdown()

		return fmt.Errorf("schedule trigger job: %w", err)
	}

	s.scheduler = scheduler
	scheduler.Start()

	logger.InfoKV(ctx, "Trigger source started", "interval", s.interval)

	return nil
}

// Fire publishes one trigger. A failed publish drops the tick with a warning.
func (s *Source) Fire(ctx context.Context) error {
	if err := s.channel.Publish(ctx, soil.Trigger{}, s.publishTimeout); err != nil {
		logger.WarnKV(ctx, "Trigger dropped", "error", err)

		return fmt.Errorf("fire trigger: %w", err)
	}

	return nil
}

// Shutdown stops the schedule and waits for a running tick.
func (s *Source) Shutdown() error {
	if s.scheduler == nil {
		return ErrNotStarted
	}

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}

	return nil
}
