package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/gittles17/newshooks/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case for daemon
// mode. Single-run invocation stays the primary contract; this is an
// in-process convenience for deployments without an external scheduler.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler driver.
func (s *Scheduler) Start(ctx context.Context) error {
	job := func(trigger time.Time) {
		report, err := s.pipeline.Run(ctx, trigger)
		if err != nil {
			s.logger.Error("scheduled run failed", "error", err)
			return
		}
		s.logger.Info("scheduled run finished",
			"outcome", string(report.Outcome),
			"inserted", report.Stats.Inserted)
	}

	return s.driver.Start(ctx, job)
}

// Stop tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	return s.driver.Stop(ctx)
}
