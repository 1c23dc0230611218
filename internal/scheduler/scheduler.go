// Package scheduler runs crawl jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/newsradar/internal/logger"
)

// Job is a unit of scheduled work. Overlapping runs are the job's own
// concern; the dedup cache makes repeated runs cheap.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with logging and graceful shutdown.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Interface
}

// New creates an empty scheduler using the standard 5-field cron format.
func New(log logger.Interface) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.WithComponent("scheduler"),
	}
}

// Add registers a job under the given cron spec.
func (s *Scheduler) Add(ctx context.Context, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}

		s.log.Info("scheduled run starting", "spec", spec)
		if runErr := job(ctx); runErr != nil {
			s.log.Error("scheduled run failed", "error", runErr)
			return
		}
		s.log.Info("scheduled run finished")
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", spec, err)
	}

	return nil
}

// Start runs the scheduler until the context is cancelled, then waits for
// any in-flight job to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("scheduler started")
	s.cron.Start()

	<-ctx.Done()

	s.log.Info("scheduler stopping")
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
