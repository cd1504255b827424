// Package scheduler runs the periodic ingestion and notification triggers in
// process, so the service does not depend on an external cron.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Task is one periodic job. When Immediate is set the task also runs once at
// startup before the first tick.
type Task struct {
	Name      string
	Every     time.Duration
	Immediate bool
	Run       func(ctx context.Context) error
}

// Scheduler ticks each task on its own interval. Tasks run sequentially
// within their own loop; overlapping triggers across processes are handled by
// the services' run locks, not here.
type Scheduler struct {
	tasks  []Task
	logger zerolog.Logger
}

func New(logger zerolog.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{tasks: tasks, logger: logger}
}

// Start launches one loop per task. Loops stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, t := range s.tasks {
		go s.loop(ctx, t)
	}
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	s.logger.Info().Str("task", t.Name).Dur("every", t.Every).Msg("scheduling task")

	if t.Immediate {
		s.runOnce(ctx, t)
	}

	ticker := time.NewTicker(t.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str("task", t.Name).Msg("stopping task")
			return
		case <-ticker.C:
			s.runOnce(ctx, t)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, t Task) {
	start := time.Now()
	if err := t.Run(ctx); err != nil {
		s.logger.Error().Err(err).Str("task", t.Name).Msg("scheduled run failed")
		return
	}
	s.logger.Info().Str("task", t.Name).Dur("took", time.Since(start)).Msg("scheduled run completed")
}
