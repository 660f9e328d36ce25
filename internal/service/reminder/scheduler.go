package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the digest on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// Schedule registers svc.Run on spec (standard five-field cron syntax).
// Each run uses ctx and the wall-clock date at the moment it fires.
func Schedule(ctx context.Context, logger *slog.Logger, svc *Service, spec string) (*Scheduler, error) {
	log := logger.With("component", "reminder_scheduler")
	c := cron.New(cron.WithLogger(cron.DiscardLogger))

	_, err := c.AddFunc(spec, func() {
		if _, err := svc.Run(ctx, time.Now()); err != nil {
			log.ErrorContext(ctx, "scheduled reminders", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reminder.Schedule: parse %q: %w", spec, err)
	}

	c.Start()
	log.Info("reminder schedule started", slog.String("schedule", spec))
	return &Scheduler{cron: c, log: log}, nil
}

// Stop stops the schedule and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("reminder job still running at shutdown")
	}
}
