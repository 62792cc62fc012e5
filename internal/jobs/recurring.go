package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/jasonlvhit/gocron"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/platform/config"
)

// RecurringJob drives the daily materialization of due recurring templates.
type RecurringJob struct {
	recurringSvc portssvc.RecurringSvcFacade
	logger       *slog.Logger
	userID       string
	runAt        string
}

// NewRecurringJob builds the scheduler wrapper around the recurring service.
func NewRecurringJob(cfg *config.Config, recurringSvc portssvc.RecurringSvcFacade, logger *slog.Logger) *RecurringJob {
	return &RecurringJob{
		recurringSvc: recurringSvc,
		logger:       logger.With(slog.String("job", "recurring_entries")),
		userID:       cfg.RecurringJobUserID,
		runAt:        cfg.RecurringJobTime,
	}
}

// Start schedules the daily run and blocks; call it from its own goroutine.
func (j *RecurringJob) Start() {
	s := gocron.NewScheduler()
	if err := s.Every(1).Day().At(j.runAt).Do(j.run); err != nil {
		j.logger.Error("Failed to schedule recurring job", slog.String("error", err.Error()))
		return
	}
	j.logger.Info("Recurring job scheduled", slog.String("run_at", j.runAt))
	<-s.Start()
}

func (j *RecurringJob) run() {
	ctx := middleware.WithLogger(context.Background(), j.logger)

	created, err := j.recurringSvc.RunDue(ctx, time.Now().UTC(), j.userID)
	if err != nil {
		j.logger.Error("Recurring run failed", slog.String("error", err.Error()), slog.Int("entries_created", created))
		return
	}
	j.logger.Info("Recurring run finished", slog.Int("entries_created", created))
}
