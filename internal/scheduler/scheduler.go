package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"fleetrental-backend/internal/jobs"
	"fleetrental-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	if _, err := s.cron.AddFunc(cfg.ExpireStalePending, s.jobs.ExpireStalePending); err != nil {
		logger.Error("Failed to register ExpireStalePending job", "error", err)
	}
	if _, err := s.cron.AddFunc(cfg.FlagOverdueReservations, s.jobs.FlagOverdueReservations); err != nil {
		logger.Error("Failed to register FlagOverdueReservations job", "error", err)
	}
}

// Start begins the cron scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
