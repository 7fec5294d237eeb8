package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"refnet-backend/internal/jobs"
	"refnet-backend/internal/logger"
)

// Scheduler runs the nightly closure audit on a cron schedule. The write
// paths (repair, backfill) stay operator-invoked and are never scheduled.
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

	_, err := s.cron.AddFunc(cfg.ClosureAudit, s.jobs.AuditClosure)
	if err != nil {
		logger.Error("Failed to register AuditClosure job", "error", err)
		return
	}
	logger.Info("Closure audit scheduled", "cron", cfg.ClosureAudit)
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}
