package jobs

import (
	"context"

	"refnet-backend/internal/config"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/service"
)

// JobRunner coordinates the maintenance jobs. All of them are one-shot,
// operator-invoked passes; only the read-only closure audit is wired to a
// schedule.
type JobRunner struct {
	repair service.RepairService
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repair service.RepairService, cfg *config.Config) *JobRunner {
	return &JobRunner{repair: repair, config: cfg}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// AuditClosure runs the read-only closure audit and logs its findings.
func (jr *JobRunner) AuditClosure() {
	jr.runWithRecovery("audit-closure", func() {
		report, err := jr.repair.AuditClosure(context.Background())
		if err != nil {
			logger.Error("Closure audit failed", "error", err)
			return
		}
		if report.Clean() {
			logger.Info("Closure audit clean")
			return
		}
		for _, e := range report.DuplicateEdges {
			logger.Warn("Duplicate closure edge", "ancestor_id", e.AncestorID, "descendant_id", e.DescendantID, "depth", e.Depth)
		}
		for _, id := range report.MissingSelfRows {
			logger.Warn("Member missing closure self row", "member_id", id)
		}
	})
}

// RepairClosure deduplicates closure rows and restores missing self rows.
func (jr *JobRunner) RepairClosure() {
	jr.runWithRecovery("repair-closure", func() {
		result, err := jr.repair.RepairClosure(context.Background())
		if err != nil {
			logger.Error("Closure repair failed", "error", err)
			return
		}
		logger.Info("Closure repair finished",
			"duplicates_removed", result.DuplicatesRemoved,
			"self_rows_added", result.SelfRowsAdded)
	})
}

// BackfillCommissions pays out completed orders that have no commissions.
func (jr *JobRunner) BackfillCommissions() {
	jr.runWithRecovery("backfill-commissions", func() {
		backfilled, err := jr.repair.BackfillCommissions(context.Background())
		if err != nil {
			logger.Error("Commission backfill failed", "error", err, "orders_backfilled", backfilled)
			return
		}
		logger.Info("Commission backfill finished", "orders_backfilled", backfilled)
	})
}
