package service

import (
	"context"
	"fmt"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/repository"
)

type repairService struct {
	ancestryRepo   repository.AncestryRepository
	commissionRepo repository.CommissionRepository
	commission     CommissionConfig
}

func NewRepairService(
	ancestryRepo repository.AncestryRepository,
	commissionRepo repository.CommissionRepository,
	commission CommissionConfig,
) RepairService {
	return &repairService{
		ancestryRepo:   ancestryRepo,
		commissionRepo: commissionRepo,
		commission:     commission,
	}
}

func (s *repairService) AuditClosure(ctx context.Context) (*domain.ClosureAuditReport, error) {
	dups, err := s.ancestryRepo.FindDuplicateEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for duplicate edges: %w", err)
	}
	missing, err := s.ancestryRepo.FindMissingSelfRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for missing self rows: %w", err)
	}
	report := &domain.ClosureAuditReport{DuplicateEdges: dups, MissingSelfRows: missing}
	if !report.Clean() {
		logger.Warn("Closure audit found anomalies",
			"duplicate_edges", len(report.DuplicateEdges),
			"missing_self_rows", len(report.MissingSelfRows))
	}
	return report, nil
}

func (s *repairService) RepairClosure(ctx context.Context) (*RepairResult, error) {
	dups, selfRows, err := s.ancestryRepo.RepairClosure(ctx)
	if err != nil {
		return nil, fmt.Errorf("closure repair failed: %w", err)
	}
	logger.Info("Closure repaired", "duplicates_removed", dups, "self_rows_added", selfRows)
	return &RepairResult{DuplicatesRemoved: dups, SelfRowsAdded: selfRows}, nil
}

// BackfillCommissions pays out completed orders that somehow missed the
// accept-delivery trigger. Each order runs in its own transaction with the
// same guards as the live path, so a re-run never double-pays.
func (s *repairService) BackfillCommissions(ctx context.Context) (int, error) {
	orderIDs, err := s.commissionRepo.CompletedOrdersWithoutCommissions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find orders missing commissions: %w", err)
	}

	backfilled := 0
	for _, orderID := range orderIDs {
		commissions, err := s.commissionRepo.BackfillForOrder(ctx, orderID, s.commission.DefaultRate, s.commission.MaxLevels)
		if err != nil {
			return backfilled, fmt.Errorf("backfill of order %d failed: %w", orderID, err)
		}
		logger.Info("Commissions backfilled", "order_id", orderID, "rows", len(commissions))
		backfilled++
	}
	return backfilled, nil
}
