package service

import (
	"context"
	"fmt"
	"strings"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/repository"
)

type ledgerService struct {
	commissionRepo repository.CommissionRepository
	withdrawalRepo repository.WithdrawalRepository
	minAmountCents int64
}

func NewLedgerService(commissionRepo repository.CommissionRepository, withdrawalRepo repository.WithdrawalRepository, minAmountCents int64) LedgerService {
	return &ledgerService{
		commissionRepo: commissionRepo,
		withdrawalRepo: withdrawalRepo,
		minAmountCents: minAmountCents,
	}
}

func (s *ledgerService) AvailableBalance(ctx context.Context, memberID int64) (int64, error) {
	earned, err := s.commissionRepo.TotalEarnedCents(ctx, memberID)
	if err != nil {
		return 0, err
	}
	outstanding, err := s.withdrawalRepo.OutstandingCents(ctx, memberID)
	if err != nil {
		return 0, err
	}
	return earned - outstanding, nil
}

func (s *ledgerService) CommissionHistory(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Commission, int32, error) {
	return s.commissionRepo.ListByEarner(ctx, memberID, page, pageSize)
}

func (s *ledgerService) RequestWithdrawal(ctx context.Context, memberID int64, amountCents int64, method, details string) (*domain.Withdrawal, error) {
	if amountCents <= 0 || amountCents < s.minAmountCents {
		return nil, domain.ErrInvalidAmount
	}
	w := &domain.Withdrawal{
		MemberID:    memberID,
		AmountCents: amountCents,
		Method:      strings.TrimSpace(method),
		Details:     strings.TrimSpace(details),
	}
	// The balance check happens inside the repository transaction, under a
	// lock on the member row, so concurrent requests cannot overspend.
	if err := s.withdrawalRepo.CreateWithBalanceGuard(ctx, w); err != nil {
		return nil, err
	}
	logger.Info("Withdrawal requested", "withdrawal_id", w.ID, "member_id", memberID, "amount_cents", amountCents)
	return w, nil
}

func (s *ledgerService) ProcessWithdrawal(ctx context.Context, requestID int64, decision domain.WithdrawalDecision, remark string) (*domain.Withdrawal, error) {
	var status domain.WithdrawalStatus
	switch decision {
	case domain.WithdrawalDecisionApprove:
		status = domain.WithdrawalStatusApproved
	case domain.WithdrawalDecisionReject:
		status = domain.WithdrawalStatusRejected
	default:
		return nil, fmt.Errorf("unknown withdrawal decision %q", decision)
	}
	if err := s.withdrawalRepo.Process(ctx, requestID, status, remark); err != nil {
		return nil, err
	}
	logger.Info("Withdrawal processed", "withdrawal_id", requestID, "status", status)
	return s.withdrawalRepo.GetByID(ctx, requestID)
}

func (s *ledgerService) ListWithdrawals(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	return s.withdrawalRepo.ListByMember(ctx, memberID, page, pageSize)
}
