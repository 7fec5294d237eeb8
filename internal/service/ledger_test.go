package service

import (
	"context"
	"testing"

	"refnet-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLedgerService_AvailableBalance(t *testing.T) {
	ctx := context.Background()
	commissions := new(MockCommissionRepo)
	withdrawals := new(MockWithdrawalRepo)
	svc := NewLedgerService(commissions, withdrawals, 0)

	// 500 earned, 200 still pending: 300 available.
	commissions.On("TotalEarnedCents", ctx, int64(4)).Return(int64(500), nil)
	withdrawals.On("OutstandingCents", ctx, int64(4)).Return(int64(200), nil)

	balance, err := svc.AvailableBalance(ctx, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestLedgerService_RequestWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("NonPositiveAmount", func(t *testing.T) {
		svc := NewLedgerService(new(MockCommissionRepo), new(MockWithdrawalRepo), 0)
		_, err := svc.RequestWithdrawal(ctx, 4, 0, "bank", "acct 1")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("BelowMinimum", func(t *testing.T) {
		svc := NewLedgerService(new(MockCommissionRepo), new(MockWithdrawalRepo), 100)
		_, err := svc.RequestWithdrawal(ctx, 4, 50, "bank", "acct 1")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		withdrawals := new(MockWithdrawalRepo)
		svc := NewLedgerService(new(MockCommissionRepo), withdrawals, 0)

		withdrawals.On("CreateWithBalanceGuard", ctx, mock.AnythingOfType("*domain.Withdrawal")).
			Return(domain.ErrInsufficientBalance)

		_, err := svc.RequestWithdrawal(ctx, 4, 301, "bank", "acct 1")
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})

	t.Run("Success", func(t *testing.T) {
		withdrawals := new(MockWithdrawalRepo)
		svc := NewLedgerService(new(MockCommissionRepo), withdrawals, 0)

		withdrawals.On("CreateWithBalanceGuard", ctx, mock.AnythingOfType("*domain.Withdrawal")).Return(nil)

		w, err := svc.RequestWithdrawal(ctx, 4, 300, "bank", "acct 1")
		assert.NoError(t, err)
		assert.Equal(t, int64(300), w.AmountCents)
		assert.Equal(t, "bank", w.Method)
	})
}

func TestLedgerService_ProcessWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve", func(t *testing.T) {
		withdrawals := new(MockWithdrawalRepo)
		svc := NewLedgerService(new(MockCommissionRepo), withdrawals, 0)

		withdrawals.On("Process", ctx, int64(12), domain.WithdrawalStatusApproved, "ok").Return(nil)
		withdrawals.On("GetByID", ctx, int64(12)).Return(&domain.Withdrawal{ID: 12, Status: domain.WithdrawalStatusApproved}, nil)

		w, err := svc.ProcessWithdrawal(ctx, 12, domain.WithdrawalDecisionApprove, "ok")
		assert.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusApproved, w.Status)
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		withdrawals := new(MockWithdrawalRepo)
		svc := NewLedgerService(new(MockCommissionRepo), withdrawals, 0)

		withdrawals.On("Process", ctx, int64(12), domain.WithdrawalStatusRejected, "").Return(domain.ErrAlreadyProcessed)

		_, err := svc.ProcessWithdrawal(ctx, 12, domain.WithdrawalDecisionReject, "")
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	})

	t.Run("UnknownDecision", func(t *testing.T) {
		svc := NewLedgerService(new(MockCommissionRepo), new(MockWithdrawalRepo), 0)
		_, err := svc.ProcessWithdrawal(ctx, 12, "MAYBE", "")
		assert.Error(t, err)
	})
}
