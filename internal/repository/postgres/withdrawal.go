package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/repository"
)

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

// CreateWithBalanceGuard serializes withdrawal requests per member: the
// member row is locked before the balance aggregate is read, so two
// concurrent requests cannot both observe the same unspent balance.
func (r *withdrawalRepository) CreateWithBalanceGuard(ctx context.Context, w *domain.Withdrawal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var memberID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM members WHERE id = $1 FOR UPDATE`, w.MemberID).Scan(&memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var available int64
	err = tx.QueryRowContext(ctx, `
		SELECT (SELECT COALESCE(SUM(amount_cents), 0) FROM commissions WHERE earner_id = $1)
		     - (SELECT COALESCE(SUM(amount_cents), 0) FROM withdrawals WHERE member_id = $1 AND status IN ($2, $3))`,
		w.MemberID, domain.WithdrawalStatusPending, domain.WithdrawalStatusApproved).Scan(&available)
	if err != nil {
		return err
	}
	if w.AmountCents > available {
		return domain.ErrInsufficientBalance
	}

	now := time.Now()
	w.Status = domain.WithdrawalStatusPending
	w.CreatedOn = now.Format("2006-01-02")
	w.UpdatedOn = w.CreatedOn
	err = tx.QueryRowContext(ctx, `
		INSERT INTO withdrawals (member_id, amount_cents, method, details, status, remark, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, NULL, $6, $6) RETURNING id`,
		w.MemberID, w.AmountCents, w.Method, w.Details, w.Status, now).Scan(&w.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	w := &domain.Withdrawal{}
	var createdOn, updatedOn time.Time
	query := `SELECT id, member_id, amount_cents, method, details, status, COALESCE(remark, ''), created_on, updated_on
	          FROM withdrawals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.MemberID, &w.AmountCents, &w.Method, &w.Details, &w.Status, &w.Remark, &createdOn, &updatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	w.CreatedOn = createdOn.Format("2006-01-02")
	w.UpdatedOn = updatedOn.Format("2006-01-02")
	return w, nil
}

// Process flips a pending request to its terminal status. The status guard
// in the UPDATE makes re-processing impossible; a zero-row update on an
// existing request means it was already decided.
func (r *withdrawalRepository) Process(ctx context.Context, id int64, status domain.WithdrawalStatus, remark string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE withdrawals SET status = $1, remark = $2, updated_on = $3 WHERE id = $4 AND status = $5`,
		status, nullable(remark), time.Now(), id, domain.WithdrawalStatusPending)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM withdrawals WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrAlreadyProcessed
}

func (r *withdrawalRepository) ListByMember(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, member_id, amount_cents, method, details, status, COALESCE(remark, ''), created_on, updated_on
	          FROM withdrawals WHERE member_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, memberID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		var createdOn, updatedOn time.Time
		if err := rows.Scan(&w.ID, &w.MemberID, &w.AmountCents, &w.Method, &w.Details, &w.Status, &w.Remark, &createdOn, &updatedOn); err != nil {
			return nil, 0, err
		}
		w.CreatedOn = createdOn.Format("2006-01-02")
		w.UpdatedOn = updatedOn.Format("2006-01-02")
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM withdrawals WHERE member_id = $1`, memberID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return withdrawals, count, nil
}

func (r *withdrawalRepository) OutstandingCents(ctx context.Context, memberID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM withdrawals WHERE member_id = $1 AND status IN ($2, $3)`
	err := r.db.QueryRowContext(ctx, query, memberID, domain.WithdrawalStatusPending, domain.WithdrawalStatusApproved).Scan(&total)
	return total, err
}
