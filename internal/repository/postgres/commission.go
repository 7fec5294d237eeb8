package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/repository"
)

type commissionRepository struct {
	db *sql.DB
}

func NewCommissionRepository(db *sql.DB) repository.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM commissions WHERE order_id = $1)`
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(&exists)
	return exists, err
}

func (r *commissionRepository) ListByEarner(ctx context.Context, earnerID int64, page, pageSize int32) ([]domain.Commission, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, earner_id, source_id, order_id, amount_cents, level, status, created_on
	          FROM commissions WHERE earner_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, earnerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		var c domain.Commission
		var createdOn time.Time
		if err := rows.Scan(&c.ID, &c.EarnerID, &c.SourceID, &c.OrderID, &c.AmountCents, &c.Level, &c.Status, &createdOn); err != nil {
			return nil, 0, err
		}
		c.CreatedOn = createdOn.Format("2006-01-02")
		commissions = append(commissions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM commissions WHERE earner_id = $1`, earnerID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return commissions, count, nil
}

func (r *commissionRepository) TotalEarnedCents(ctx context.Context, memberID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM commissions WHERE earner_id = $1`
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&total)
	return total, err
}

func (r *commissionRepository) CompletedOrdersWithoutCommissions(ctx context.Context) ([]int64, error) {
	query := `SELECT o.id FROM orders o
	          WHERE o.status = $1
	            AND NOT EXISTS (SELECT 1 FROM commissions c WHERE c.order_id = o.id)
	          ORDER BY o.id`
	rows, err := r.db.QueryContext(ctx, query, domain.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// BackfillForOrder re-runs distribution for a completed order that missed
// its payout. Orders that already have commission rows are skipped, so the
// utility can be re-run safely.
func (r *commissionRepository) BackfillForOrder(ctx context.Context, orderID int64, defaultRate float64, maxLevels int32) ([]domain.Commission, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var buyerID, totalCents int64
	var status domain.OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT buyer_id, total_cents, status FROM orders WHERE id = $1 FOR UPDATE`, orderID).
		Scan(&buyerID, &totalCents, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if status != domain.OrderStatusCompleted {
		return nil, domain.ErrInvalidTransition
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM commissions WHERE order_id = $1)`, orderID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	rate, err := payoutRate(ctx, tx, orderID, defaultRate)
	if err != nil {
		return nil, err
	}
	commissions, err := distributeCommissions(ctx, tx, orderID, buyerID, totalCents, rate, maxLevels)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return commissions, nil
}
