package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (buyer_id, total_cents, status, referral_code, cancel_reason, reject_reason, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, NULL, NULL, $5, $5) RETURNING id`
	now := time.Now()
	o.CreatedOn = now.Format("2006-01-02")
	o.UpdatedOn = o.CreatedOn
	if err := tx.QueryRowContext(ctx, query, o.BuyerID, o.TotalCents, o.Status, nullable(o.ReferralCode), now).Scan(&o.ID); err != nil {
		return err
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents)
	              VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		if err := tx.QueryRowContext(ctx, itemQuery, o.ID, item.ProductID, item.Quantity, item.UnitPriceCents).Scan(&item.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o := &domain.Order{}
	var createdOn, updatedOn time.Time
	query := `SELECT id, buyer_id, total_cents, status, COALESCE(referral_code, ''), COALESCE(cancel_reason, ''), COALESCE(reject_reason, ''), created_on, updated_on
	          FROM orders WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.BuyerID, &o.TotalCents, &o.Status, &o.ReferralCode, &o.CancelReason, &o.RejectReason, &createdOn, &updatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.CreatedOn = createdOn.Format("2006-01-02")
	o.UpdatedOn = updatedOn.Format("2006-01-02")

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price_cents FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int64, page, pageSize int32) ([]domain.Order, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, buyer_id, total_cents, status, COALESCE(referral_code, ''), COALESCE(cancel_reason, ''), COALESCE(reject_reason, ''), created_on, updated_on
	          FROM orders WHERE buyer_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, buyerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var createdOn, updatedOn time.Time
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.TotalCents, &o.Status, &o.ReferralCode, &o.CancelReason, &o.RejectReason, &createdOn, &updatedOn); err != nil {
			return nil, 0, err
		}
		o.CreatedOn = createdOn.Format("2006-01-02")
		o.UpdatedOn = updatedOn.Format("2006-01-02")
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM orders WHERE buyer_id = $1`, buyerID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

// guarded resolves a zero-row status update into NotFound vs InvalidTransition.
func (r *orderRepository) guarded(ctx context.Context, res sql.Result, id int64) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidTransition
}

func (r *orderRepository) Transition(ctx context.Context, id int64, from, to domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`,
		to, time.Now(), id, from)
	if err != nil {
		return err
	}
	return r.guarded(ctx, res, id)
}

func (r *orderRepository) Cancel(ctx context.Context, id int64, from domain.OrderStatus, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, cancel_reason = $2, updated_on = $3 WHERE id = $4 AND status = $5`,
		domain.OrderStatusCancelled, nullable(reason), time.Now(), id, from)
	if err != nil {
		return err
	}
	return r.guarded(ctx, res, id)
}

func (r *orderRepository) RequestCancellation(ctx context.Context, id int64, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, cancel_reason = $2, updated_on = $3 WHERE id = $4 AND status = $5`,
		domain.OrderStatusCancellationRequested, reason, time.Now(), id, domain.OrderStatusDeliveryPending)
	if err != nil {
		return err
	}
	return r.guarded(ctx, res, id)
}

func (r *orderRepository) RejectCancellation(ctx context.Context, id int64, rejectReason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, reject_reason = $2, updated_on = $3 WHERE id = $4 AND status = $5`,
		domain.OrderStatusDeliveryPending, rejectReason, time.Now(), id, domain.OrderStatusCancellationRequested)
	if err != nil {
		return err
	}
	return r.guarded(ctx, res, id)
}

// AcceptDelivery is the commission trigger. The order row is locked first so
// concurrent accepts on the same order serialize; the loser of the race sees
// status COMPLETED and gets ErrInvalidTransition. Commission rows and the
// status flip commit together or not at all.
func (r *orderRepository) AcceptDelivery(ctx context.Context, id, buyerID int64, defaultRate float64, maxLevels int32) (*domain.Order, []domain.Commission, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	o := &domain.Order{ID: id}
	var createdOn time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT buyer_id, total_cents, status, COALESCE(referral_code, ''), created_on FROM orders WHERE id = $1 FOR UPDATE`, id).
		Scan(&o.BuyerID, &o.TotalCents, &o.Status, &o.ReferralCode, &createdOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	o.CreatedOn = createdOn.Format("2006-01-02")

	if o.BuyerID != buyerID {
		return nil, nil, domain.ErrForbidden
	}
	if o.Status != domain.OrderStatusDeliveryPending {
		return nil, nil, domain.ErrInvalidTransition
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM commissions WHERE order_id = $1)`, id).Scan(&exists); err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, domain.ErrCommissionExists
	}

	rate, err := payoutRate(ctx, tx, id, defaultRate)
	if err != nil {
		return nil, nil, err
	}

	commissions, err := distributeCommissions(ctx, tx, id, o.BuyerID, o.TotalCents, rate, maxLevels)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_on = $2 WHERE id = $3`,
		domain.OrderStatusCompleted, now, id); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	o.Status = domain.OrderStatusCompleted
	o.UpdatedOn = now.Format("2006-01-02")
	return o, commissions, nil
}

// payoutRate reads the commission rate off the first line item's product;
// an unset or non-positive rate falls back to the system default. The one
// rate applies to the whole order total.
func payoutRate(ctx context.Context, tx *sql.Tx, orderID int64, defaultRate float64) (float64, error) {
	var rate float64
	err := tx.QueryRowContext(ctx, `
		SELECT p.commission_rate
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
		LIMIT 1`, orderID).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultRate, nil
		}
		return 0, err
	}
	if rate <= 0 {
		return defaultRate, nil
	}
	return rate, nil
}

// distributeCommissions pays every non-admin ancestor within maxLevels the
// same amount in one bulk insert. An order with no qualifying ancestors
// writes zero rows, which is fine.
func distributeCommissions(ctx context.Context, tx *sql.Tx, orderID, buyerID, totalCents int64, rate float64, maxLevels int32) ([]domain.Commission, error) {
	amount := int64(math.Round(float64(totalCents) * rate))
	now := time.Now()
	rows, err := tx.QueryContext(ctx, `
		INSERT INTO commissions (earner_id, source_id, order_id, amount_cents, level, status, created_on)
		SELECT rc.ancestor_id, $1, $2, $3, rc.depth, $4, $5
		FROM referral_closure rc
		JOIN members m ON m.id = rc.ancestor_id
		WHERE rc.descendant_id = $1 AND rc.depth BETWEEN 1 AND $6 AND m.role <> $7
		RETURNING id, earner_id, source_id, order_id, amount_cents, level, status`,
		buyerID, orderID, amount, domain.CommissionStatusPaid, now, maxLevels, domain.MemberRoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		var c domain.Commission
		if err := rows.Scan(&c.ID, &c.EarnerID, &c.SourceID, &c.OrderID, &c.AmountCents, &c.Level, &c.Status); err != nil {
			return nil, err
		}
		c.CreatedOn = now.Format("2006-01-02")
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}
