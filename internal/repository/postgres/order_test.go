package postgres

import (
	"context"
	"testing"
	"time"

	"refnet-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)

	o := &domain.Order{
		BuyerID:      4,
		TotalCents:   2500,
		Status:       domain.OrderStatusPending,
		ReferralCode: "REFALICE0001",
		Items: []domain.OrderItem{
			{ProductID: 10, Quantity: 2, UnitPriceCents: 1000},
			{ProductID: 11, Quantity: 1, UnitPriceCents: 500},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(int64(4), int64(2500), domain.OrderStatusPending, "REFALICE0001", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(77), int64(10), int32(2), int64(1000)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(201))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(77), int64(11), int32(1), int64(500)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(202))
	mock.ExpectCommit()

	err = repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.Equal(t, int64(77), o.ID)
	assert.Equal(t, int64(77), o.Items[0].OrderID)
	assert.Equal(t, int64(201), o.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Transition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Applies", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1, updated_on = \$2 WHERE id = \$3 AND status = \$4`).
			WithArgs(domain.OrderStatusDeliveryPending, sqlmock.AnyArg(), int64(77), domain.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Transition(ctx, 77, domain.OrderStatusPending, domain.OrderStatusDeliveryPending)
		assert.NoError(t, err)
	})

	t.Run("WrongState", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status`).
			WithArgs(domain.OrderStatusDeliveryPending, sqlmock.AnyArg(), int64(77), domain.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM orders WHERE id = \$1\)`).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.Transition(ctx, 77, domain.OrderStatusPending, domain.OrderStatusDeliveryPending)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status`).
			WithArgs(domain.OrderStatusDeliveryPending, sqlmock.AnyArg(), int64(404), domain.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM orders WHERE id = \$1\)`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := repo.Transition(ctx, 404, domain.OrderStatusPending, domain.OrderStatusDeliveryPending)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestOrderRepository_AcceptDelivery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()

	lockQuery := `SELECT buyer_id, total_cents, status, COALESCE\(referral_code, ''\), created_on FROM orders WHERE id = \$1 FOR UPDATE`

	t.Run("PaysEveryLevel", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"buyer_id", "total_cents", "status", "referral_code", "created_on"}).
				AddRow(4, 1000, domain.OrderStatusDeliveryPending, "", time.Now()))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM commissions WHERE order_id = \$1\)`).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`SELECT p\.commission_rate`).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"commission_rate"}).AddRow(0.05))

		// 1000 cents at 5% pays 50 cents to each of the ten ancestors.
		commissionRows := sqlmock.NewRows([]string{"id", "earner_id", "source_id", "order_id", "amount_cents", "level", "status"})
		for level := int32(1); level <= 10; level++ {
			commissionRows.AddRow(int64(500+level), int64(level), int64(4), int64(77), int64(50), level, domain.CommissionStatusPaid)
		}
		mock.ExpectQuery(`INSERT INTO commissions`).
			WithArgs(int64(4), int64(77), int64(50), domain.CommissionStatusPaid, sqlmock.AnyArg(), int32(10), domain.MemberRoleAdmin).
			WillReturnRows(commissionRows)
		mock.ExpectExec(`UPDATE orders SET status = \$1, updated_on = \$2 WHERE id = \$3`).
			WithArgs(domain.OrderStatusCompleted, sqlmock.AnyArg(), int64(77)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		order, commissions, err := repo.AcceptDelivery(ctx, 77, 4, 0.002, 10)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
		assert.Len(t, commissions, 10)
		for i, c := range commissions {
			assert.Equal(t, int64(50), c.AmountCents)
			assert.Equal(t, int32(i+1), c.Level)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondAcceptRejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"buyer_id", "total_cents", "status", "referral_code", "created_on"}).
				AddRow(4, 1000, domain.OrderStatusCompleted, "", time.Now()))
		mock.ExpectRollback()

		_, _, err := repo.AcceptDelivery(ctx, 77, 4, 0.002, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CommissionsAlreadyWritten", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"buyer_id", "total_cents", "status", "referral_code", "created_on"}).
				AddRow(4, 1000, domain.OrderStatusDeliveryPending, "", time.Now()))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM commissions WHERE order_id = \$1\)`).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, _, err := repo.AcceptDelivery(ctx, 77, 4, 0.002, 10)
		assert.ErrorIs(t, err, domain.ErrCommissionExists)
	})

	t.Run("NotTheBuyer", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"buyer_id", "total_cents", "status", "referral_code", "created_on"}).
				AddRow(4, 1000, domain.OrderStatusDeliveryPending, "", time.Now()))
		mock.ExpectRollback()

		_, _, err := repo.AcceptDelivery(ctx, 77, 8, 0.002, 10)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("DefaultRateWhenUnset", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(78)).
			WillReturnRows(sqlmock.NewRows([]string{"buyer_id", "total_cents", "status", "referral_code", "created_on"}).
				AddRow(4, 100000, domain.OrderStatusDeliveryPending, "", time.Now()))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM commissions`).
			WithArgs(int64(78)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`SELECT p\.commission_rate`).
			WithArgs(int64(78)).
			WillReturnRows(sqlmock.NewRows([]string{"commission_rate"}).AddRow(0.0))

		// 100000 cents at the 0.002 default pays 200 cents per ancestor.
		mock.ExpectQuery(`INSERT INTO commissions`).
			WithArgs(int64(4), int64(78), int64(200), domain.CommissionStatusPaid, sqlmock.AnyArg(), int32(10), domain.MemberRoleAdmin).
			WillReturnRows(sqlmock.NewRows([]string{"id", "earner_id", "source_id", "order_id", "amount_cents", "level", "status"}).
				AddRow(601, 3, 4, 78, 200, 1, domain.CommissionStatusPaid))
		mock.ExpectExec(`UPDATE orders SET status`).
			WithArgs(domain.OrderStatusCompleted, sqlmock.AnyArg(), int64(78)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		_, commissions, err := repo.AcceptDelivery(ctx, 78, 4, 0.002, 10)
		assert.NoError(t, err)
		assert.Len(t, commissions, 1)
		assert.Equal(t, int64(200), commissions[0].AmountCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
