package service

import (
	"context"
	"testing"

	"refnet-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testCommission = CommissionConfig{DefaultRate: 0.002, MaxLevels: 10}

func newOrderTestService() (*MockOrderRepo, *MockProductRepo, *MockMemberRepo, OrderService) {
	orders := new(MockOrderRepo)
	products := new(MockProductRepo)
	members := new(MockMemberRepo)
	svc := NewOrderService(orders, products, members, testCommission)
	return orders, products, members, svc
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("ComputesTotalServerSide", func(t *testing.T) {
		orders, products, members, svc := newOrderTestService()

		members.On("GetByID", ctx, int64(2)).Return(&domain.Member{ID: 2}, nil)
		products.On("GetByIDs", ctx, []int64{10, 11}).Return(map[int64]domain.Product{
			10: {ID: 10, PriceCents: 2500},
			11: {ID: 11, PriceCents: 400},
		}, nil)
		orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)

		order, err := svc.CreateOrder(ctx, 2, []domain.NewOrderItem{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 3},
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(2*2500+3*400), order.TotalCents)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, int64(2500), order.Items[0].UnitPriceCents)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		_, products, members, svc := newOrderTestService()

		members.On("GetByID", ctx, int64(2)).Return(&domain.Member{ID: 2}, nil)
		products.On("GetByIDs", ctx, []int64{99}).Return(map[int64]domain.Product{}, nil)

		_, err := svc.CreateOrder(ctx, 2, []domain.NewOrderItem{{ProductID: 99, Quantity: 1}}, "")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("EmptyOrder", func(t *testing.T) {
		_, _, _, svc := newOrderTestService()

		_, err := svc.CreateOrder(ctx, 2, nil, "")
		assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	})

	t.Run("NonPositivePrice", func(t *testing.T) {
		_, products, members, svc := newOrderTestService()

		members.On("GetByID", ctx, int64(2)).Return(&domain.Member{ID: 2}, nil)
		products.On("GetByIDs", ctx, []int64{10}).Return(map[int64]domain.Product{
			10: {ID: 10, PriceCents: 0},
		}, nil)

		_, err := svc.CreateOrder(ctx, 2, []domain.NewOrderItem{{ProductID: 10, Quantity: 1}}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})
}

func TestOrderService_ConfirmOrder(t *testing.T) {
	ctx := context.Background()
	orders, _, _, svc := newOrderTestService()

	orders.On("Transition", ctx, int64(7), domain.OrderStatusPending, domain.OrderStatusDeliveryPending).Return(nil)
	orders.On("GetByID", ctx, int64(7)).Return(&domain.Order{ID: 7, Status: domain.OrderStatusDeliveryPending}, nil)

	order, err := svc.ConfirmOrder(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDeliveryPending, order.Status)
}

func TestOrderService_AcceptDelivery(t *testing.T) {
	ctx := context.Background()
	orders, _, _, svc := newOrderTestService()

	written := []domain.Commission{{EarnerID: 1, Level: 1, AmountCents: 20}}
	orders.On("AcceptDelivery", ctx, int64(7), int64(2), 0.002, int32(10)).
		Return(&domain.Order{ID: 7, Status: domain.OrderStatusCompleted}, written, nil)

	order, commissions, err := svc.AcceptDelivery(ctx, 7, 2)
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.Len(t, commissions, 1)
}

func TestOrderService_Cancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("RequestNeedsReason", func(t *testing.T) {
		_, _, _, svc := newOrderTestService()
		_, err := svc.RequestCancellation(ctx, 7, 2, "   ")
		assert.ErrorIs(t, err, domain.ErrReasonRequired)
	})

	t.Run("RequestWrongBuyer", func(t *testing.T) {
		orders, _, _, svc := newOrderTestService()
		orders.On("GetByID", ctx, int64(7)).Return(&domain.Order{ID: 7, BuyerID: 2, Status: domain.OrderStatusDeliveryPending}, nil)

		_, err := svc.RequestCancellation(ctx, 7, 3, "wrong size")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("RejectionKeepsOrderDeliverable", func(t *testing.T) {
		orders, _, _, svc := newOrderTestService()
		orders.On("RejectCancellation", ctx, int64(7), "already shipped").Return(nil)
		orders.On("GetByID", ctx, int64(7)).Return(&domain.Order{
			ID: 7, Status: domain.OrderStatusDeliveryPending, RejectReason: "already shipped",
		}, nil)

		order, err := svc.RejectCancellation(ctx, 7, "already shipped")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDeliveryPending, order.Status)
		assert.Equal(t, "already shipped", order.RejectReason)
	})

	t.Run("DirectCancelRefusedOnCompleted", func(t *testing.T) {
		orders, _, _, svc := newOrderTestService()
		orders.On("GetByID", ctx, int64(7)).Return(&domain.Order{ID: 7, Status: domain.OrderStatusCompleted}, nil)

		_, err := svc.CancelOrder(ctx, 7, "changed my mind")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		orders.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
