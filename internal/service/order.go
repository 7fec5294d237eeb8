package service

import (
	"context"
	"fmt"
	"strings"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/repository"
)

// CommissionConfig carries the payout parameters of the commission engine.
type CommissionConfig struct {
	DefaultRate float64
	MaxLevels   int32
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	memberRepo  repository.MemberRepository
	commission  CommissionConfig
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	commission CommissionConfig,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		memberRepo:  memberRepo,
		commission:  commission,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, buyerID int64, items []domain.NewOrderItem, referralCode string) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if _, err := s.memberRepo.GetByID(ctx, buyerID); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("product %d: quantity must be positive: %w", item.ProductID, domain.ErrInvalidPrice)
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	// The total is always computed here from catalog prices captured into
	// the line items; a client-supplied total is never trusted.
	order := &domain.Order{
		BuyerID:      buyerID,
		Status:       domain.OrderStatusPending,
		ReferralCode: strings.TrimSpace(referralCode),
	}
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, domain.ErrProductNotFound)
		}
		if p.PriceCents <= 0 {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, domain.ErrInvalidPrice)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: p.PriceCents,
		})
		order.TotalCents += p.PriceCents * int64(item.Quantity)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	logger.Info("Order created", "order_id", order.ID, "buyer_id", buyerID, "total_cents", order.TotalCents)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, buyerID int64, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orderRepo.ListByBuyer(ctx, buyerID, page, pageSize)
}

func (s *orderService) ConfirmOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := s.orderRepo.Transition(ctx, orderID, domain.OrderStatusPending, domain.OrderStatusDeliveryPending); err != nil {
		return nil, err
	}
	logger.Info("Order confirmed", "order_id", orderID)
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) AcceptDelivery(ctx context.Context, orderID, buyerID int64) (*domain.Order, []domain.Commission, error) {
	order, commissions, err := s.orderRepo.AcceptDelivery(ctx, orderID, buyerID, s.commission.DefaultRate, s.commission.MaxLevels)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Order completed", "order_id", orderID, "commissions", len(commissions))
	return order, commissions, nil
}

func (s *orderService) RequestCancellation(ctx context.Context, orderID, buyerID int64, reason string) (*domain.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, domain.ErrForbidden
	}
	if err := s.orderRepo.RequestCancellation(ctx, orderID, reason); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) ApproveCancellation(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := s.orderRepo.Transition(ctx, orderID, domain.OrderStatusCancellationRequested, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	logger.Info("Cancellation approved", "order_id", orderID)
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) RejectCancellation(ctx context.Context, orderID int64, rejectReason string) (*domain.Order, error) {
	rejectReason = strings.TrimSpace(rejectReason)
	if rejectReason == "" {
		return nil, domain.ErrReasonRequired
	}
	if err := s.orderRepo.RejectCancellation(ctx, orderID, rejectReason); err != nil {
		return nil, err
	}
	logger.Info("Cancellation rejected", "order_id", orderID)
	return s.orderRepo.GetByID(ctx, orderID)
}

// CancelOrder cancels directly from PENDING or DELIVERY_PENDING; completed
// orders are never cancellable.
func (s *orderService) CancelOrder(ctx context.Context, orderID int64, reason string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case domain.OrderStatusPending, domain.OrderStatusDeliveryPending:
	default:
		return nil, domain.ErrInvalidTransition
	}
	if err := s.orderRepo.Cancel(ctx, orderID, order.Status, reason); err != nil {
		return nil, err
	}
	logger.Info("Order cancelled", "order_id", orderID)
	return s.orderRepo.GetByID(ctx, orderID)
}
