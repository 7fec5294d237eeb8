package service

import (
	"context"

	"refnet-backend/internal/domain"
)

type EnrollmentService interface {
	// EnrollRoot bootstraps the tree with a sponsor-less admin member.
	EnrollRoot(ctx context.Context, name, email, phone, password string) (*domain.Member, error)
	// Enroll registers a member under the sponsor identified by referral code.
	Enroll(ctx context.Context, name, email, phone, password, sponsorReferralCode string) (*domain.Member, error)
}

type NetworkService interface {
	AncestorsOf(ctx context.Context, memberID int64) ([]domain.AncestryEdge, error)
	DescendantsOf(ctx context.Context, memberID int64) ([]domain.AncestryEdge, error)
	// TeamSize is the number of descendants excluding the member itself.
	TeamSize(ctx context.Context, memberID int64) (int64, error)
	DirectReferralCount(ctx context.Context, memberID int64) (int64, error)
	// MoveSponsor re-parents a member and rebuilds the moved subtree's
	// closure rows. Self and descendant sponsors are refused.
	MoveSponsor(ctx context.Context, memberID, newSponsorID int64) error
	RemoveMember(ctx context.Context, memberID int64) error
}

type CatalogService interface {
	AddProduct(ctx context.Context, name string, priceCents int64, commissionRate float64) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID int64, items []domain.NewOrderItem, referralCode string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, buyerID int64, page, pageSize int32) ([]domain.Order, int32, error)
	// ConfirmOrder is the operator step: PENDING -> DELIVERY_PENDING.
	ConfirmOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	// AcceptDelivery is the buyer step: DELIVERY_PENDING -> COMPLETED, and
	// the sole commission trigger. Returns the commissions written.
	AcceptDelivery(ctx context.Context, orderID, buyerID int64) (*domain.Order, []domain.Commission, error)
	RequestCancellation(ctx context.Context, orderID, buyerID int64, reason string) (*domain.Order, error)
	ApproveCancellation(ctx context.Context, orderID int64) (*domain.Order, error)
	RejectCancellation(ctx context.Context, orderID int64, rejectReason string) (*domain.Order, error)
	// CancelOrder is the operator's direct cancel on PENDING or DELIVERY_PENDING.
	CancelOrder(ctx context.Context, orderID int64, reason string) (*domain.Order, error)
}

type LedgerService interface {
	// AvailableBalance is earned commissions minus pending and approved
	// withdrawals, in cents.
	AvailableBalance(ctx context.Context, memberID int64) (int64, error)
	CommissionHistory(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Commission, int32, error)
	RequestWithdrawal(ctx context.Context, memberID int64, amountCents int64, method, details string) (*domain.Withdrawal, error)
	ProcessWithdrawal(ctx context.Context, requestID int64, decision domain.WithdrawalDecision, remark string) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error)
}

// RepairResult reports what a closure repair pass changed.
type RepairResult struct {
	DuplicatesRemoved int64 `json:"duplicates_removed"`
	SelfRowsAdded     int64 `json:"self_rows_added"`
}

type RepairService interface {
	// AuditClosure is read-only: it reports anomalies without touching them.
	AuditClosure(ctx context.Context) (*domain.ClosureAuditReport, error)
	RepairClosure(ctx context.Context) (*RepairResult, error)
	// BackfillCommissions distributes payouts for completed orders that
	// have none; returns the number of orders backfilled.
	BackfillCommissions(ctx context.Context) (int, error)
}
