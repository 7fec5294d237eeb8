package repository

import (
	"context"

	"refnet-backend/internal/domain"
)

type MemberRepository interface {
	// CreateRoot inserts a sponsor-less member together with its closure
	// self row. Used once, to bootstrap the tree.
	CreateRoot(ctx context.Context, member *domain.Member) error
	// Enroll inserts the member and fans out its closure rows (one per
	// ancestor of the sponsor, plus the sponsor row at depth 1 and the
	// self row at depth 0) in a single transaction.
	Enroll(ctx context.Context, member *domain.Member, sponsorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByReferralCode(ctx context.Context, code string) (*domain.Member, error)
	ContactExists(ctx context.Context, email, phone string) (bool, error)
	// MoveSponsor rewrites the sponsor pointer and rebuilds the closure
	// rows of the moved subtree in the same transaction.
	MoveSponsor(ctx context.Context, memberID, newSponsorID int64) error
	// Delete refuses members that still have direct referrals.
	Delete(ctx context.Context, id int64) error
}

type AncestryRepository interface {
	Ancestors(ctx context.Context, memberID int64, minDepth, maxDepth int32) ([]domain.AncestryEdge, error)
	Descendants(ctx context.Context, memberID int64) ([]domain.AncestryEdge, error)
	DescendantCount(ctx context.Context, memberID int64) (int64, error)
	DirectReferralCount(ctx context.Context, memberID int64) (int64, error)
	// IsDescendant reports whether descendantID sits at or below ancestorID
	// (the depth-0 self row counts, so IsDescendant(x, x) is true).
	IsDescendant(ctx context.Context, ancestorID, descendantID int64) (bool, error)

	// Maintenance queries, used by the repair utilities only.
	FindDuplicateEdges(ctx context.Context) ([]domain.AncestryEdge, error)
	FindMissingSelfRows(ctx context.Context) ([]int64, error)
	RepairClosure(ctx context.Context) (duplicatesRemoved, selfRowsAdded int64, err error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error)
}

type OrderRepository interface {
	// Create inserts the order and its line items in one transaction.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64, page, pageSize int32) ([]domain.Order, int32, error)
	// Transition flips status from -> to; ErrInvalidTransition when the
	// order exists in a different status, ErrNotFound when it does not.
	Transition(ctx context.Context, id int64, from, to domain.OrderStatus) error
	Cancel(ctx context.Context, id int64, from domain.OrderStatus, reason string) error
	RequestCancellation(ctx context.Context, id int64, reason string) error
	RejectCancellation(ctx context.Context, id int64, rejectReason string) error
	// AcceptDelivery runs the whole acceptance transaction: lock the order
	// row, re-check status and buyer, guard against existing commissions,
	// resolve the payout rate, bulk-insert commission rows for qualifying
	// ancestors and flip the order to COMPLETED. Any failure rolls the
	// entire transaction back.
	AcceptDelivery(ctx context.Context, id, buyerID int64, defaultRate float64, maxLevels int32) (*domain.Order, []domain.Commission, error)
}

type CommissionRepository interface {
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
	ListByEarner(ctx context.Context, earnerID int64, page, pageSize int32) ([]domain.Commission, int32, error)
	TotalEarnedCents(ctx context.Context, memberID int64) (int64, error)
	// CompletedOrdersWithoutCommissions lists completed orders that have no
	// commission rows; input for the backfill utility.
	CompletedOrdersWithoutCommissions(ctx context.Context) ([]int64, error)
	// BackfillForOrder re-runs distribution for an already-completed order,
	// with the same locking and idempotency guards as AcceptDelivery.
	BackfillForOrder(ctx context.Context, orderID int64, defaultRate float64, maxLevels int32) ([]domain.Commission, error)
}

type WithdrawalRepository interface {
	// CreateWithBalanceGuard locks the member row, computes the available
	// balance (earned minus pending+approved withdrawals) and inserts the
	// pending request, all in one transaction. ErrInsufficientBalance when
	// the amount exceeds the balance.
	CreateWithBalanceGuard(ctx context.Context, w *domain.Withdrawal) error
	GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error)
	Process(ctx context.Context, id int64, status domain.WithdrawalStatus, remark string) error
	ListByMember(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error)
	OutstandingCents(ctx context.Context, memberID int64) (int64, error)
}
