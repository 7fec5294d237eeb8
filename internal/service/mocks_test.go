package service

import (
	"context"

	"refnet-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) CreateRoot(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) Enroll(ctx context.Context, member *domain.Member, sponsorID int64) error {
	args := m.Called(ctx, member, sponsorID)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByReferralCode(ctx context.Context, code string) (*domain.Member, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) ContactExists(ctx context.Context, email, phone string) (bool, error) {
	args := m.Called(ctx, email, phone)
	return args.Bool(0), args.Error(1)
}
func (m *MockMemberRepo) MoveSponsor(ctx context.Context, memberID, newSponsorID int64) error {
	args := m.Called(ctx, memberID, newSponsorID)
	return args.Error(0)
}
func (m *MockMemberRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAncestryRepo
type MockAncestryRepo struct {
	mock.Mock
}

func (m *MockAncestryRepo) Ancestors(ctx context.Context, memberID int64, minDepth, maxDepth int32) ([]domain.AncestryEdge, error) {
	args := m.Called(ctx, memberID, minDepth, maxDepth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AncestryEdge), args.Error(1)
}
func (m *MockAncestryRepo) Descendants(ctx context.Context, memberID int64) ([]domain.AncestryEdge, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AncestryEdge), args.Error(1)
}
func (m *MockAncestryRepo) DescendantCount(ctx context.Context, memberID int64) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAncestryRepo) DirectReferralCount(ctx context.Context, memberID int64) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAncestryRepo) IsDescendant(ctx context.Context, ancestorID, descendantID int64) (bool, error) {
	args := m.Called(ctx, ancestorID, descendantID)
	return args.Bool(0), args.Error(1)
}
func (m *MockAncestryRepo) FindDuplicateEdges(ctx context.Context) ([]domain.AncestryEdge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AncestryEdge), args.Error(1)
}
func (m *MockAncestryRepo) FindMissingSelfRows(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockAncestryRepo) RepairClosure(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Product), args.Error(1)
}
func (m *MockProductRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Get(1).(int32), args.Error(2)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) ListByBuyer(ctx context.Context, buyerID int64, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, buyerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrderRepo) Transition(ctx context.Context, id int64, from, to domain.OrderStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockOrderRepo) Cancel(ctx context.Context, id int64, from domain.OrderStatus, reason string) error {
	args := m.Called(ctx, id, from, reason)
	return args.Error(0)
}
func (m *MockOrderRepo) RequestCancellation(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}
func (m *MockOrderRepo) RejectCancellation(ctx context.Context, id int64, rejectReason string) error {
	args := m.Called(ctx, id, rejectReason)
	return args.Error(0)
}
func (m *MockOrderRepo) AcceptDelivery(ctx context.Context, id, buyerID int64, defaultRate float64, maxLevels int32) (*domain.Order, []domain.Commission, error) {
	args := m.Called(ctx, id, buyerID, defaultRate, maxLevels)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	var commissions []domain.Commission
	if args.Get(1) != nil {
		commissions = args.Get(1).([]domain.Commission)
	}
	return order, commissions, args.Error(2)
}

// MockCommissionRepo
type MockCommissionRepo struct {
	mock.Mock
}

func (m *MockCommissionRepo) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCommissionRepo) ListByEarner(ctx context.Context, earnerID int64, page, pageSize int32) ([]domain.Commission, int32, error) {
	args := m.Called(ctx, earnerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Commission), args.Get(1).(int32), args.Error(2)
}
func (m *MockCommissionRepo) TotalEarnedCents(ctx context.Context, memberID int64) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCommissionRepo) CompletedOrdersWithoutCommissions(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockCommissionRepo) BackfillForOrder(ctx context.Context, orderID int64, defaultRate float64, maxLevels int32) ([]domain.Commission, error) {
	args := m.Called(ctx, orderID, defaultRate, maxLevels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commission), args.Error(1)
}

// MockWithdrawalRepo
type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) CreateWithBalanceGuard(ctx context.Context, w *domain.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *MockWithdrawalRepo) Process(ctx context.Context, id int64, status domain.WithdrawalStatus, remark string) error {
	args := m.Called(ctx, id, status, remark)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) ListByMember(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	args := m.Called(ctx, memberID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Withdrawal), args.Get(1).(int32), args.Error(2)
}
func (m *MockWithdrawalRepo) OutstandingCents(ctx context.Context, memberID int64) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}
