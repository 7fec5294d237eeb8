package postgres

import (
	"database/sql"

	"refnet-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.MemberRepository
	repository.AncestryRepository
	repository.ProductRepository
	repository.OrderRepository
	repository.CommissionRepository
	repository.WithdrawalRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		MemberRepository:     NewMemberRepository(db),
		AncestryRepository:   NewAncestryRepository(db),
		ProductRepository:    NewProductRepository(db),
		OrderRepository:      NewOrderRepository(db),
		CommissionRepository: NewCommissionRepository(db),
		WithdrawalRepository: NewWithdrawalRepository(db),
	}
}
