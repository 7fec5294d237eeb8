package service

import (
	"context"
	"strings"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/repository"
)

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) AddProduct(ctx context.Context, name string, priceCents int64, commissionRate float64) (*domain.Product, error) {
	if priceCents <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	p := &domain.Product{
		Name:           strings.TrimSpace(name),
		PriceCents:     priceCents,
		CommissionRate: commissionRate,
		Status:         domain.ProductStatusActive,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	return s.productRepo.List(ctx, page, pageSize)
}
