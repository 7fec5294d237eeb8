package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/repository"

	"github.com/lib/pq"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (name, price_cents, commission_rate, status, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now()
	p.CreatedOn = now.Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, p.Name, p.PriceCents, p.CommissionRate, p.Status, now).Scan(&p.ID)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p := &domain.Product{}
	var createdOn time.Time
	query := `SELECT id, name, price_cents, commission_rate, status, created_on FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.PriceCents, &p.CommissionRate, &p.Status, &createdOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	p.CreatedOn = createdOn.Format("2006-01-02")
	return p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	query := `SELECT id, name, price_cents, commission_rate, status, created_on FROM products WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[int64]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		var createdOn time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CommissionRate, &p.Status, &createdOn); err != nil {
			return nil, err
		}
		p.CreatedOn = createdOn.Format("2006-01-02")
		products[p.ID] = p
	}
	return products, rows.Err()
}

func (r *productRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, name, price_cents, commission_rate, status, created_on
	          FROM products ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var createdOn time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CommissionRate, &p.Status, &createdOn); err != nil {
			return nil, 0, err
		}
		p.CreatedOn = createdOn.Format("2006-01-02")
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}
