package domain

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

type Product struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	PriceCents     int64         `json:"price_cents"`
	CommissionRate float64       `json:"commission_rate"` // 0 means "use the system default"
	Status         ProductStatus `json:"status"`
	CreatedOn      string        `json:"created_on"`
}
