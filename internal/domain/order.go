package domain

type OrderStatus string

const (
	OrderStatusPending               OrderStatus = "PENDING"
	OrderStatusDeliveryPending       OrderStatus = "DELIVERY_PENDING"
	OrderStatusCancellationRequested OrderStatus = "CANCELLATION_REQUESTED"
	OrderStatusCompleted             OrderStatus = "COMPLETED"
	OrderStatusCancelled             OrderStatus = "CANCELLED"
)

type Order struct {
	ID           int64       `json:"id"`
	BuyerID      int64       `json:"buyer_id"`
	TotalCents   int64       `json:"total_cents"`
	Status       OrderStatus `json:"status"`
	ReferralCode string      `json:"referral_code,omitempty"`
	CancelReason string      `json:"cancel_reason,omitempty"`
	RejectReason string      `json:"reject_reason,omitempty"`
	Items        []OrderItem `json:"items,omitempty"`
	CreatedOn    string      `json:"created_on"`
	UpdatedOn    string      `json:"updated_on"`
}

// OrderItem captures the product price at order time; later price changes
// never affect an existing order.
type OrderItem struct {
	ID             int64 `json:"id"`
	OrderID        int64 `json:"order_id"`
	ProductID      int64 `json:"product_id"`
	Quantity       int32 `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
}

// NewOrderItem is a line item as submitted by the buyer; price and total
// are always computed server-side from the catalog.
type NewOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}
