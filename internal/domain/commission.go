package domain

type CommissionStatus string

const (
	CommissionStatusPaid CommissionStatus = "PAID"
)

// Commission is one payout ledger entry. SourceID is the buying member,
// EarnerID the ancestor being paid, Level the sponsor-hop distance between
// them. Rows are written once per completed order and never mutated.
type Commission struct {
	ID          int64            `json:"id"`
	EarnerID    int64            `json:"earner_id"`
	SourceID    int64            `json:"source_id"`
	OrderID     int64            `json:"order_id"`
	AmountCents int64            `json:"amount_cents"`
	Level       int32            `json:"level"`
	Status      CommissionStatus `json:"status"`
	CreatedOn   string           `json:"created_on"`
}
