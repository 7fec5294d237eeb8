package domain

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

type Withdrawal struct {
	ID          int64            `json:"id"`
	MemberID    int64            `json:"member_id"`
	AmountCents int64            `json:"amount_cents"`
	Method      string           `json:"method"`
	Details     string           `json:"details"`
	Status      WithdrawalStatus `json:"status"`
	Remark      string           `json:"remark,omitempty"`
	CreatedOn   string           `json:"created_on"`
	UpdatedOn   string           `json:"updated_on"`
}

type WithdrawalDecision string

const (
	WithdrawalDecisionApprove WithdrawalDecision = "APPROVE"
	WithdrawalDecisionReject  WithdrawalDecision = "REJECT"
)
