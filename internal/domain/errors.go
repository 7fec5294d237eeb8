package domain

import "errors"

// Sentinel errors returned by the core services. Callers match them with
// errors.Is; repositories wrap driver errors with %w so the sentinel stays
// visible through the stack.
var (
	ErrNotFound                 = errors.New("not found")
	ErrInvalidReferralCode      = errors.New("invalid referral code")
	ErrContactAlreadyRegistered = errors.New("contact already registered")
	ErrContactRequired          = errors.New("either email or phone is required")
	ErrSelfSponsorship          = errors.New("member cannot sponsor itself")
	ErrHasReferrals             = errors.New("member still has direct referrals")
	ErrCycle                    = errors.New("sponsor change would create a cycle")

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("product has no valid price")
	ErrEmptyOrder      = errors.New("order has no line items")

	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrForbidden         = errors.New("operation not permitted for this member")
	ErrReasonRequired    = errors.New("a non-empty reason is required")
	ErrCommissionExists  = errors.New("commissions already written for order")

	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrAlreadyProcessed    = errors.New("withdrawal request already processed")
)
