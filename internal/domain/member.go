package domain

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
)

type Member struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	PasswordHash string       `json:"-"`
	ReferralCode string       `json:"referral_code"`
	SponsorID    *int64       `json:"sponsor_id,omitempty"` // nil only for the root member
	Role         MemberRole   `json:"role"`
	Status       MemberStatus `json:"status"`
	CreatedOn    string       `json:"created_on"`
}

// HasContact reports whether the member carries at least one of email/phone.
func (m *Member) HasContact() bool {
	return m.Email != "" || m.Phone != ""
}
