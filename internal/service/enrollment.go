package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type enrollmentService struct {
	memberRepo repository.MemberRepository
}

func NewEnrollmentService(memberRepo repository.MemberRepository) EnrollmentService {
	return &enrollmentService{memberRepo: memberRepo}
}

func (s *enrollmentService) EnrollRoot(ctx context.Context, name, email, phone, password string) (*domain.Member, error) {
	m, err := s.newMember(name, email, phone, password)
	if err != nil {
		return nil, err
	}
	m.Role = domain.MemberRoleAdmin
	if err := s.memberRepo.CreateRoot(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create root member: %w", err)
	}
	logger.Info("Root member created", "member_id", m.ID, "referral_code", m.ReferralCode)
	return m, nil
}

func (s *enrollmentService) Enroll(ctx context.Context, name, email, phone, password, sponsorReferralCode string) (*domain.Member, error) {
	sponsor, err := s.memberRepo.GetByReferralCode(ctx, sponsorReferralCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidReferralCode
		}
		return nil, fmt.Errorf("failed to resolve sponsor: %w", err)
	}

	m, err := s.newMember(name, email, phone, password)
	if err != nil {
		return nil, err
	}

	taken, err := s.memberRepo.ContactExists(ctx, m.Email, m.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check contact: %w", err)
	}
	if taken {
		return nil, domain.ErrContactAlreadyRegistered
	}

	if err := s.memberRepo.Enroll(ctx, m, sponsor.ID); err != nil {
		return nil, fmt.Errorf("failed to enroll member: %w", err)
	}
	logger.Info("Member enrolled", "member_id", m.ID, "sponsor_id", sponsor.ID)
	return m, nil
}

func (s *enrollmentService) newMember(name, email, phone, password string) (*domain.Member, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, domain.ErrContactRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &domain.Member{
		Name:         strings.TrimSpace(name),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		ReferralCode: newReferralCode(),
		Role:         domain.MemberRoleMember,
		Status:       domain.MemberStatusActive,
	}, nil
}

// newReferralCode derives a short shareable code from a v4 UUID.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
