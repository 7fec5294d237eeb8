package service

import (
	"context"
	"fmt"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/repository"
)

type networkService struct {
	memberRepo   repository.MemberRepository
	ancestryRepo repository.AncestryRepository
}

func NewNetworkService(memberRepo repository.MemberRepository, ancestryRepo repository.AncestryRepository) NetworkService {
	return &networkService{memberRepo: memberRepo, ancestryRepo: ancestryRepo}
}

func (s *networkService) AncestorsOf(ctx context.Context, memberID int64) ([]domain.AncestryEdge, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.ancestryRepo.Ancestors(ctx, memberID, 0, maxClosureDepth)
}

func (s *networkService) DescendantsOf(ctx context.Context, memberID int64) ([]domain.AncestryEdge, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.ancestryRepo.Descendants(ctx, memberID)
}

func (s *networkService) TeamSize(ctx context.Context, memberID int64) (int64, error) {
	count, err := s.ancestryRepo.DescendantCount(ctx, memberID)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, domain.ErrNotFound
	}
	return count - 1, nil // drop the self row
}

func (s *networkService) DirectReferralCount(ctx context.Context, memberID int64) (int64, error) {
	return s.ancestryRepo.DirectReferralCount(ctx, memberID)
}

// MoveSponsor re-parents a member. The new sponsor must exist and must not
// be the member itself or any of its descendants; the closure rows of the
// moved subtree are rebuilt inside the repository transaction.
func (s *networkService) MoveSponsor(ctx context.Context, memberID, newSponsorID int64) error {
	if memberID == newSponsorID {
		return domain.ErrSelfSponsorship
	}
	if _, err := s.memberRepo.GetByID(ctx, newSponsorID); err != nil {
		return err
	}
	inSubtree, err := s.ancestryRepo.IsDescendant(ctx, memberID, newSponsorID)
	if err != nil {
		return fmt.Errorf("failed to check for cycle: %w", err)
	}
	if inSubtree {
		return domain.ErrCycle
	}

	if err := s.memberRepo.MoveSponsor(ctx, memberID, newSponsorID); err != nil {
		return err
	}
	logger.Info("Member re-parented", "member_id", memberID, "new_sponsor_id", newSponsorID)
	return nil
}

func (s *networkService) RemoveMember(ctx context.Context, memberID int64) error {
	return s.memberRepo.Delete(ctx, memberID)
}

// maxClosureDepth bounds ancestor queries; no practical sponsor chain gets
// anywhere near it.
const maxClosureDepth = 1 << 20
