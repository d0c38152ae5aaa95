package service

import (
	"context"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/api/dto"
	"github.com/capsulebrew/capsulebrew/internal/cache"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/types"
)

// membershipCacheTTL bounds how stale a cart-display tier may be.
const membershipCacheTTL = 5 * time.Minute

// MembershipService derives an account's loyalty tier from its rolling
// 1-year purchase window. Tier is never stored; it is a pure function of
// the purchase history within the current membership period.
type MembershipService interface {
	// ComputeTier recomputes the tier as of the given time. A zero asOf
	// means now. Unknown accounts yield the zero tier rather than an
	// error: the discount path fails open.
	ComputeTier(ctx context.Context, accountID string, asOf time.Time) (*dto.MembershipResponse, error)

	// ComputeTierCached is the display-path variant; results may lag
	// recent purchases by up to the cache TTL. Never use it for amounts
	// that end up on an order.
	ComputeTierCached(ctx context.Context, accountID string) (*dto.MembershipResponse, error)
}

type membershipService struct {
	ServiceParams
}

func NewMembershipService(params ServiceParams) MembershipService {
	return &membershipService{ServiceParams: params}
}

func (s *membershipService) ComputeTier(ctx context.Context, accountID string, asOf time.Time) (*dto.MembershipResponse, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation)
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	createdAt, err := s.AccountRepo.GetCreatedAt(ctx, accountID)
	if err != nil {
		if ierr.IsNotFound(err) {
			// fail open: an unknown account gets the zero tier instead of
			// breaking the cart display
			s.Logger.Warnw("computing tier for unknown account",
				"account_id", accountID)
			return &dto.MembershipResponse{
				AccountID:       accountID,
				Tier:            types.MembershipTierNone,
				CapsuleCount:    0,
				DiscountPercent: types.MembershipTierNone.DiscountPercent(),
			}, nil
		}
		return nil, err
	}

	periodStart, periodEnd := types.CurrentMembershipPeriod(createdAt, asOf)

	purchases, err := s.OrderRepo.ListCapsulePurchases(ctx, accountID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	var sleeves int64
	for _, p := range purchases {
		if p.Cancelled {
			continue
		}
		sleeves += p.Quantity
	}
	capsuleCount := sleeves * types.CapsulesPerSleeve

	tier := types.MembershipTierForCount(capsuleCount)

	s.Logger.Debugw("computed membership tier",
		"account_id", accountID,
		"tier", tier,
		"capsule_count", capsuleCount,
		"period_start", periodStart,
		"period_end", periodEnd,
	)

	return &dto.MembershipResponse{
		AccountID:       accountID,
		Tier:            tier,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		CapsuleCount:    capsuleCount,
		DiscountPercent: tier.DiscountPercent(),
	}, nil
}

func (s *membershipService) ComputeTierCached(ctx context.Context, accountID string) (*dto.MembershipResponse, error) {
	key := cache.GenerateKey(cache.PrefixMembership, accountID)

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if resp, ok := cached.(*dto.MembershipResponse); ok {
				// hand out a copy so callers cannot mutate the cached entry
				clone := *resp
				return &clone, nil
			}
		}
	}

	resp, err := s.ComputeTier(ctx, accountID, time.Time{})
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		// cache its own copy for the same reason
		clone := *resp
		s.Cache.Set(ctx, key, &clone, membershipCacheTTL)
	}
	return resp, nil
}
