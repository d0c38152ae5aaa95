package service

import (
	"context"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/api/dto"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/shopspring/decimal"
)

// DiscountService maps a membership tier to its discount and applies it to
// monetary subtotals. The discount an order carries is the one computed at
// checkout time: callers persist the result into the order snapshot and
// never recompute it for an existing order.
type DiscountService interface {
	// ComputeDiscount applies the tier's static percentage to the
	// subtotal. The amount is rounded half-up to 2 decimal places.
	ComputeDiscount(tier types.MembershipTier, subtotal decimal.Decimal) (*dto.DiscountResponse, error)

	// ComputeCheckoutTotal derives the account's current tier and applies
	// its discount in one call. This is the checkout-path entry point; it
	// never reads cached tiers.
	ComputeCheckoutTotal(ctx context.Context, accountID string, subtotal decimal.Decimal) (*dto.DiscountResponse, error)
}

type discountService struct {
	ServiceParams
	membershipService MembershipService
}

func NewDiscountService(params ServiceParams) DiscountService {
	return &discountService{
		ServiceParams:     params,
		membershipService: NewMembershipService(params),
	}
}

func (s *discountService) ComputeDiscount(tier types.MembershipTier, subtotal decimal.Decimal) (*dto.DiscountResponse, error) {
	if err := tier.Validate(); err != nil {
		return nil, err
	}
	if subtotal.IsNegative() {
		return nil, ierr.NewError("subtotal cannot be negative").
			WithHint("Subtotal must be zero or positive").
			WithReportableDetails(map[string]any{
				"subtotal": subtotal.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	percent := tier.DiscountPercent()
	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative amounts that reach this path
	amount := subtotal.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)

	return &dto.DiscountResponse{
		Tier:                  tier,
		Percent:               percent,
		Amount:                amount,
		SubtotalAfterDiscount: subtotal.Sub(amount),
	}, nil
}

func (s *discountService) ComputeCheckoutTotal(ctx context.Context, accountID string, subtotal decimal.Decimal) (*dto.DiscountResponse, error) {
	membership, err := s.membershipService.ComputeTier(ctx, accountID, time.Time{})
	if err != nil {
		return nil, err
	}
	return s.ComputeDiscount(membership.Tier, subtotal)
}
