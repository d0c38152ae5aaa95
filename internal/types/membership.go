package types

import (
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// MembershipTier is the loyalty level derived from in-period capsule volume.
// It is never persisted; every read recomputes it from purchase history.
type MembershipTier string

const (
	MembershipTierNone        MembershipTier = "none"
	MembershipTierConnoisseur MembershipTier = "connoisseur"
	MembershipTierExpert      MembershipTier = "expert"
	MembershipTierMaster      MembershipTier = "master"
	MembershipTierVirtuoso    MembershipTier = "virtuoso"
	MembershipTierAmbassador  MembershipTier = "ambassador"
)

// CapsulesPerSleeve is the packaging conversion factor: purchase quantities
// are recorded in sleeves, tier thresholds are expressed in capsules.
const CapsulesPerSleeve = 10

// membershipTierOrder lists tiers from lowest to highest with their
// inclusive lower capsule-count thresholds and discount percentages.
var membershipTierOrder = []struct {
	Tier      MembershipTier
	Threshold int64
	Percent   int64
}{
	{MembershipTierNone, 0, 0},
	{MembershipTierConnoisseur, 1, 5},
	{MembershipTierExpert, 750, 10},
	{MembershipTierMaster, 2000, 15},
	{MembershipTierVirtuoso, 4000, 18},
	{MembershipTierAmbassador, 7000, 20},
}

func (t MembershipTier) String() string {
	return string(t)
}

func (t MembershipTier) Validate() error {
	allowed := make([]MembershipTier, 0, len(membershipTierOrder))
	for _, e := range membershipTierOrder {
		allowed = append(allowed, e.Tier)
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid membership tier").
			WithHint("Invalid membership tier").
			WithReportableDetails(map[string]any{
				"tier":          t,
				"allowed_tiers": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DiscountPercent returns the static discount percentage for the tier.
// Unknown tiers yield zero.
func (t MembershipTier) DiscountPercent() decimal.Decimal {
	for _, e := range membershipTierOrder {
		if e.Tier == t {
			return decimal.NewFromInt(e.Percent)
		}
	}
	return decimal.Zero
}

// MembershipTierForCount maps an in-period capsule count to the highest
// tier whose inclusive threshold is at or below the count.
func MembershipTierForCount(capsuleCount int64) MembershipTier {
	tier := MembershipTierNone
	for _, e := range membershipTierOrder {
		if capsuleCount >= e.Threshold {
			tier = e.Tier
		}
	}
	return tier
}
