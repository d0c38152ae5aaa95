package types

import (
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PlanTier is the ordered set of subscription plans. The ordinal level
// decides whether a plan change is an upgrade (immediate cutover) or a
// downgrade (scheduled at the renewal boundary).
type PlanTier string

const (
	PlanTierFree     PlanTier = "free"
	PlanTierBasic    PlanTier = "basic"
	PlanTierPlus     PlanTier = "plus"
	PlanTierPro      PlanTier = "pro"
	PlanTierMax      PlanTier = "max"
	PlanTierUltimate PlanTier = "ultimate"
)

var planTierLevels = map[PlanTier]int{
	PlanTierFree:     0,
	PlanTierBasic:    1,
	PlanTierPlus:     2,
	PlanTierPro:      3,
	PlanTierMax:      4,
	PlanTierUltimate: 5,
}

func (p PlanTier) String() string {
	return string(p)
}

// Level returns the ordinal position of the plan tier, -1 for unknown tiers.
func (p PlanTier) Level() int {
	if level, ok := planTierLevels[p]; ok {
		return level
	}
	return -1
}

func (p PlanTier) Validate() error {
	if _, ok := planTierLevels[p]; !ok {
		return ierr.NewError("invalid plan tier").
			WithHint("Invalid plan tier").
			WithReportableDetails(map[string]any{
				"tier":          p,
				"allowed_tiers": lo.Keys(planTierLevels),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingCycle determines the renewal-date arithmetic for a subscription.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

func (c BillingCycle) String() string {
	return string(c)
}

func (c BillingCycle) Validate() error {
	allowed := []BillingCycle{
		BillingCycleMonthly,
		BillingCycleAnnual,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid billing cycle").
			WithHint("Billing cycle must be monthly or annual").
			WithReportableDetails(map[string]any{
				"billing_cycle":  c,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionStatus is the lifecycle state of a subscription record.
type SubscriptionStatus string

const (
	// SubscriptionStatusActive is the single record currently in force
	SubscriptionStatusActive SubscriptionStatus = "active"
	// SubscriptionStatusEnding is in force until its end date passes
	SubscriptionStatusEnding SubscriptionStatus = "ending"
	// SubscriptionStatusScheduled starts when the record it supersedes ends
	SubscriptionStatusScheduled SubscriptionStatus = "scheduled"
	// SubscriptionStatusCancelled is the terminal state
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusEnding,
		SubscriptionStatusScheduled,
		SubscriptionStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionChangeType classifies a plan change by comparing ordinal
// tier levels. Lateral changes follow downgrade semantics: the customer
// keeps what they already paid for until the term ends.
type SubscriptionChangeType string

const (
	SubscriptionChangeTypeUpgrade   SubscriptionChangeType = "upgrade"
	SubscriptionChangeTypeDowngrade SubscriptionChangeType = "downgrade"
	SubscriptionChangeTypeLateral   SubscriptionChangeType = "lateral"
)

func (s SubscriptionChangeType) String() string {
	return string(s)
}

// ChangeTypeForTiers returns the change classification for moving from the
// current plan tier to the target tier.
func ChangeTypeForTiers(current, target PlanTier) SubscriptionChangeType {
	switch {
	case target.Level() > current.Level():
		return SubscriptionChangeTypeUpgrade
	case target.Level() < current.Level():
		return SubscriptionChangeTypeDowngrade
	default:
		return SubscriptionChangeTypeLateral
	}
}

// planPrices is the fixed plan catalog. Prices are captured onto each
// subscription row at insert time so later catalog changes never alter an
// existing subscription.
var planPrices = map[PlanTier]map[BillingCycle]decimal.Decimal{
	PlanTierFree: {
		BillingCycleMonthly: decimal.Zero,
		BillingCycleAnnual:  decimal.Zero,
	},
	PlanTierBasic: {
		BillingCycleMonthly: decimal.NewFromFloat(8.90),
		BillingCycleAnnual:  decimal.NewFromFloat(89.00),
	},
	PlanTierPlus: {
		BillingCycleMonthly: decimal.NewFromFloat(14.90),
		BillingCycleAnnual:  decimal.NewFromFloat(149.00),
	},
	PlanTierPro: {
		BillingCycleMonthly: decimal.NewFromFloat(19.90),
		BillingCycleAnnual:  decimal.NewFromFloat(199.00),
	},
	PlanTierMax: {
		BillingCycleMonthly: decimal.NewFromFloat(29.90),
		BillingCycleAnnual:  decimal.NewFromFloat(299.00),
	},
	PlanTierUltimate: {
		BillingCycleMonthly: decimal.NewFromFloat(49.90),
		BillingCycleAnnual:  decimal.NewFromFloat(499.00),
	},
}

// PlanPrice returns the catalog price for a plan tier and billing cycle.
func PlanPrice(tier PlanTier, cycle BillingCycle) (decimal.Decimal, error) {
	if err := tier.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := cycle.Validate(); err != nil {
		return decimal.Zero, err
	}
	return planPrices[tier][cycle], nil
}
