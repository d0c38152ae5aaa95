package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMembershipTierForCount(t *testing.T) {
	tests := []struct {
		count int64
		want  MembershipTier
	}{
		{0, MembershipTierNone},
		{1, MembershipTierConnoisseur},
		{749, MembershipTierConnoisseur},
		{750, MembershipTierExpert},
		{1999, MembershipTierExpert},
		{2000, MembershipTierMaster},
		{3999, MembershipTierMaster},
		{4000, MembershipTierVirtuoso},
		{6999, MembershipTierVirtuoso},
		{7000, MembershipTierAmbassador},
		{50000, MembershipTierAmbassador},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MembershipTierForCount(tt.count),
			"count %d", tt.count)
	}
}

func TestMembershipTierDiscountPercent(t *testing.T) {
	tests := []struct {
		tier MembershipTier
		want int64
	}{
		{MembershipTierNone, 0},
		{MembershipTierConnoisseur, 5},
		{MembershipTierExpert, 10},
		{MembershipTierMaster, 15},
		{MembershipTierVirtuoso, 18},
		{MembershipTierAmbassador, 20},
		{MembershipTier("bogus"), 0},
	}

	for _, tt := range tests {
		assert.True(t, decimal.NewFromInt(tt.want).Equal(tt.tier.DiscountPercent()),
			"tier %s", tt.tier)
	}
}

func TestMembershipTierValidate(t *testing.T) {
	assert.NoError(t, MembershipTierExpert.Validate())
	assert.Error(t, MembershipTier("gold").Validate())
}

func TestChangeTypeForTiers(t *testing.T) {
	assert.Equal(t, SubscriptionChangeTypeUpgrade, ChangeTypeForTiers(PlanTierBasic, PlanTierPro))
	assert.Equal(t, SubscriptionChangeTypeDowngrade, ChangeTypeForTiers(PlanTierPro, PlanTierBasic))
	assert.Equal(t, SubscriptionChangeTypeLateral, ChangeTypeForTiers(PlanTierPlus, PlanTierPlus))
}

func TestPlanPrice(t *testing.T) {
	price, err := PlanPrice(PlanTierPro, BillingCycleMonthly)
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(19.90).Equal(price))

	free, err := PlanPrice(PlanTierFree, BillingCycleAnnual)
	assert.NoError(t, err)
	assert.True(t, free.IsZero())

	_, err = PlanPrice(PlanTier("platinum"), BillingCycleMonthly)
	assert.Error(t, err)

	_, err = PlanPrice(PlanTierBasic, BillingCycle("weekly"))
	assert.Error(t, err)
}
