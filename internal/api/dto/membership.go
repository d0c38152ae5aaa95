package dto

import (
	"time"

	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/shopspring/decimal"
)

// MembershipResponse is the derived loyalty state for an account. Nothing
// here is stored; every field is recomputed from purchase history.
type MembershipResponse struct {
	AccountID       string               `json:"account_id"`
	Tier            types.MembershipTier `json:"tier"`
	PeriodStart     time.Time            `json:"period_start"`
	PeriodEnd       time.Time            `json:"period_end"`
	CapsuleCount    int64                `json:"capsule_count"`
	DiscountPercent decimal.Decimal      `json:"discount_percent"`
}

// DiscountResponse is the result of applying a tier discount to a subtotal
type DiscountResponse struct {
	Tier                  types.MembershipTier `json:"tier"`
	Percent               decimal.Decimal      `json:"percent"`
	Amount                decimal.Decimal      `json:"amount"`
	SubtotalAfterDiscount decimal.Decimal      `json:"subtotal_after_discount"`
}
