package subscription

import (
	"time"

	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/shopspring/decimal"
)

// Subscription is one subscription record for an account. At most one record
// per account may be active or ending at a time, and at most one scheduled.
type Subscription struct {
	// ID is the unique identifier for the subscription record
	ID string `db:"id" json:"id"`

	// LookupKey is a short, shareable key used by support tooling
	LookupKey string `db:"lookup_key" json:"lookup_key"`

	// AccountID is the identifier of the owning account
	AccountID string `db:"account_id" json:"account_id"`

	// PlanTier is the subscription plan
	PlanTier types.PlanTier `db:"plan_tier" json:"plan_tier"`

	// BillingCycle is monthly or annual
	BillingCycle types.BillingCycle `db:"billing_cycle" json:"billing_cycle"`

	// Price is the catalog price captured when the record was created.
	// Catalog changes never alter an existing record.
	Price decimal.Decimal `db:"price" json:"price"`

	// StartDate is when the record takes (or took) effect
	StartDate time.Time `db:"start_date" json:"start_date"`

	// RenewalDate is always StartDate plus one billing cycle
	RenewalDate time.Time `db:"renewal_date" json:"renewal_date"`

	// EndDate is set once the record is ending; nil while open-ended
	EndDate *time.Time `db:"end_date" json:"end_date"`

	// SubscriptionStatus is the lifecycle state of the record
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	// AutoRenew controls whether the subscription continues past RenewalDate
	AutoRenew bool `db:"auto_renew" json:"auto_renew"`

	// PaymentRef is an opaque handle into the payment-card store
	PaymentRef string `db:"payment_ref" json:"payment_ref"`

	types.BaseModel
}

// IsCurrent reports whether the record is the one in force for its account.
func (s *Subscription) IsCurrent() bool {
	return s.SubscriptionStatus == types.SubscriptionStatusActive ||
		s.SubscriptionStatus == types.SubscriptionStatusEnding
}
