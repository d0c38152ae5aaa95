package dto

import (
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/subscription"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/types"
)

// CreateSubscriptionRequest starts a fresh subscription for an account,
// cancelling anything that came before it.
type CreateSubscriptionRequest struct {
	AccountID    string             `json:"account_id" binding:"required"`
	PlanTier     types.PlanTier     `json:"plan_tier" binding:"required"`
	BillingCycle types.BillingCycle `json:"billing_cycle" binding:"required"`
	PaymentRef   string             `json:"payment_ref"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if r.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation)
	}
	if err := r.PlanTier.Validate(); err != nil {
		return err
	}
	if err := r.BillingCycle.Validate(); err != nil {
		return err
	}
	if r.PlanTier != types.PlanTierFree && r.PaymentRef == "" {
		return ierr.NewError("payment_ref is required for paid plans").
			WithHint("Please provide a payment method").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ChangePlanRequest moves an account's current subscription to another plan.
type ChangePlanRequest struct {
	AccountID    string             `json:"account_id" binding:"required"`
	PlanTier     types.PlanTier     `json:"plan_tier" binding:"required"`
	BillingCycle types.BillingCycle `json:"billing_cycle" binding:"required"`
	PaymentRef   string             `json:"payment_ref"`
}

func (r *ChangePlanRequest) Validate() error {
	if r.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation)
	}
	if err := r.PlanTier.Validate(); err != nil {
		return err
	}
	return r.BillingCycle.Validate()
}

// UpdatePaymentMethodRequest reassigns the payment reference on the
// account's current subscription.
type UpdatePaymentMethodRequest struct {
	AccountID  string `json:"account_id" binding:"required"`
	PaymentRef string `json:"payment_ref" binding:"required"`
}

func (r *UpdatePaymentMethodRequest) Validate() error {
	if r.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation)
	}
	if r.PaymentRef == "" {
		return ierr.NewError("payment_ref is required").
			WithHint("Please provide a payment method").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionResponse is the API shape of a subscription record
type SubscriptionResponse struct {
	*subscription.Subscription
}

// PlanChangeResponse describes the outcome of a plan change. Upgrades carry
// the new active record; downgrades carry the scheduled record and the date
// the current plan ends.
type PlanChangeResponse struct {
	ChangeType    types.SubscriptionChangeType `json:"change_type"`
	EffectiveDate time.Time                    `json:"effective_date"`
	CurrentEnds   *time.Time                   `json:"current_ends,omitempty"`
	Subscription  *SubscriptionResponse        `json:"subscription"`
}

// SubscriptionOverviewResponse returns the record in force plus any pending
// scheduled record.
type SubscriptionOverviewResponse struct {
	Current   *SubscriptionResponse `json:"current"`
	Scheduled *SubscriptionResponse `json:"scheduled"`
}

// ToggleAutoRenewResponse carries the new auto-renew value
type ToggleAutoRenewResponse struct {
	AccountID string `json:"account_id"`
	AutoRenew bool   `json:"auto_renew"`
}

// ProcessTransitionsResponse summarises one reconciliation sweep
type ProcessTransitionsResponse struct {
	ActivatedCount int `json:"activated_count"`
	RetiredCount   int `json:"retired_count"`
}
