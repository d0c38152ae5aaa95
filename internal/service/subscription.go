package service

import (
	"context"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/api/dto"
	"github.com/capsulebrew/capsulebrew/internal/domain/subscription"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/shopspring/decimal"
)

// SubscriptionService coordinates subscription lifecycle transitions.
// Upgrades cut over immediately; downgrades and lateral moves are scheduled
// at the renewal boundary so the customer keeps the plan they already paid
// for. Every mutation runs inside one transaction under a per-account lock.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	ChangePlan(ctx context.Context, req dto.ChangePlanRequest) (*dto.PlanChangeResponse, error)
	CancelSubscription(ctx context.Context, accountID string) (*dto.SubscriptionResponse, error)
	ToggleAutoRenew(ctx context.Context, accountID string) (*dto.ToggleAutoRenewResponse, error)
	UpdatePaymentMethod(ctx context.Context, req dto.UpdatePaymentMethodRequest) (*dto.SubscriptionResponse, error)
	GetCurrentAndScheduled(ctx context.Context, accountID string) (*dto.SubscriptionOverviewResponse, error)

	// ProcessDueTransitions is the reconciliation sweep: it retires ending
	// records whose end date has passed and activates scheduled records
	// whose start date has arrived. Intended to be run daily by an
	// external scheduler; safe to re-run.
	ProcessDueTransitions(ctx context.Context, asOf time.Time) (*dto.ProcessTransitionsResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.verifyPaymentRef(ctx, req.AccountID, req.PaymentRef); err != nil {
		return nil, err
	}

	price, err := types.PlanPrice(req.PlanTier, req.BillingCycle)
	if err != nil {
		return nil, err
	}

	s.AccountLocks.Lock(req.AccountID)
	defer s.AccountLocks.Unlock(req.AccountID)

	now := time.Now().UTC()
	renewalDate, err := types.NextRenewalDate(now, req.BillingCycle)
	if err != nil {
		return nil, err
	}

	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		LookupKey:          types.GenerateShortID(),
		AccountID:          req.AccountID,
		PlanTier:           req.PlanTier,
		BillingCycle:       req.BillingCycle,
		Price:              price,
		StartDate:          now,
		RenewalDate:        renewalDate,
		SubscriptionStatus: types.SubscriptionStatusActive,
		AutoRenew:          req.PlanTier != types.PlanTierFree,
		PaymentRef:         req.PaymentRef,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		// a fresh subscription supersedes every prior record, including
		// strays left behind by incomplete earlier flows
		if err := s.SubRepo.CancelAll(txCtx, req.AccountID); err != nil {
			return err
		}
		return s.SubRepo.Create(txCtx, sub)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription",
		"account_id", req.AccountID,
		"subscription_id", sub.ID,
		"plan_tier", req.PlanTier,
		"billing_cycle", req.BillingCycle,
	)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ChangePlan(ctx context.Context, req dto.ChangePlanRequest) (*dto.PlanChangeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.verifyPaymentRef(ctx, req.AccountID, req.PaymentRef); err != nil {
		return nil, err
	}

	price, err := types.PlanPrice(req.PlanTier, req.BillingCycle)
	if err != nil {
		return nil, err
	}

	s.AccountLocks.Lock(req.AccountID)
	defer s.AccountLocks.Unlock(req.AccountID)

	var resp *dto.PlanChangeResponse
	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.SubRepo.GetActiveOrEnding(txCtx, req.AccountID)
		if err != nil {
			if ierr.IsNotFound(err) {
				return ierr.NewError("no active subscription to change from").
					WithHint("Create a subscription before changing plans").
					Mark(ierr.ErrInvalidOperation)
			}
			return err
		}

		// a new plan-change request always supersedes a pending one
		if err := s.SubRepo.DeleteScheduled(txCtx, req.AccountID); err != nil {
			return err
		}

		changeType := types.ChangeTypeForTiers(current.PlanTier, req.PlanTier)
		if changeType == types.SubscriptionChangeTypeUpgrade {
			resp, err = s.executeUpgrade(txCtx, current, req, price)
		} else {
			resp, err = s.scheduleDowngrade(txCtx, current, req, price, changeType)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("plan change applied",
		"account_id", req.AccountID,
		"target_tier", req.PlanTier,
		"change_type", resp.ChangeType,
		"effective_date", resp.EffectiveDate,
	)

	return resp, nil
}

// executeUpgrade cuts the current record over immediately: the customer is
// paying more and gets the new plan right away.
func (s *subscriptionService) executeUpgrade(
	ctx context.Context,
	current *subscription.Subscription,
	req dto.ChangePlanRequest,
	price decimal.Decimal,
) (*dto.PlanChangeResponse, error) {
	now := time.Now().UTC()

	current.SubscriptionStatus = types.SubscriptionStatusEnding
	current.EndDate = &now
	current.AutoRenew = false
	current.Status = types.StatusInactive
	current.Touch(ctx)
	if err := s.SubRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	renewalDate, err := types.NextRenewalDate(now, req.BillingCycle)
	if err != nil {
		return nil, err
	}

	paymentRef := req.PaymentRef
	if paymentRef == "" {
		paymentRef = current.PaymentRef
	}

	next := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		LookupKey:          types.GenerateShortID(),
		AccountID:          req.AccountID,
		PlanTier:           req.PlanTier,
		BillingCycle:       req.BillingCycle,
		Price:              price,
		StartDate:          now,
		RenewalDate:        renewalDate,
		SubscriptionStatus: types.SubscriptionStatusActive,
		AutoRenew:          true,
		PaymentRef:         paymentRef,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	if err := s.SubRepo.Create(ctx, next); err != nil {
		return nil, err
	}

	return &dto.PlanChangeResponse{
		ChangeType:    types.SubscriptionChangeTypeUpgrade,
		EffectiveDate: now,
		Subscription:  &dto.SubscriptionResponse{Subscription: next},
	}, nil
}

// scheduleDowngrade defers the transition to the renewal boundary: the
// current record stays in force until its natural end, which avoids
// mid-cycle refunds entirely.
func (s *subscriptionService) scheduleDowngrade(
	ctx context.Context,
	current *subscription.Subscription,
	req dto.ChangePlanRequest,
	price decimal.Decimal,
	changeType types.SubscriptionChangeType,
) (*dto.PlanChangeResponse, error) {
	endDate := current.RenewalDate

	current.SubscriptionStatus = types.SubscriptionStatusEnding
	current.EndDate = &endDate
	current.AutoRenew = false
	current.Touch(ctx)
	if err := s.SubRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	renewalDate, err := types.NextRenewalDate(endDate, req.BillingCycle)
	if err != nil {
		return nil, err
	}

	paymentRef := req.PaymentRef
	if paymentRef == "" {
		paymentRef = current.PaymentRef
	}

	scheduled := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		LookupKey:          types.GenerateShortID(),
		AccountID:          req.AccountID,
		PlanTier:           req.PlanTier,
		BillingCycle:       req.BillingCycle,
		Price:              price,
		StartDate:          endDate,
		RenewalDate:        renewalDate,
		SubscriptionStatus: types.SubscriptionStatusScheduled,
		AutoRenew:          req.PlanTier != types.PlanTierFree,
		PaymentRef:         paymentRef,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	// scheduled records are not in force until the sweep activates them
	scheduled.Status = types.StatusInactive

	if err := s.SubRepo.Create(ctx, scheduled); err != nil {
		return nil, err
	}

	return &dto.PlanChangeResponse{
		ChangeType:    changeType,
		EffectiveDate: endDate,
		CurrentEnds:   &endDate,
		Subscription:  &dto.SubscriptionResponse{Subscription: scheduled},
	}, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, accountID string) (*dto.SubscriptionResponse, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation)
	}

	s.AccountLocks.Lock(accountID)
	defer s.AccountLocks.Unlock(accountID)

	var sub *subscription.Subscription
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.getCurrentOrPreconditionErr(txCtx, accountID)
		if err != nil {
			return err
		}

		// cancellation only stops renewal: the customer keeps access
		// until the renewal date
		current.AutoRenew = false
		current.Touch(txCtx)
		if err := s.SubRepo.Update(txCtx, current); err != nil {
			return err
		}
		sub = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription cancelled",
		"account_id", accountID,
		"subscription_id", sub.ID,
		"renewal_date", sub.RenewalDate,
	)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ToggleAutoRenew(ctx context.Context, accountID string) (*dto.ToggleAutoRenewResponse, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation)
	}

	s.AccountLocks.Lock(accountID)
	defer s.AccountLocks.Unlock(accountID)

	var autoRenew bool
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.getCurrentOrPreconditionErr(txCtx, accountID)
		if err != nil {
			return err
		}

		current.AutoRenew = !current.AutoRenew
		current.Touch(txCtx)
		if err := s.SubRepo.Update(txCtx, current); err != nil {
			return err
		}
		autoRenew = current.AutoRenew
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.ToggleAutoRenewResponse{
		AccountID: accountID,
		AutoRenew: autoRenew,
	}, nil
}

func (s *subscriptionService) UpdatePaymentMethod(ctx context.Context, req dto.UpdatePaymentMethodRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.verifyPaymentRef(ctx, req.AccountID, req.PaymentRef); err != nil {
		return nil, err
	}

	s.AccountLocks.Lock(req.AccountID)
	defer s.AccountLocks.Unlock(req.AccountID)

	var sub *subscription.Subscription
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.getCurrentOrPreconditionErr(txCtx, req.AccountID)
		if err != nil {
			return err
		}

		current.PaymentRef = req.PaymentRef
		current.Touch(txCtx)
		if err := s.SubRepo.Update(txCtx, current); err != nil {
			return err
		}
		sub = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetCurrentAndScheduled(ctx context.Context, accountID string) (*dto.SubscriptionOverviewResponse, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation)
	}

	resp := &dto.SubscriptionOverviewResponse{}

	current, err := s.SubRepo.GetActiveOrEnding(ctx, accountID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if current != nil {
		resp.Current = &dto.SubscriptionResponse{Subscription: current}
	}

	scheduled, err := s.SubRepo.GetScheduled(ctx, accountID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if scheduled != nil {
		resp.Scheduled = &dto.SubscriptionResponse{Subscription: scheduled}
	}

	return resp, nil
}

func (s *subscriptionService) ProcessDueTransitions(ctx context.Context, asOf time.Time) (*dto.ProcessTransitionsResponse, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	resp := &dto.ProcessTransitionsResponse{}

	// retire ending records first so due scheduled records find no
	// current record standing in their way
	expired, err := s.SubRepo.ListExpiredEnding(ctx, asOf)
	if err != nil {
		return nil, err
	}
	for _, sub := range expired {
		retired, err := s.retireEnding(ctx, sub.AccountID, sub.ID)
		if err != nil {
			s.Logger.Errorw("failed to retire ending subscription",
				"subscription_id", sub.ID,
				"account_id", sub.AccountID,
				"error", err,
			)
			continue
		}
		if retired {
			resp.RetiredCount++
		}
	}

	due, err := s.SubRepo.ListDueScheduled(ctx, asOf)
	if err != nil {
		return nil, err
	}
	for _, sub := range due {
		activated, err := s.activateScheduled(ctx, sub.AccountID, sub.ID)
		if err != nil {
			s.Logger.Errorw("failed to activate scheduled subscription",
				"subscription_id", sub.ID,
				"account_id", sub.AccountID,
				"error", err,
			)
			continue
		}
		if activated {
			resp.ActivatedCount++
		}
	}

	s.Logger.Infow("processed due subscription transitions",
		"as_of", asOf,
		"retired", resp.RetiredCount,
		"activated", resp.ActivatedCount,
	)

	return resp, nil
}

// retireEnding reports whether the record actually transitioned; skipped
// records do not count toward the sweep totals.
func (s *subscriptionService) retireEnding(ctx context.Context, accountID, subscriptionID string) (bool, error) {
	s.AccountLocks.Lock(accountID)
	defer s.AccountLocks.Unlock(accountID)

	retired := false
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		sub, err := s.SubRepo.Get(txCtx, subscriptionID)
		if err != nil {
			return err
		}
		// re-checked under the lock: a concurrent plan change may already
		// have moved the record on
		if sub.SubscriptionStatus != types.SubscriptionStatusEnding {
			return nil
		}

		sub.SubscriptionStatus = types.SubscriptionStatusCancelled
		sub.Status = types.StatusInactive
		sub.Touch(txCtx)
		if err := s.SubRepo.Update(txCtx, sub); err != nil {
			return err
		}
		retired = true
		return nil
	})
	return retired, err
}

// activateScheduled reports whether the record actually went active; a
// record still waiting on its predecessor is not counted.
func (s *subscriptionService) activateScheduled(ctx context.Context, accountID, subscriptionID string) (bool, error) {
	s.AccountLocks.Lock(accountID)
	defer s.AccountLocks.Unlock(accountID)

	activated := false
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		sub, err := s.SubRepo.Get(txCtx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.SubscriptionStatus != types.SubscriptionStatusScheduled {
			return nil
		}

		// the record it supersedes must be gone before it activates
		if _, err := s.SubRepo.GetActiveOrEnding(txCtx, accountID); err == nil {
			s.Logger.Debugw("scheduled subscription waiting on current record",
				"subscription_id", sub.ID,
				"account_id", accountID,
			)
			return nil
		} else if !ierr.IsNotFound(err) {
			return err
		}

		sub.SubscriptionStatus = types.SubscriptionStatusActive
		sub.Status = types.StatusActive
		sub.Touch(txCtx)
		if err := s.SubRepo.Update(txCtx, sub); err != nil {
			return err
		}
		activated = true
		return nil
	})
	return activated, err
}

func (s *subscriptionService) getCurrentOrPreconditionErr(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	current, err := s.SubRepo.GetActiveOrEnding(ctx, accountID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("no active subscription").
				WithHint("The account has no active subscription").
				Mark(ierr.ErrInvalidOperation)
		}
		return nil, err
	}
	return current, nil
}

// verifyPaymentRef checks that a non-empty payment reference belongs to the
// account. Ownership data lives with the payment collaborator.
func (s *subscriptionService) verifyPaymentRef(ctx context.Context, accountID, paymentRef string) error {
	if paymentRef == "" {
		return nil
	}

	ok, err := s.PaymentRepo.ResolvePaymentRef(ctx, accountID, paymentRef)
	if err != nil {
		return err
	}
	if !ok {
		return ierr.NewError("payment reference not found").
			WithHint("The payment method does not belong to this account").
			WithReportableDetails(map[string]any{
				"payment_ref": paymentRef,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
