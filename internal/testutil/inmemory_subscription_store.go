package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/subscription"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/types"
)

// InMemorySubscriptionStore implements subscription.Repository. It enforces
// the same per-account uniqueness the partial unique indexes enforce in
// postgres: at most one active-or-ending record and at most one scheduled
// record per account.
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

func subscriptionSortFn(i, j *subscription.Subscription) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

// isCurrentRecord matches the idx_subscriptions_one_current predicate: only
// rows in force count, so a record superseded by an upgrade (ending with row
// status inactive) can coexist with its replacement.
func isCurrentRecord(sub *subscription.Subscription) bool {
	return sub.Status == types.StatusActive &&
		(sub.SubscriptionStatus == types.SubscriptionStatusActive ||
			sub.SubscriptionStatus == types.SubscriptionStatusEnding)
}

func isScheduledRecord(sub *subscription.Subscription) bool {
	return sub.Status != types.StatusDeleted &&
		sub.SubscriptionStatus == types.SubscriptionStatusScheduled
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return fmt.Errorf("subscription cannot be nil")
	}

	if err := s.checkUniqueness(ctx, sub); err != nil {
		return err
	}

	clone := *sub
	return s.InMemoryStore.Create(ctx, sub.ID, &clone)
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || sub.Status == types.StatusDeleted {
		return nil, ierr.NewError("subscription not found").
			WithHintf("Subscription with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	clone := *sub
	return &clone, nil
}

func (s *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return fmt.Errorf("subscription cannot be nil")
	}

	if err := s.checkUniqueness(ctx, sub); err != nil {
		return err
	}

	clone := *sub
	if err := s.InMemoryStore.Update(ctx, sub.ID, &clone); err != nil {
		return ierr.NewError("subscription not found").
			WithHintf("Subscription with ID %s was not found", sub.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemorySubscriptionStore) GetActiveOrEnding(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	subs, _ := s.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return sub.AccountID == accountID && isCurrentRecord(sub)
	}, subscriptionSortFn)

	if len(subs) == 0 {
		return nil, ierr.NewError("no current subscription").
			WithHintf("Account %s has no active subscription", accountID).
			Mark(ierr.ErrNotFound)
	}
	clone := *subs[0]
	return &clone, nil
}

func (s *InMemorySubscriptionStore) GetScheduled(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	subs, _ := s.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return sub.AccountID == accountID && isScheduledRecord(sub)
	}, subscriptionSortFn)

	if len(subs) == 0 {
		return nil, ierr.NewError("no scheduled subscription").
			WithHintf("Account %s has no scheduled subscription", accountID).
			Mark(ierr.ErrNotFound)
	}
	clone := *subs[0]
	return &clone, nil
}

func (s *InMemorySubscriptionStore) CancelAll(ctx context.Context, accountID string) error {
	subs, _ := s.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return sub.AccountID == accountID &&
			sub.Status != types.StatusDeleted &&
			sub.SubscriptionStatus != types.SubscriptionStatusCancelled
	}, nil)

	for _, sub := range subs {
		clone := *sub
		clone.SubscriptionStatus = types.SubscriptionStatusCancelled
		clone.Status = types.StatusInactive
		if err := s.InMemoryStore.Update(ctx, clone.ID, &clone); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemorySubscriptionStore) DeleteScheduled(ctx context.Context, accountID string) error {
	subs, _ := s.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return sub.AccountID == accountID && isScheduledRecord(sub)
	}, nil)

	for _, sub := range subs {
		clone := *sub
		clone.Status = types.StatusDeleted
		if err := s.InMemoryStore.Update(ctx, clone.ID, &clone); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemorySubscriptionStore) ListDueScheduled(ctx context.Context, asOf time.Time) ([]*subscription.Subscription, error) {
	return s.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return isScheduledRecord(sub) && !sub.StartDate.After(asOf)
	}, subscriptionSortFn)
}

func (s *InMemorySubscriptionStore) ListExpiredEnding(ctx context.Context, asOf time.Time) ([]*subscription.Subscription, error) {
	return s.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return sub.Status != types.StatusDeleted &&
			sub.SubscriptionStatus == types.SubscriptionStatusEnding &&
			sub.EndDate != nil && !sub.EndDate.After(asOf)
	}, subscriptionSortFn)
}

// checkUniqueness rejects a write that would leave an account with two
// current records or two scheduled records, mirroring the partial unique
// indexes in postgres.
func (s *InMemorySubscriptionStore) checkUniqueness(ctx context.Context, candidate *subscription.Subscription) error {
	if !isCurrentRecord(candidate) && !isScheduledRecord(candidate) {
		return nil
	}

	conflicts, _ := s.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		if sub.ID == candidate.ID || sub.AccountID != candidate.AccountID {
			return false
		}
		if isCurrentRecord(candidate) {
			return isCurrentRecord(sub)
		}
		return isScheduledRecord(sub)
	}, nil)

	if len(conflicts) > 0 {
		return ierr.NewError("subscription already exists").
			WithHintf("Account %s already has a subscription in this state", candidate.AccountID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}
