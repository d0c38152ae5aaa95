package subscription

import (
	"context"
	"time"
)

// Repository is the subscription ledger: the single source of truth for an
// account's subscription rows. Implementations must make multi-row mutations
// atomic under the transaction carried in the context so the one-current /
// one-scheduled invariants are never observably violated.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error

	// GetActiveOrEnding returns the single record in force for the account,
	// or ErrNotFound when the account has no current subscription.
	GetActiveOrEnding(ctx context.Context, accountID string) (*Subscription, error)

	// GetScheduled returns the account's pending scheduled record, or
	// ErrNotFound when none is pending.
	GetScheduled(ctx context.Context, accountID string) (*Subscription, error)

	// CancelAll marks every non-cancelled record for the account cancelled
	// and inactive. Used by full resets.
	CancelAll(ctx context.Context, accountID string) error

	// DeleteScheduled removes the account's pending scheduled record, if
	// any. A newer scheduling request always supersedes the old one.
	DeleteScheduled(ctx context.Context, accountID string) error

	// ListDueScheduled returns scheduled records whose start date is at or
	// before asOf, across all accounts.
	ListDueScheduled(ctx context.Context, asOf time.Time) ([]*Subscription, error)

	// ListExpiredEnding returns ending records whose end date is at or
	// before asOf, across all accounts.
	ListExpiredEnding(ctx context.Context, asOf time.Time) ([]*Subscription, error)
}
