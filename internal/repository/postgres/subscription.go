package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/subscription"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/postgres"
	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id,
			lookup_key,
			account_id,
			plan_tier,
			billing_cycle,
			price,
			start_date,
			renewal_date,
			end_date,
			subscription_status,
			auto_renew,
			payment_ref,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:lookup_key,
			:account_id,
			:plan_tier,
			:billing_cycle,
			:price,
			:start_date,
			:renewal_date,
			:end_date,
			:subscription_status,
			:auto_renew,
			:payment_ref,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		if isUniqueViolation(err) {
			// the partial unique indexes guard the one-current and
			// one-scheduled invariants under concurrent writers
			return ierr.WithError(err).
				WithHint("A conflicting subscription change was applied concurrently").
				WithReportableDetails(map[string]any{
					"account_id": sub.AccountID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create subscription").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE id = $1 AND status != $2`

	var sub subscription.Subscription
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &sub, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("subscription not found").
				WithHintf("Subscription %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions
		SET
			subscription_status = :subscription_status,
			renewal_date = :renewal_date,
			end_date = :end_date,
			auto_renew = :auto_renew,
			payment_ref = :payment_ref,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, sub)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A conflicting subscription change was applied concurrently").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to update subscription").
			Mark(ierr.ErrDatabase)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ierr.NewError("subscription not found").
			WithHintf("Subscription %s does not exist", sub.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *subscriptionRepository) GetActiveOrEnding(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	// status = 'active' scopes the match to the row in force; records
	// superseded by an upgrade stay 'ending' but drop to 'inactive'
	query := `
		SELECT * FROM subscriptions
		WHERE
			account_id = $1 AND
			subscription_status IN ($2, $3) AND
			status = $4
		LIMIT 1
	`

	var sub subscription.Subscription
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &sub, query,
		accountID,
		types.SubscriptionStatusActive,
		types.SubscriptionStatusEnding,
		types.StatusActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("no current subscription").
				WithHint("The account has no active subscription").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get current subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func (r *subscriptionRepository) GetScheduled(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			account_id = $1 AND
			subscription_status = $2 AND
			status != $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var sub subscription.Subscription
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &sub, query,
		accountID,
		types.SubscriptionStatusScheduled,
		types.StatusDeleted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("no scheduled subscription").
				WithHint("The account has no scheduled subscription").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get scheduled subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func (r *subscriptionRepository) CancelAll(ctx context.Context, accountID string) error {
	query := `
		UPDATE subscriptions
		SET
			subscription_status = $1,
			status = $2,
			updated_at = $3,
			updated_by = $4
		WHERE
			account_id = $5 AND
			subscription_status != $1 AND
			status != $6
	`

	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, query,
		types.SubscriptionStatusCancelled,
		types.StatusInactive,
		time.Now().UTC(),
		types.GetUserID(ctx),
		accountID,
		types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to cancel existing subscriptions").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *subscriptionRepository) DeleteScheduled(ctx context.Context, accountID string) error {
	query := `
		UPDATE subscriptions
		SET
			status = $1,
			updated_at = $2,
			updated_by = $3
		WHERE
			account_id = $4 AND
			subscription_status = $5 AND
			status != $1
	`

	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, query,
		types.StatusDeleted,
		time.Now().UTC(),
		types.GetUserID(ctx),
		accountID,
		types.SubscriptionStatusScheduled,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete scheduled subscription").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *subscriptionRepository) ListDueScheduled(ctx context.Context, asOf time.Time) ([]*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			subscription_status = $1 AND
			status != $2 AND
			start_date <= $3
		ORDER BY start_date ASC
	`

	return r.list(ctx, query, types.SubscriptionStatusScheduled, types.StatusDeleted, asOf)
}

func (r *subscriptionRepository) ListExpiredEnding(ctx context.Context, asOf time.Time) ([]*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			subscription_status = $1 AND
			status != $2 AND
			end_date IS NOT NULL AND
			end_date <= $3
		ORDER BY end_date ASC
	`

	return r.list(ctx, query, types.SubscriptionStatusEnding, types.StatusDeleted, asOf)
}

func (r *subscriptionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	q := r.db.GetQuerier(ctx)
	if err := q.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscriptions").
			Mark(ierr.ErrDatabase)
	}
	return subs, nil
}

// isUniqueViolation reports whether the error is a postgres unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
