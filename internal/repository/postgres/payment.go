package postgres

import (
	"context"

	"github.com/capsulebrew/capsulebrew/internal/domain/payment"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/postgres"
	"github.com/capsulebrew/capsulebrew/internal/types"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) ResolvePaymentRef(ctx context.Context, accountID, paymentRef string) (bool, error) {
	query := `
		SELECT COUNT(1) FROM payment_methods
		WHERE
			id = $1 AND
			account_id = $2 AND
			status != $3
	`

	var count int
	q := r.db.GetQuerier(ctx)
	if err := q.GetContext(ctx, &count, query, paymentRef, accountID, types.StatusDeleted); err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to resolve payment reference").
			Mark(ierr.ErrDatabase)
	}

	return count > 0, nil
}
