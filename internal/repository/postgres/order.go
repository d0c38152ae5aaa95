package postgres

import (
	"context"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/order"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/postgres"
)

type orderRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return &orderRepository{db: db, logger: logger}
}

func (r *orderRepository) ListCapsulePurchases(ctx context.Context, accountID string, from, to time.Time) ([]*order.CapsulePurchase, error) {
	query := `
		SELECT id, account_id, quantity, order_date, cancelled
		FROM capsule_purchases
		WHERE
			account_id = $1 AND
			order_date >= $2 AND
			order_date < $3
		ORDER BY order_date ASC
	`

	var purchases []*order.CapsulePurchase
	q := r.db.GetQuerier(ctx)
	if err := q.SelectContext(ctx, &purchases, query, accountID, from, to); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list capsule purchases").
			Mark(ierr.ErrDatabase)
	}

	return purchases, nil
}
