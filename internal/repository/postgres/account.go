package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/account"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/postgres"
	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/cockroachdb/errors"
)

type accountRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return &accountRepository{db: db, logger: logger}
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT * FROM accounts WHERE id = $1 AND status != $2`

	var acct account.Account
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &acct, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("account not found").
				WithHintf("Account %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get account").
			Mark(ierr.ErrDatabase)
	}

	return &acct, nil
}

func (r *accountRepository) GetCreatedAt(ctx context.Context, id string) (time.Time, error) {
	acct, err := r.Get(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	return acct.CreatedAt, nil
}
