package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/account"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	*InMemoryStore[*account.Account]
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		InMemoryStore: NewInMemoryStore[*account.Account](),
	}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, acct *account.Account) error {
	if acct == nil {
		return fmt.Errorf("account cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, acct.ID, acct)
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	acct, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return acct, nil
}

func (s *InMemoryAccountStore) GetCreatedAt(ctx context.Context, id string) (time.Time, error) {
	acct, err := s.Get(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	return acct.CreatedAt, nil
}
