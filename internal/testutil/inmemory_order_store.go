package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/order"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.CapsulePurchase]
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.CapsulePurchase](),
	}
}

func (s *InMemoryOrderStore) Create(ctx context.Context, purchase *order.CapsulePurchase) error {
	if purchase == nil {
		return fmt.Errorf("purchase cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, purchase.ID, purchase)
}

func (s *InMemoryOrderStore) ListCapsulePurchases(ctx context.Context, accountID string, from, to time.Time) ([]*order.CapsulePurchase, error) {
	return s.List(ctx, nil, func(ctx context.Context, p *order.CapsulePurchase, _ interface{}) bool {
		return p.AccountID == accountID &&
			!p.OrderDate.Before(from) && p.OrderDate.Before(to)
	}, func(i, j *order.CapsulePurchase) bool {
		return i.OrderDate.Before(j.OrderDate)
	})
}
