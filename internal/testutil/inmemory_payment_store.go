package testutil

import (
	"context"
	"sync"
)

// InMemoryPaymentStore implements payment.Repository over a set of
// account-scoped payment references.
type InMemoryPaymentStore struct {
	mu   sync.RWMutex
	refs map[string]map[string]bool // accountID -> paymentRef set
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		refs: make(map[string]map[string]bool),
	}
}

// AddPaymentRef registers a payment reference for the account
func (s *InMemoryPaymentStore) AddPaymentRef(accountID, paymentRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs[accountID] == nil {
		s.refs[accountID] = make(map[string]bool)
	}
	s.refs[accountID][paymentRef] = true
}

func (s *InMemoryPaymentStore) ResolvePaymentRef(ctx context.Context, accountID, paymentRef string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refs[accountID][paymentRef], nil
}

func (s *InMemoryPaymentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = make(map[string]map[string]bool)
}
