package payment

import (
	"context"
)

// Repository resolves opaque payment references against the payment-card
// store. Card data itself never enters this engine.
type Repository interface {
	// ResolvePaymentRef reports whether the payment reference exists and
	// belongs to the account.
	ResolvePaymentRef(ctx context.Context, accountID, paymentRef string) (bool, error)
}
