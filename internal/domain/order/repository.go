package order

import (
	"context"
	"time"
)

// Repository provides read access to capsule purchase history.
type Repository interface {
	// ListCapsulePurchases returns all capsule-category purchases for the
	// account with order dates in [from, to). Cancelled purchases are
	// included; callers filter them out.
	ListCapsulePurchases(ctx context.Context, accountID string, from, to time.Time) ([]*CapsulePurchase, error)
}
