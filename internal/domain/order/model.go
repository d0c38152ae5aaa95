package order

import (
	"time"
)

// CapsulePurchase is one order line item of capsule-category product,
// quantified in sleeves. Read-only to this engine; the order system owns
// the rows. Cancelled purchases never count toward membership tier.
type CapsulePurchase struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	OrderDate time.Time `db:"order_date" json:"order_date"`
	Cancelled bool      `db:"cancelled" json:"cancelled"`
}
