package account

import (
	"github.com/capsulebrew/capsulebrew/internal/types"
)

// Account is a customer identity. The creation timestamp is immutable and
// anchors the rolling membership period.
type Account struct {
	// ID is the unique identifier for the account
	ID string `db:"id" json:"id"`

	// Email is the login identity, managed by the auth collaborator
	Email string `db:"email" json:"email"`

	types.BaseModel
}
