package account

import (
	"context"
	"time"
)

// Repository provides read access to accounts. Account writes belong to the
// identity collaborator; the engine only needs creation timestamps.
type Repository interface {
	Get(ctx context.Context, id string) (*Account, error)
	GetCreatedAt(ctx context.Context, id string) (time.Time, error)
}
