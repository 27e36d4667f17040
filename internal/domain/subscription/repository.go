package subscription

import (
	"context"
)

// Repository defines the interface for subscription table access
type Repository interface {
	List(ctx context.Context) ([]*Subscription, error)
	ReplaceAll(ctx context.Context, subs []*Subscription) error
}
