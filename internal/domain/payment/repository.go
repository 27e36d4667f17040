package payment

import (
	"context"
)

// Repository defines the interface for payment table access
type Repository interface {
	List(ctx context.Context) ([]*Payment, error)
	ReplaceAll(ctx context.Context, pays []*Payment) error
}
