package invoice

import (
	"context"
)

// Repository defines the interface for invoice table access
type Repository interface {
	List(ctx context.Context) ([]*Invoice, error)
	ReplaceAll(ctx context.Context, invs []*Invoice) error
}
