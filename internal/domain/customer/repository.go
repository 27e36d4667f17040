package customer

import (
	"context"
)

// Repository defines the interface for customer table access
type Repository interface {
	// List returns every customer in identifier order
	List(ctx context.Context) ([]*Customer, error)
	// ReplaceAll swaps the whole customers table for the given rows
	ReplaceAll(ctx context.Context, customers []*Customer) error
}
