package events

import (
	"context"
)

// Repository defines the interface for lifecycle event table access
type Repository interface {
	List(ctx context.Context) ([]*Event, error)
	ReplaceAll(ctx context.Context, evts []*Event) error
}
