package types

import (
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
)

// SubscriptionStatus is derived solely from the presence of a period end date.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// SubscriptionStatusFor returns active when end is nil and canceled otherwise.
func SubscriptionStatusFor(end *time.Time) SubscriptionStatus {
	if end == nil {
		return SubscriptionStatusActive
	}
	return SubscriptionStatusCanceled
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusCanceled:
		return nil
	}
	return ierr.NewErrorf("invalid subscription status %q", s).
		WithHint("Subscription status must be active or canceled").
		Mark(ierr.ErrValidation)
}
