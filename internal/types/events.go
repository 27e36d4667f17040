package types

import (
	ierr "github.com/flexprice/saaskpi/internal/errors"
)

// LifecycleEventType classifies an MRR movement.
type LifecycleEventType string

const (
	LifecycleEventNew          LifecycleEventType = "new"
	LifecycleEventUpgrade      LifecycleEventType = "upgrade"
	LifecycleEventDowngrade    LifecycleEventType = "downgrade"
	LifecycleEventChurn        LifecycleEventType = "churn"
	LifecycleEventReactivation LifecycleEventType = "reactivation"
)

// LifecycleEventTypes lists every event type in reporting order.
var LifecycleEventTypes = []LifecycleEventType{
	LifecycleEventNew,
	LifecycleEventUpgrade,
	LifecycleEventDowngrade,
	LifecycleEventChurn,
	LifecycleEventReactivation,
}

func (t LifecycleEventType) String() string {
	return string(t)
}

func (t LifecycleEventType) Validate() error {
	for _, known := range LifecycleEventTypes {
		if t == known {
			return nil
		}
	}
	return ierr.NewErrorf("invalid lifecycle event type %q", t).
		Mark(ierr.ErrValidation)
}

// IsExpansion reports whether the event adds MRR.
func (t LifecycleEventType) IsExpansion() bool {
	return t == LifecycleEventNew || t == LifecycleEventUpgrade || t == LifecycleEventReactivation
}
