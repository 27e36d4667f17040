package events

import (
	"sort"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/shopspring/decimal"
)

// Event is a derived MRR movement of a customer. Events are never edited;
// they are regenerated from the subscriptions table.
type Event struct {
	ID         string                   `db:"event_id" json:"event_id"`
	CustomerID string                   `db:"customer_id" json:"customer_id"`
	EventDate  time.Time                `db:"event_date" json:"event_date"`
	EventType  types.LifecycleEventType `db:"event_type" json:"event_type"`

	// PlanFrom is nil for new and reactivation events
	PlanFrom *string `db:"plan_from" json:"plan_from,omitempty"`
	// PlanTo is nil for churn events
	PlanTo *string `db:"plan_to" json:"plan_to,omitempty"`

	// DeltaMRR is positive for new, upgrade and reactivation
	DeltaMRR decimal.Decimal `db:"delta_mrr" json:"delta_mrr"`
}

// SortByCustomerAndDate orders events by (customer, event date), keeping the
// emission order of ties.
func SortByCustomerAndDate(evts []*Event) {
	sort.SliceStable(evts, func(i, j int) bool {
		if evts[i].CustomerID != evts[j].CustomerID {
			return evts[i].CustomerID < evts[j].CustomerID
		}
		return evts[i].EventDate.Before(evts[j].EventDate)
	})
}

// ValidateBatch runs the post-generation checks of the events table. The
// events must already be sorted by (customer, event date).
func ValidateBatch(evts []*Event, customerIDs map[string]struct{}) error {
	var vs ierr.Violations

	seen := make(map[string]struct{}, len(evts))
	var (
		current  string
		lastDate time.Time
		running  decimal.Decimal
	)
	floor := types.MRRTolerance.Neg()

	for _, e := range evts {
		if _, dup := seen[e.ID]; dup {
			vs.Add("unique_id", e.ID, "event_id appears more than once")
		}
		seen[e.ID] = struct{}{}

		if _, ok := customerIDs[e.CustomerID]; !ok {
			vs.Add("foreign_key", e.ID, "unknown customer_id %s", e.CustomerID)
		}
		if e.EventDate.IsZero() {
			vs.Add("not_null", e.ID, "event_date is missing")
		}
		if err := e.EventType.Validate(); err != nil {
			vs.Add("event_type", e.ID, "%v", err)
		}

		if e.CustomerID != current {
			current = e.CustomerID
			running = decimal.Zero
		} else if !e.EventDate.After(lastDate) {
			vs.Add("chronological", e.ID, "event_date %s does not follow %s for customer %s",
				types.FormatDate(e.EventDate), types.FormatDate(lastDate), e.CustomerID)
		}
		lastDate = e.EventDate

		running = running.Add(e.DeltaMRR)
		if running.LessThan(floor) {
			vs.Add("non_negative_mrr", e.ID, "running MRR of customer %s drops to %s",
				e.CustomerID, running.String())
		}
	}

	return vs.Err(string(types.StageEvents), types.TableEvents)
}
