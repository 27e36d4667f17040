package service

import (
	"context"

	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/domain/events"
	"github.com/flexprice/saaskpi/internal/domain/subscription"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

type EventService interface {
	// Derive builds the lifecycle event stream from subscription periods.
	// It draws no randomness.
	Derive(ctx context.Context, customers []*customer.Customer, subs []*subscription.Subscription) ([]*events.Event, error)
	// Run reads customers and subscriptions, derives and replaces the events table.
	Run(ctx context.Context) (*Summary, error)
}

type eventService struct {
	ServiceParams
}

func NewEventService(params ServiceParams) EventService {
	return &eventService{
		ServiceParams: params,
	}
}

func (s *eventService) Derive(ctx context.Context, customers []*customer.Customer, subs []*subscription.Subscription) ([]*events.Event, error) {
	known := customerSet(customers, func(c *customer.Customer) string { return c.ID })
	if err := checkPeriodOwners(types.StageEvents, subs, known); err != nil {
		return nil, err
	}

	order, groups := subscription.GroupByCustomer(subs)
	perCustomer := iter.Map(order, func(customerID *string) []*events.Event {
		return deriveEvents(groups[*customerID])
	})

	evts := lo.Flatten(perCustomer)
	events.SortByCustomerAndDate(evts)

	ids := types.SequentialIDs(types.ID_PREFIX_EVENT, len(evts), types.ID_WIDTH_DEFAULT)
	for i, e := range evts {
		e.ID = ids[i]
	}

	if err := events.ValidateBatch(evts, known); err != nil {
		return nil, err
	}

	return evts, nil
}

func (s *eventService) Run(ctx context.Context) (*Summary, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err := requireUpstream(types.StageEvents, types.TableCustomers, len(customers), err); err != nil {
		return nil, err
	}
	subs, err := s.SubRepo.List(ctx)
	if err := requireUpstream(types.StageEvents, types.TableSubscriptions, len(subs), err); err != nil {
		return nil, err
	}

	evts, err := s.Derive(ctx, customers, subs)
	if err != nil {
		return nil, err
	}

	if err := s.EventRepo.ReplaceAll(ctx, evts); err != nil {
		return nil, err
	}

	return &Summary{
		Stage: types.StageEvents,
		Table: types.TableEvents,
		Rows:  len(evts),
		Breakdowns: []Breakdown{
			NewBreakdown("event_type", evts, func(e *events.Event) string { return string(e.EventType) }),
		},
	}, nil
}

// deriveEvents walks one customer's periods in start order. Each period
// contributes its start-side event (new, reactivation, upgrade or downgrade)
// followed by a churn when it has ended.
func deriveEvents(periods []*subscription.Subscription) []*events.Event {
	var out []*events.Event

	for i, cur := range periods {
		if i == 0 {
			out = append(out, newEvent(cur, types.LifecycleEventNew, nil, &cur.Plan, cur.PriceMRR))
		} else {
			prev := periods[i-1]
			switch {
			case prev.EndDate != nil && cur.StartDate.After(*prev.EndDate):
				out = append(out, newEvent(cur, types.LifecycleEventReactivation, nil, &cur.Plan, cur.PriceMRR))
			case cur.PriceMRR.GreaterThan(prev.PriceMRR):
				out = append(out, newEvent(cur, types.LifecycleEventUpgrade, &prev.Plan, &cur.Plan,
					types.RoundMoney(cur.PriceMRR.Sub(prev.PriceMRR))))
			case cur.PriceMRR.LessThan(prev.PriceMRR):
				out = append(out, newEvent(cur, types.LifecycleEventDowngrade, &prev.Plan, &cur.Plan,
					types.RoundMoney(cur.PriceMRR.Sub(prev.PriceMRR))))
			}
			// an unchanged price over continuous coverage is not an event
		}

		if cur.EndDate != nil {
			churn := newEvent(cur, types.LifecycleEventChurn, &cur.Plan, nil, cur.PriceMRR.Neg())
			churn.EventDate = *cur.EndDate
			out = append(out, churn)
		}
	}

	return out
}

func newEvent(sub *subscription.Subscription, eventType types.LifecycleEventType, from, to *string, delta decimal.Decimal) *events.Event {
	return &events.Event{
		CustomerID: sub.CustomerID,
		EventDate:  sub.StartDate,
		EventType:  eventType,
		PlanFrom:   copyPlan(from),
		PlanTo:     copyPlan(to),
		DeltaMRR:   delta,
	}
}

func copyPlan(p *string) *string {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}

// checkPeriodOwners rejects subscription rows whose customer is unknown
// before anything is derived from them.
func checkPeriodOwners(stage types.Stage, subs []*subscription.Subscription, known map[string]struct{}) error {
	orphans := lo.Uniq(lo.FilterMap(subs, func(sub *subscription.Subscription, _ int) (string, bool) {
		_, ok := known[sub.CustomerID]
		return sub.CustomerID, !ok
	}))
	if len(orphans) == 0 {
		return nil
	}
	return ierr.NewErrorf("subscriptions reference %d unknown customers", len(orphans)).
		WithHintf("Regenerate subscriptions from the current customers table before %s", stage).
		WithReportableDetails(map[string]any{
			"customer_ids": lo.Subset(orphans, 0, 10),
		}).
		Mark(ierr.ErrValidation)
}
