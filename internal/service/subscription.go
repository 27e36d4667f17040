package service

import (
	"context"
	"math"
	"time"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/domain/subscription"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/flexprice/saaskpi/internal/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

type SubscriptionService interface {
	// Generate allocates one or two non-overlapping periods per customer.
	Generate(ctx context.Context, customers []*customer.Customer, today time.Time) ([]*subscription.Subscription, error)
	// Run reads the customers table, generates and replaces the subscriptions table.
	Run(ctx context.Context, today time.Time) (*Summary, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) Generate(ctx context.Context, customers []*customer.Customer, today time.Time) ([]*subscription.Subscription, error) {
	cfg := s.Config.Generation.Subscriptions
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, c := range customers {
		if _, ok := cfg.PlanMixFor(c.Segment); !ok {
			return nil, ierr.NewErrorf("customer %s has segment %q without a plan mix", c.ID, c.Segment).
				WithHint("Add the segment to generation.subscriptions.segment_plans or set default_segment").
				Mark(ierr.ErrValidation)
		}
	}

	root := utils.NewRandom(cfg.Seed)
	perCustomer := iter.Map(lo.Range(len(customers)), func(i *int) []*subscription.Subscription {
		return allocatePeriods(root.Stream(*i), cfg, customers[*i], today)
	})

	subs := lo.Flatten(perCustomer)
	subscription.SortByCustomerAndStart(subs)

	ids := types.SequentialIDs(types.ID_PREFIX_SUBSCRIPTION, len(subs), types.ID_WIDTH_DEFAULT)
	for i, sub := range subs {
		sub.ID = ids[i]
	}

	signups := make(map[string]time.Time, len(customers))
	for _, c := range customers {
		signups[c.ID] = c.SignupDate
	}
	if err := subscription.ValidateBatch(subs, signups); err != nil {
		return nil, err
	}

	return subs, nil
}

func (s *subscriptionService) Run(ctx context.Context, today time.Time) (*Summary, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err := requireUpstream(types.StageSubscriptions, types.TableCustomers, len(customers), err); err != nil {
		return nil, err
	}

	subs, err := s.Generate(ctx, customers, today)
	if err != nil {
		return nil, err
	}

	if err := s.SubRepo.ReplaceAll(ctx, subs); err != nil {
		return nil, err
	}

	return &Summary{
		Stage: types.StageSubscriptions,
		Table: types.TableSubscriptions,
		Rows:  len(subs),
		Breakdowns: []Breakdown{
			NewBreakdown("status", subs, func(sub *subscription.Subscription) string { return string(sub.Status) }),
			NewBreakdown("plan", subs, func(sub *subscription.Subscription) string { return sub.Plan }),
		},
	}, nil
}

// allocatePeriods draws the lifecycle of one customer: a first period and,
// when that one was canceled, possibly a reactivation after a gap.
func allocatePeriods(rng *utils.Random, cfg config.SubscriptionsConfig, c *customer.Customer, today time.Time) []*subscription.Subscription {
	mix, _ := cfg.PlanMixFor(c.Segment)

	start := types.AddDays(c.SignupDate, rng.IntBetween(cfg.StartDelayDays))
	first := drawPeriod(rng, cfg, mix, c.ID, start, cfg.ActiveProbability, today)
	periods := []*subscription.Subscription{first}

	if first.IsActive() || !rng.Bernoulli(cfg.ReactivationProbability) {
		return periods
	}

	restart := types.AddDays(*first.EndDate, rng.IntBetween(cfg.ReactivationGapDays))
	second := drawPeriod(rng, cfg, mix, c.ID, restart, cfg.ReactivationActiveProbability, today)
	return append(periods, second)
}

// drawPeriod samples length, plan, price and status of a period starting at
// start. A period stays active only when the draw favors it and its natural
// end is still after today.
func drawPeriod(
	rng *utils.Random,
	cfg config.SubscriptionsConfig,
	mix types.Mix,
	customerID string,
	start time.Time,
	activeProbability float64,
	today time.Time,
) *subscription.Subscription {
	months := rng.IntBetween(cfg.PeriodMonths)
	end := types.PeriodEnd(start, months)

	plan := rng.Pick(mix)
	price := drawPrice(rng, cfg, plan)

	var endDate *time.Time
	if !(rng.Bernoulli(activeProbability) && end.After(today)) {
		endDate = lo.ToPtr(end)
	}

	return &subscription.Subscription{
		CustomerID: customerID,
		StartDate:  start,
		EndDate:    endDate,
		Plan:       plan,
		PriceMRR:   price,
		Status:     types.SubscriptionStatusFor(endDate),
	}
}

func drawPrice(rng *utils.Random, cfg config.SubscriptionsConfig, plan string) decimal.Decimal {
	band, _ := cfg.PriceBand(plan)
	base := rng.UniformBetween(band)
	noise := base * rng.Uniform(-cfg.PriceNoisePct, cfg.PriceNoisePct)
	return types.MoneyFromFloat(math.Max(cfg.MinPrice, base+noise))
}
