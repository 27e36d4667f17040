package service

import (
	"context"
	"time"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/flexprice/saaskpi/internal/utils"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"
)

// signup dates are drawn with a linear ramp from oldest to newest day
const (
	signupWeightOldest = 0.6
	signupWeightNewest = 1.0
)

type CustomerService interface {
	// Generate builds the customers table for today. It is a pure function of
	// the configuration and today.
	Generate(ctx context.Context, today time.Time) ([]*customer.Customer, error)
	// Run generates the table and replaces the stored one.
	Run(ctx context.Context, today time.Time) (*Summary, error)
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) Generate(ctx context.Context, today time.Time) ([]*customer.Customer, error) {
	cfg := s.Config.Generation.Customers
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	window := newSignupWindow(today, cfg.MonthsBack)
	ids := types.SequentialIDs(types.ID_PREFIX_CUSTOMER, cfg.Count, types.ID_WIDTH_CUSTOMER)
	root := utils.NewRandom(cfg.Seed)

	customers := iter.Map(lo.Range(len(ids)), func(i *int) *customer.Customer {
		return generateCustomer(root.Stream(*i), cfg, window, ids[*i])
	})

	if err := customer.ValidateBatch(customers, cfg.Count, today); err != nil {
		return nil, err
	}

	s.Logger.Debugw("generated customers",
		"count", len(customers),
		"window_start", types.FormatDate(window.start),
		"window_end", types.FormatDate(window.end))

	return customers, nil
}

func (s *customerService) Run(ctx context.Context, today time.Time) (*Summary, error) {
	customers, err := s.Generate(ctx, today)
	if err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.ReplaceAll(ctx, customers); err != nil {
		return nil, err
	}

	return &Summary{
		Stage: types.StageCustomers,
		Table: types.TableCustomers,
		Rows:  len(customers),
		Breakdowns: []Breakdown{
			NewBreakdown("segment", customers, func(c *customer.Customer) string { return c.Segment }),
			NewBreakdown("region", customers, func(c *customer.Customer) string { return c.Region }),
			NewBreakdown("acquisition_channel", customers, func(c *customer.Customer) string { return c.AcquisitionChannel }),
		},
	}, nil
}

func generateCustomer(rng *utils.Random, cfg config.CustomersConfig, window signupWindow, id string) *customer.Customer {
	signup := window.draw(rng)
	segment := rng.Pick(cfg.SegmentMix)
	region := rng.Pick(cfg.RegionMix)
	channel := rng.Pick(cfg.ChannelMix)

	// validated config guarantees a band for every channel
	band, _ := cfg.CACRange(channel)

	return &customer.Customer{
		ID:                 id,
		SignupDate:         signup,
		Segment:            segment,
		Region:             region,
		AcquisitionChannel: channel,
		CAC:                types.MoneyFromFloat(rng.UniformBetween(band)),
	}
}

// signupWindow is the trailing range of whole months ending on the last day
// of the previous month, with a cumulative recency weight per day.
type signupWindow struct {
	start      time.Time
	end        time.Time
	cumulative []float64
}

func newSignupWindow(today time.Time, monthsBack int) signupWindow {
	end := types.EndOfPreviousMonth(today)
	start := types.MonthStart(types.AddMonths(end, -(monthsBack - 1)))

	days := int(end.Sub(start).Hours()/24) + 1
	cumulative := make([]float64, days)
	acc := 0.0
	for i := 0; i < days; i++ {
		w := signupWeightOldest
		if days > 1 {
			w += (signupWeightNewest - signupWeightOldest) * float64(i) / float64(days-1)
		}
		acc += w
		cumulative[i] = acc
	}

	return signupWindow{start: start, end: end, cumulative: cumulative}
}

func (w signupWindow) draw(rng *utils.Random) time.Time {
	return types.AddDays(w.start, rng.PickCumulative(w.cumulative))
}
