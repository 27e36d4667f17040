package config

import (
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
)

// GenerationConfig holds the knobs of every generation stage.
type GenerationConfig struct {
	// Today pins the generation date (YYYY-MM-DD); empty means the current day
	Today         string              `mapstructure:"today"`
	Customers     CustomersConfig     `mapstructure:"customers"`
	Subscriptions SubscriptionsConfig `mapstructure:"subscriptions"`
	Invoices      InvoicesConfig      `mapstructure:"invoices"`
	Payments      PaymentsConfig      `mapstructure:"payments"`
}

type CustomersConfig struct {
	Seed       uint64     `mapstructure:"seed"`
	Count      int        `mapstructure:"count" validate:"gt=0"`
	MonthsBack int        `mapstructure:"months_back" validate:"gt=0"`
	SegmentMix types.Mix  `mapstructure:"segment_mix"`
	RegionMix  types.Mix  `mapstructure:"region_mix"`
	ChannelMix types.Mix  `mapstructure:"channel_mix"`
	CACRanges  []CACRange `mapstructure:"cac_ranges"`
}

// CACRange is the acquisition cost band of one channel.
type CACRange struct {
	Channel string  `mapstructure:"channel"`
	Min     float64 `mapstructure:"min"`
	Max     float64 `mapstructure:"max"`
}

type SubscriptionsConfig struct {
	Seed                          uint64           `mapstructure:"seed"`
	StartDelayDays                types.IntRange   `mapstructure:"start_delay_days"`
	PeriodMonths                  types.IntRange   `mapstructure:"period_months"`
	ReactivationGapDays           types.IntRange   `mapstructure:"reactivation_gap_days"`
	ReactivationProbability       float64          `mapstructure:"reactivation_probability"`
	ActiveProbability             float64          `mapstructure:"active_probability"`
	ReactivationActiveProbability float64          `mapstructure:"reactivation_active_probability"`
	PriceNoisePct                 float64          `mapstructure:"price_noise_pct"`
	MinPrice                      float64          `mapstructure:"min_price"`
	PlanPrices                    []PlanPrice      `mapstructure:"plan_prices"`
	SegmentPlans                  []SegmentPlanMix `mapstructure:"segment_plans"`
	// DefaultSegment's plan mix is used for segments without their own
	DefaultSegment string `mapstructure:"default_segment"`
}

// PlanPrice is the monthly price band of a plan.
type PlanPrice struct {
	Plan string  `mapstructure:"plan"`
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
}

// SegmentPlanMix is the plan distribution offered to one customer segment.
type SegmentPlanMix struct {
	Segment string    `mapstructure:"segment"`
	Plans   types.Mix `mapstructure:"plans"`
}

type InvoicesConfig struct {
	Seed                    uint64           `mapstructure:"seed"`
	AnnualPrepayProbability float64          `mapstructure:"annual_prepay_probability"`
	RefundRate              float64          `mapstructure:"refund_rate"`
	RefundPct               types.FloatRange `mapstructure:"refund_pct"`
}

type PaymentsConfig struct {
	Seed                  uint64         `mapstructure:"seed"`
	FullyPaid             float64        `mapstructure:"fully_paid"`
	PartialPaid           float64        `mapstructure:"partial_paid"`
	Unpaid                float64        `mapstructure:"unpaid"`
	PartialParts          []PartsWeight  `mapstructure:"partial_parts"`
	LagDays               types.IntRange `mapstructure:"lag_days"`
	Methods               types.Mix      `mapstructure:"methods"`
	CashRefundProbability float64        `mapstructure:"cash_refund_probability"`
}

// PartsWeight is the relative likelihood of splitting a partial payment into
// Parts installments.
type PartsWeight struct {
	Parts  int     `mapstructure:"parts"`
	Weight float64 `mapstructure:"weight"`
}

// maxInstallments bounds how finely a partial payment may be split.
const maxInstallments = 12

func (g GenerationConfig) Validate() error {
	if g.Today != "" {
		if _, err := types.ParseDate(g.Today); err != nil {
			return err
		}
	}
	if err := g.Customers.Validate(); err != nil {
		return err
	}
	if err := g.Subscriptions.Validate(); err != nil {
		return err
	}
	if err := g.Invoices.Validate(); err != nil {
		return err
	}
	return g.Payments.Validate()
}

func (c CustomersConfig) Validate() error {
	if c.Count <= 0 {
		return ierr.NewErrorf("customer count must be positive, got %d", c.Count).
			Mark(ierr.ErrValidation)
	}
	if c.MonthsBack <= 0 {
		return ierr.NewErrorf("months_back must be positive, got %d", c.MonthsBack).
			Mark(ierr.ErrValidation)
	}
	if err := c.SegmentMix.Validate("segment"); err != nil {
		return err
	}
	if err := c.RegionMix.Validate("region"); err != nil {
		return err
	}
	if err := c.ChannelMix.Validate("channel"); err != nil {
		return err
	}
	for _, channel := range c.ChannelMix.Labels() {
		rg, ok := c.CACRange(channel)
		if !ok {
			return ierr.NewErrorf("channel %q has no CAC range", channel).
				WithHint("Add the channel to generation.customers.cac_ranges").
				Mark(ierr.ErrValidation)
		}
		if err := rg.Validate("cac " + channel); err != nil {
			return err
		}
		if rg.Min < 0 {
			return ierr.NewErrorf("CAC range of %q is negative", channel).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// CACRange returns the acquisition cost band of channel.
func (c CustomersConfig) CACRange(channel string) (types.FloatRange, bool) {
	for _, r := range c.CACRanges {
		if r.Channel == channel {
			return types.FloatRange{Min: r.Min, Max: r.Max}, true
		}
	}
	return types.FloatRange{}, false
}

func (c SubscriptionsConfig) Validate() error {
	if err := c.StartDelayDays.Validate("start_delay_days"); err != nil {
		return err
	}
	if c.StartDelayDays.Min < 0 {
		return ierr.NewError("start_delay_days cannot be negative").
			WithHint("A period may not start before the customer signed up").
			Mark(ierr.ErrValidation)
	}
	if err := c.PeriodMonths.Validate("period_months"); err != nil {
		return err
	}
	if c.PeriodMonths.Min < 1 {
		return ierr.NewError("period_months must be at least one month").
			Mark(ierr.ErrValidation)
	}
	if err := c.ReactivationGapDays.Validate("reactivation_gap_days"); err != nil {
		return err
	}
	if c.ReactivationGapDays.Min < 1 {
		return ierr.NewError("reactivation_gap_days must be at least one day").
			WithHint("A reactivation period has to start strictly after the churned period ended").
			Mark(ierr.ErrValidation)
	}
	for name, p := range map[string]float64{
		"reactivation_probability":        c.ReactivationProbability,
		"active_probability":              c.ActiveProbability,
		"reactivation_active_probability": c.ReactivationActiveProbability,
	} {
		if err := types.ValidateProbability(name, p); err != nil {
			return err
		}
	}
	if c.PriceNoisePct < 0 || c.PriceNoisePct >= 1 {
		return ierr.NewErrorf("price_noise_pct must be within [0, 1), got %v", c.PriceNoisePct).
			Mark(ierr.ErrValidation)
	}
	if c.MinPrice < 0.01 {
		return ierr.NewErrorf("min_price must be at least 0.01, got %v", c.MinPrice).
			Mark(ierr.ErrValidation)
	}
	if len(c.SegmentPlans) == 0 {
		return ierr.NewError("no segment plan mixes configured").
			Mark(ierr.ErrValidation)
	}
	for _, sp := range c.SegmentPlans {
		if err := sp.Plans.Validate("plans of segment " + sp.Segment); err != nil {
			return err
		}
		for _, plan := range sp.Plans.Labels() {
			band, ok := c.PriceBand(plan)
			if !ok {
				return ierr.NewErrorf("plan %q has no price band", plan).
					WithHint("Add the plan to generation.subscriptions.plan_prices").
					Mark(ierr.ErrValidation)
			}
			if err := band.Validate("price of " + plan); err != nil {
				return err
			}
			if band.Min <= 0 {
				return ierr.NewErrorf("price band of %q must be positive", plan).
					Mark(ierr.ErrValidation)
			}
		}
	}
	if c.DefaultSegment != "" {
		if _, ok := c.segmentMix(c.DefaultSegment); !ok {
			return ierr.NewErrorf("default_segment %q has no plan mix", c.DefaultSegment).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// PriceBand returns the monthly price band of plan.
func (c SubscriptionsConfig) PriceBand(plan string) (types.FloatRange, bool) {
	for _, p := range c.PlanPrices {
		if p.Plan == plan {
			return types.FloatRange{Min: p.Min, Max: p.Max}, true
		}
	}
	return types.FloatRange{}, false
}

// PlanMixFor returns the plan mix of segment, falling back to the default
// segment's mix.
func (c SubscriptionsConfig) PlanMixFor(segment string) (types.Mix, bool) {
	if mix, ok := c.segmentMix(segment); ok {
		return mix, true
	}
	if c.DefaultSegment != "" {
		return c.segmentMix(c.DefaultSegment)
	}
	return nil, false
}

func (c SubscriptionsConfig) segmentMix(segment string) (types.Mix, bool) {
	for _, sp := range c.SegmentPlans {
		if sp.Segment == segment {
			return sp.Plans, true
		}
	}
	return nil, false
}

func (c InvoicesConfig) Validate() error {
	if err := types.ValidateProbability("annual_prepay_probability", c.AnnualPrepayProbability); err != nil {
		return err
	}
	if err := types.ValidateProbability("refund_rate", c.RefundRate); err != nil {
		return err
	}
	if err := c.RefundPct.Validate("refund_pct"); err != nil {
		return err
	}
	if c.RefundPct.Min <= 0 || c.RefundPct.Max > 1 {
		return ierr.NewErrorf("refund_pct must lie within (0, 1], got %v..%v", c.RefundPct.Min, c.RefundPct.Max).
			WithHint("A refund never exceeds the invoice it credits").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (c PaymentsConfig) Validate() error {
	if err := c.OutcomeMix().Validate("payment outcome"); err != nil {
		return err
	}
	if len(c.PartialParts) == 0 {
		return ierr.NewError("partial_parts is empty").
			Mark(ierr.ErrValidation)
	}
	total := 0.0
	for _, pw := range c.PartialParts {
		if pw.Parts < 2 || pw.Parts > maxInstallments {
			return ierr.NewErrorf("partial_parts entry has %d parts", pw.Parts).
				WithHintf("A partial payment is split into 2 to %d installments", maxInstallments).
				Mark(ierr.ErrValidation)
		}
		if pw.Weight < 0 {
			return ierr.NewErrorf("partial_parts weight for %d parts is negative", pw.Parts).
				Mark(ierr.ErrValidation)
		}
		total += pw.Weight
	}
	if total <= 0 {
		return ierr.NewError("partial_parts weights must sum to a positive number").
			Mark(ierr.ErrValidation)
	}
	if err := c.LagDays.Validate("lag_days"); err != nil {
		return err
	}
	if c.LagDays.Min < 0 {
		return ierr.NewError("lag_days cannot be negative").
			WithHint("A payment never precedes its invoice").
			Mark(ierr.ErrValidation)
	}
	if err := c.Methods.Validate("payment method"); err != nil {
		return err
	}
	return types.ValidateProbability("cash_refund_probability", c.CashRefundProbability)
}

// OutcomeMix returns the fully/partially/unpaid distribution as a mix.
func (c PaymentsConfig) OutcomeMix() types.Mix {
	return types.Mix{
		{Label: string(types.PaymentOutcomeFullyPaid), Weight: c.FullyPaid},
		{Label: string(types.PaymentOutcomePartialPaid), Weight: c.PartialPaid},
		{Label: string(types.PaymentOutcomeUnpaid), Weight: c.Unpaid},
	}
}

// PartsProbabilities returns the installment counts and their normalized
// probabilities, in configured order.
func (c PaymentsConfig) PartsProbabilities() ([]int, []float64) {
	total := 0.0
	for _, pw := range c.PartialParts {
		total += pw.Weight
	}
	parts := make([]int, len(c.PartialParts))
	probs := make([]float64, len(c.PartialParts))
	for i, pw := range c.PartialParts {
		parts[i] = pw.Parts
		probs[i] = pw.Weight / total
	}
	return parts, probs
}

// DefaultGenerationConfig mirrors the values the dataset was tuned with.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Customers: CustomersConfig{
			Seed:       42,
			Count:      100,
			MonthsBack: 18,
			SegmentMix: types.Mix{
				{Label: "SMB", Weight: 0.65},
				{Label: "Mid", Weight: 0.28},
				{Label: "Enterprise", Weight: 0.07},
			},
			RegionMix: types.Mix{
				{Label: "NA", Weight: 0.60},
				{Label: "EMEA", Weight: 0.20},
				{Label: "APAC", Weight: 0.15},
				{Label: "LATAM", Weight: 0.05},
			},
			ChannelMix: types.Mix{
				{Label: "Paid", Weight: 0.45},
				{Label: "Organic", Weight: 0.25},
				{Label: "Partner", Weight: 0.20},
				{Label: "Outbound", Weight: 0.10},
			},
			CACRanges: []CACRange{
				{Channel: "Paid", Min: 700, Max: 1200},
				{Channel: "Partner", Min: 500, Max: 900},
				{Channel: "Outbound", Min: 300, Max: 800},
				{Channel: "Organic", Min: 50, Max: 400},
			},
		},
		Subscriptions: SubscriptionsConfig{
			Seed:                          123,
			StartDelayDays:                types.IntRange{Min: 0, Max: 10},
			PeriodMonths:                  types.IntRange{Min: 3, Max: 18},
			ReactivationGapDays:           types.IntRange{Min: 15, Max: 60},
			ReactivationProbability:       0.20,
			ActiveProbability:             0.55,
			ReactivationActiveProbability: 0.65,
			PriceNoisePct:                 0,
			MinPrice:                      5,
			PlanPrices: []PlanPrice{
				{Plan: "Starter", Min: 20, Max: 20},
				{Plan: "Pro", Min: 50, Max: 50},
				{Plan: "Business", Min: 150, Max: 150},
				{Plan: "Enterprise", Min: 500, Max: 500},
			},
			SegmentPlans: []SegmentPlanMix{
				{Segment: "SMB", Plans: types.Mix{
					{Label: "Starter", Weight: 0.55},
					{Label: "Pro", Weight: 0.40},
					{Label: "Business", Weight: 0.05},
					{Label: "Enterprise", Weight: 0},
				}},
				{Segment: "Mid", Plans: types.Mix{
					{Label: "Starter", Weight: 0.10},
					{Label: "Pro", Weight: 0.55},
					{Label: "Business", Weight: 0.30},
					{Label: "Enterprise", Weight: 0.05},
				}},
				{Segment: "Enterprise", Plans: types.Mix{
					{Label: "Starter", Weight: 0},
					{Label: "Pro", Weight: 0.15},
					{Label: "Business", Weight: 0.45},
					{Label: "Enterprise", Weight: 0.40},
				}},
			},
			DefaultSegment: "SMB",
		},
		Invoices: InvoicesConfig{
			Seed:                    456,
			AnnualPrepayProbability: 0.08,
			RefundRate:              0.03,
			RefundPct:               types.FloatRange{Min: 0.05, Max: 0.20},
		},
		Payments: PaymentsConfig{
			Seed:        789,
			FullyPaid:   0.85,
			PartialPaid: 0,
			Unpaid:      0.15,
			PartialParts: []PartsWeight{
				{Parts: 2, Weight: 0.75},
				{Parts: 3, Weight: 0.25},
			},
			LagDays: types.IntRange{Min: 30, Max: 30},
			Methods: types.Mix{
				{Label: "ACH", Weight: 0.55},
				{Label: "Card", Weight: 0.20},
				{Label: "Wire", Weight: 0.15},
				{Label: "Check", Weight: 0.10},
			},
			CashRefundProbability: 0,
		},
	}
}
