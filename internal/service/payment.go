package service

import (
	"context"
	"sort"
	"time"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/domain/invoice"
	"github.com/flexprice/saaskpi/internal/domain/payment"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/flexprice/saaskpi/internal/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

type PaymentService interface {
	// Generate applies cash receipts and cash refunds to invoices.
	Generate(ctx context.Context, invs []*invoice.Invoice, today time.Time) ([]*payment.Payment, error)
	// Run reads the invoices table, generates and replaces the payments table.
	Run(ctx context.Context, today time.Time) (*Summary, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

func (s *paymentService) Generate(ctx context.Context, invs []*invoice.Invoice, today time.Time) ([]*payment.Payment, error) {
	cfg := s.Config.Generation.Payments
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ordered := make([]*invoice.Invoice, len(invs))
	copy(ordered, invs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	alloc := newPaymentAllocator(cfg, today)
	root := utils.NewRandom(cfg.Seed)
	perInvoice := iter.Map(lo.Range(len(ordered)), func(i *int) []*payment.Payment {
		return alloc.apply(root.Stream(*i), ordered[*i])
	})

	pays := lo.Flatten(perInvoice)
	payment.SortByInvoiceAndDate(pays)

	ids := types.SequentialIDs(types.ID_PREFIX_PAYMENT, len(pays), types.ID_WIDTH_DEFAULT)
	for i, p := range pays {
		p.ID = ids[i]
	}

	byID := lo.KeyBy(ordered, func(inv *invoice.Invoice) string { return inv.ID })
	if err := payment.ValidateBatch(pays, byID, today); err != nil {
		return nil, err
	}

	return pays, nil
}

func (s *paymentService) Run(ctx context.Context, today time.Time) (*Summary, error) {
	invs, err := s.InvoiceRepo.List(ctx)
	if err := requireUpstream(types.StagePayments, types.TableInvoices, len(invs), err); err != nil {
		return nil, err
	}

	pays, err := s.Generate(ctx, invs, today)
	if err != nil {
		return nil, err
	}

	if err := s.PaymentRepo.ReplaceAll(ctx, pays); err != nil {
		return nil, err
	}

	return &Summary{
		Stage: types.StagePayments,
		Table: types.TablePayments,
		Rows:  len(pays),
		Breakdowns: []Breakdown{
			NewBreakdown("payment_method", pays, func(p *payment.Payment) string { return p.PaymentMethod }),
		},
	}, nil
}

type paymentAllocator struct {
	cfg        config.PaymentsConfig
	today      time.Time
	outcomes   types.Mix
	parts      []int
	partsProbs []float64
}

func newPaymentAllocator(cfg config.PaymentsConfig, today time.Time) *paymentAllocator {
	parts, probs := cfg.PartsProbabilities()
	return &paymentAllocator{
		cfg:        cfg,
		today:      today,
		outcomes:   cfg.OutcomeMix(),
		parts:      parts,
		partsProbs: probs,
	}
}

// apply emits the payments of one invoice. Positive invoices draw an outcome;
// credit memos are refunded in cash only when the trigger fires.
func (a *paymentAllocator) apply(rng *utils.Random, inv *invoice.Invoice) []*payment.Payment {
	var amounts []decimal.Decimal

	switch {
	case inv.Amount.IsPositive():
		switch types.PaymentOutcome(rng.Pick(a.outcomes)) {
		case types.PaymentOutcomeFullyPaid:
			amounts = []decimal.Decimal{inv.Amount}
		case types.PaymentOutcomePartialPaid:
			n := a.parts[rng.PickIndex(a.partsProbs)]
			amounts = splitAmount(inv.Amount, rng.Weights(n))
		}
	case inv.Amount.IsNegative():
		if rng.Bernoulli(a.cfg.CashRefundProbability) {
			amounts = []decimal.Decimal{inv.Amount}
		}
	}

	out := make([]*payment.Payment, 0, len(amounts))
	for _, amt := range amounts {
		lag := rng.IntBetween(a.cfg.LagDays)
		out = append(out, &payment.Payment{
			InvoiceID:     inv.ID,
			PaymentDate:   types.MinDate(types.AddDays(inv.InvoiceDate, lag), a.today),
			Amount:        amt,
			PaymentMethod: rng.Pick(a.cfg.Methods),
		})
	}
	return out
}

// splitAmount divides total proportionally to weights, rounding every
// installment to cents and folding the rounding drift into the last one so
// the installments sum to total exactly. Installments that round to zero are
// dropped; when the last one would not stay positive the invoice is paid in
// a single installment instead.
func splitAmount(total decimal.Decimal, weights []float64) []decimal.Decimal {
	parts := make([]decimal.Decimal, len(weights))
	sum := decimal.Zero
	for i, w := range weights {
		parts[i] = types.RoundMoney(total.Mul(decimal.NewFromFloat(w)))
		sum = sum.Add(parts[i])
	}

	last := len(parts) - 1
	drift := types.RoundMoney(total.Sub(sum))
	parts[last] = types.RoundMoney(parts[last].Add(drift))
	if !parts[last].IsPositive() {
		return []decimal.Decimal{total}
	}

	return lo.Filter(parts, func(p decimal.Decimal, _ int) bool {
		return !p.IsZero()
	})
}
