package service

import (
	"context"
	"time"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/domain/invoice"
	"github.com/flexprice/saaskpi/internal/domain/subscription"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/flexprice/saaskpi/internal/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

// refundStream names the stage-wide draw sequence of credit memo selection.
const refundStream = "refunds"

type InvoiceService interface {
	// Generate bills every period up to the end of the month before today and
	// appends sparse credit memos.
	Generate(ctx context.Context, customers []*customer.Customer, subs []*subscription.Subscription, today time.Time) ([]*invoice.Invoice, error)
	// Run reads customers and subscriptions, generates and replaces the invoices table.
	Run(ctx context.Context, today time.Time) (*Summary, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) Generate(ctx context.Context, customers []*customer.Customer, subs []*subscription.Subscription, today time.Time) ([]*invoice.Invoice, error) {
	cfg := s.Config.Generation.Invoices
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	known := customerSet(customers, func(c *customer.Customer) string { return c.ID })
	if err := checkPeriodOwners(types.StageInvoices, subs, known); err != nil {
		return nil, err
	}

	cutoff := types.EndOfPreviousMonth(today)

	// streams are keyed by the position in (customer, start) order so the
	// output does not depend on how the table was stored
	periods := make([]*subscription.Subscription, len(subs))
	copy(periods, subs)
	subscription.SortByCustomerAndStart(periods)

	root := utils.NewRandom(cfg.Seed)
	perPeriod := iter.Map(lo.Range(len(periods)), func(i *int) []*invoice.Invoice {
		return billPeriod(root.Stream(*i), cfg, periods[*i], cutoff)
	})
	invs := lo.Flatten(perPeriod)

	invs = append(invs, creditMemos(root.Named(refundStream), cfg, invs)...)
	invoice.SortByCustomerDateAmount(invs)

	ids := types.SequentialIDs(types.ID_PREFIX_INVOICE, len(invs), types.ID_WIDTH_DEFAULT)
	for i, inv := range invs {
		inv.ID = ids[i]
	}

	if err := invoice.ValidateBatch(invs, known, cutoff); err != nil {
		return nil, err
	}

	s.Logger.Debugw("generated invoices",
		"cutoff", types.FormatDate(cutoff),
		"periods", len(periods),
		"invoices", len(invs))

	return invs, nil
}

func (s *invoiceService) Run(ctx context.Context, today time.Time) (*Summary, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err := requireUpstream(types.StageInvoices, types.TableCustomers, len(customers), err); err != nil {
		return nil, err
	}
	subs, err := s.SubRepo.List(ctx)
	if err := requireUpstream(types.StageInvoices, types.TableSubscriptions, len(subs), err); err != nil {
		return nil, err
	}

	invs, err := s.Generate(ctx, customers, subs, today)
	if err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.ReplaceAll(ctx, invs); err != nil {
		return nil, err
	}

	return &Summary{
		Stage: types.StageInvoices,
		Table: types.TableInvoices,
		Rows:  len(invs),
		Breakdowns: []Breakdown{
			NewBreakdown("kind", invs, func(inv *invoice.Invoice) string {
				if inv.IsRefund {
					return "refund"
				}
				return "standard"
			}),
		},
	}, nil
}

// billPeriod converts one subscription period into standard invoices. The
// billable window ends at the period end or the cutoff, whichever is first;
// a window that has not started yet bills nothing and draws nothing.
func billPeriod(rng *utils.Random, cfg config.InvoicesConfig, sub *subscription.Subscription, cutoff time.Time) []*invoice.Invoice {
	start := sub.StartDate
	end := cutoff
	if sub.EndDate != nil {
		end = types.MinDate(*sub.EndDate, cutoff)
	}
	if end.Before(start) {
		return nil
	}

	if rng.Bernoulli(cfg.AnnualPrepayProbability) {
		return []*invoice.Invoice{billAnnual(sub, start, end)}
	}
	return billMonthly(sub, start, end)
}

func billAnnual(sub *subscription.Subscription, start, end time.Time) *invoice.Invoice {
	coveredEnd := types.MinDate(types.PeriodEnd(start, types.AnnualPrepayMonths), end)
	months := decimal.NewFromInt(int64(types.MonthsSpanned(start, coveredEnd)))

	return &invoice.Invoice{
		CustomerID:  sub.CustomerID,
		InvoiceDate: start,
		Amount:      types.RoundMoney(sub.PriceMRR.Mul(months)),
		PeriodStart: start,
		PeriodEnd:   coveredEnd,
	}
}

// billMonthly issues one invoice per calendar month touching [start, end],
// each at the full monthly price with its window clipped to the period.
func billMonthly(sub *subscription.Subscription, start, end time.Time) []*invoice.Invoice {
	months := types.MonthRange(start, end)
	out := make([]*invoice.Invoice, 0, len(months))
	for _, m := range months {
		periodStart := types.ClampDate(m, start, end)
		periodEnd := types.ClampDate(types.MonthEnd(m), start, end)
		if periodEnd.Before(periodStart) {
			continue
		}
		out = append(out, &invoice.Invoice{
			CustomerID:  sub.CustomerID,
			InvoiceDate: periodStart,
			Amount:      types.RoundMoney(sub.PriceMRR),
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
	}
	return out
}

// creditMemos selects floor(refund rate × standard invoices) distinct invoices
// and credits a random share of each. A credit that rounds to zero is dropped.
func creditMemos(rng *utils.Random, cfg config.InvoicesConfig, standard []*invoice.Invoice) []*invoice.Invoice {
	n := int(float64(len(standard)) * cfg.RefundRate)
	if n == 0 {
		return nil
	}

	var out []*invoice.Invoice
	for _, idx := range rng.Sample(len(standard), n) {
		orig := standard[idx]
		pct := decimal.NewFromFloat(rng.UniformBetween(cfg.RefundPct))
		credit := types.RoundMoney(orig.Amount.Mul(pct)).Neg()
		if credit.IsZero() {
			continue
		}
		out = append(out, &invoice.Invoice{
			CustomerID:  orig.CustomerID,
			InvoiceDate: orig.InvoiceDate,
			Amount:      credit,
			IsRefund:    true,
			PeriodStart: orig.PeriodStart,
			PeriodEnd:   orig.PeriodEnd,
		})
	}
	return out
}
