package invoice

import (
	"sort"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a billing row: a standard charge (positive amount) or a credit
// memo (negative amount, IsRefund set) over an inclusive coverage window.
type Invoice struct {
	ID          string          `db:"invoice_id" json:"invoice_id"`
	CustomerID  string          `db:"customer_id" json:"customer_id"`
	InvoiceDate time.Time       `db:"invoice_date" json:"invoice_date"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	IsRefund    bool            `db:"is_refund" json:"is_refund"`
	PeriodStart time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time       `db:"period_end" json:"period_end"`
}

// IsCreditMemo reports whether the row gives money back.
func (i *Invoice) IsCreditMemo() bool {
	return i.Amount.IsNegative()
}

// SortByCustomerDateAmount orders invoices by (customer, issue date, amount).
func SortByCustomerDateAmount(invs []*Invoice) {
	sort.SliceStable(invs, func(a, b int) bool {
		x, y := invs[a], invs[b]
		if x.CustomerID != y.CustomerID {
			return x.CustomerID < y.CustomerID
		}
		if !x.InvoiceDate.Equal(y.InvoiceDate) {
			return x.InvoiceDate.Before(y.InvoiceDate)
		}
		return x.Amount.LessThan(y.Amount)
	})
}

// ValidateBatch runs the post-generation checks of the invoices table against
// the billing cutoff (the last day of the month before today).
func ValidateBatch(invs []*Invoice, customerIDs map[string]struct{}, cutoff time.Time) error {
	var vs ierr.Violations

	seen := make(map[string]struct{}, len(invs))
	for _, inv := range invs {
		if _, dup := seen[inv.ID]; dup {
			vs.Add("unique_id", inv.ID, "invoice_id appears more than once")
		}
		seen[inv.ID] = struct{}{}

		if _, ok := customerIDs[inv.CustomerID]; !ok {
			vs.Add("foreign_key", inv.ID, "unknown customer_id %s", inv.CustomerID)
		}
		if inv.Amount.IsZero() {
			vs.Add("non_zero_amount", inv.ID, "amount is zero")
		}
		if inv.IsRefund != inv.IsCreditMemo() {
			vs.Add("refund_flag", inv.ID, "is_refund=%t but amount is %s", inv.IsRefund, inv.Amount.String())
		}
		if inv.InvoiceDate.IsZero() {
			vs.Add("not_null", inv.ID, "invoice_date is missing")
		} else if inv.InvoiceDate.After(cutoff) {
			vs.Add("no_future_invoice", inv.ID, "invoice_date %s is after cutoff %s",
				types.FormatDate(inv.InvoiceDate), types.FormatDate(cutoff))
		}
		if inv.PeriodEnd.Before(inv.PeriodStart) {
			vs.Add("coverage_window", inv.ID, "period_end %s precedes period_start %s",
				types.FormatDate(inv.PeriodEnd), types.FormatDate(inv.PeriodStart))
		}
		if inv.PeriodEnd.After(cutoff) {
			vs.Add("coverage_bound", inv.ID, "period_end %s extends past cutoff %s",
				types.FormatDate(inv.PeriodEnd), types.FormatDate(cutoff))
		}
	}

	return vs.Err(string(types.StageInvoices), types.TableInvoices)
}
