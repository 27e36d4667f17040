package payment

import (
	"sort"
	"time"

	"github.com/flexprice/saaskpi/internal/domain/invoice"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/shopspring/decimal"
)

// Payment is a cash movement applied to an invoice: money in for a standard
// invoice, money out (negative amount) for a credit memo refunded in cash.
type Payment struct {
	ID            string          `db:"payment_id" json:"payment_id"`
	InvoiceID     string          `db:"invoice_id" json:"invoice_id"`
	PaymentDate   time.Time       `db:"payment_date" json:"payment_date"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
}

// SortByInvoiceAndDate orders payments by (invoice, payment date), keeping
// installment order for ties.
func SortByInvoiceAndDate(pays []*Payment) {
	sort.SliceStable(pays, func(i, j int) bool {
		if pays[i].InvoiceID != pays[j].InvoiceID {
			return pays[i].InvoiceID < pays[j].InvoiceID
		}
		return pays[i].PaymentDate.Before(pays[j].PaymentDate)
	})
}

// ValidateBatch runs the post-generation checks of the payments table.
func ValidateBatch(pays []*Payment, invoices map[string]*invoice.Invoice, today time.Time) error {
	var vs ierr.Violations

	seen := make(map[string]struct{}, len(pays))
	paid := make(map[string]decimal.Decimal)
	var paidOrder []string

	for _, p := range pays {
		if _, dup := seen[p.ID]; dup {
			vs.Add("unique_id", p.ID, "payment_id appears more than once")
		}
		seen[p.ID] = struct{}{}

		if p.PaymentDate.IsZero() {
			vs.Add("not_null", p.ID, "payment_date is missing")
		}
		if p.PaymentDate.After(today) {
			vs.Add("no_future_payment", p.ID, "payment_date %s is after %s",
				types.FormatDate(p.PaymentDate), types.FormatDate(today))
		}
		if p.Amount.IsZero() {
			vs.Add("non_zero_amount", p.ID, "amount is zero")
		}

		inv, ok := invoices[p.InvoiceID]
		if !ok {
			vs.Add("foreign_key", p.ID, "unknown invoice_id %s", p.InvoiceID)
			continue
		}
		if p.PaymentDate.Before(inv.InvoiceDate) {
			vs.Add("after_invoice", p.ID, "payment_date %s precedes invoice_date %s",
				types.FormatDate(p.PaymentDate), types.FormatDate(inv.InvoiceDate))
		}
		if p.Amount.Sign() != inv.Amount.Sign() {
			vs.Add("amount_sign", p.ID, "amount %s has the opposite sign of invoice %s",
				p.Amount.String(), inv.ID)
		}
		if _, ok := paid[p.InvoiceID]; !ok {
			paidOrder = append(paidOrder, p.InvoiceID)
		}
		paid[p.InvoiceID] = paid[p.InvoiceID].Add(p.Amount)
	}

	for _, invoiceID := range paidOrder {
		inv := invoices[invoiceID]
		if !inv.Amount.IsPositive() {
			continue
		}
		if paid[invoiceID].GreaterThan(inv.Amount.Add(types.PaymentTolerance)) {
			vs.Add("no_overpayment", invoiceID, "payments total %s exceed invoice amount %s",
				paid[invoiceID].String(), inv.Amount.String())
		}
	}

	return vs.Err(string(types.StagePayments), types.TablePayments)
}
