package workbook

import (
	"context"
	"strconv"

	"github.com/flexprice/saaskpi/internal/domain/invoice"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/types"
	wb "github.com/flexprice/saaskpi/internal/workbook"
)

// InvoiceColumns is the column order of the invoices table.
var InvoiceColumns = []string{
	"invoice_id",
	"customer_id",
	"invoice_date",
	"amount",
	"is_refund",
	"period_start",
	"period_end",
}

type invoiceRepository struct {
	store wb.Store
	log   *logger.Logger
}

func NewInvoiceRepository(store wb.Store, log *logger.Logger) invoice.Repository {
	return &invoiceRepository{
		store: store,
		log:   log,
	}
}

func (r *invoiceRepository) List(ctx context.Context) ([]*invoice.Invoice, error) {
	table, err := readTable(ctx, r.store, types.TableInvoices, InvoiceColumns)
	if err != nil {
		return nil, err
	}

	p := newCellParser(table.Name, table.Columns)
	out := make([]*invoice.Invoice, 0, len(table.Rows))
	for i, cells := range table.Rows {
		p.next(i)
		out = append(out, &invoice.Invoice{
			ID:          cells[0],
			CustomerID:  cells[1],
			InvoiceDate: p.date(cells, 2),
			Amount:      p.money(cells, 3),
			IsRefund:    p.boolean(cells, 4),
			PeriodStart: p.date(cells, 5),
			PeriodEnd:   p.date(cells, 6),
		})
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func (r *invoiceRepository) ReplaceAll(ctx context.Context, invs []*invoice.Invoice) error {
	table := &wb.Table{Name: types.TableInvoices, Columns: InvoiceColumns}
	for _, inv := range invs {
		table.Rows = append(table.Rows, []string{
			inv.ID,
			inv.CustomerID,
			types.FormatDate(inv.InvoiceDate),
			types.FormatMoney(inv.Amount),
			strconv.FormatBool(inv.IsRefund),
			types.FormatDate(inv.PeriodStart),
			types.FormatDate(inv.PeriodEnd),
		})
	}

	r.log.Debugw("replacing invoices table", "rows", len(table.Rows))
	return r.store.ReplaceTable(ctx, table)
}
