package workbook

import (
	"context"

	"github.com/flexprice/saaskpi/internal/domain/payment"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/types"
	wb "github.com/flexprice/saaskpi/internal/workbook"
)

// PaymentColumns is the column order of the payments table.
var PaymentColumns = []string{
	"payment_id",
	"invoice_id",
	"payment_date",
	"amount",
	"payment_method",
}

type paymentRepository struct {
	store wb.Store
	log   *logger.Logger
}

func NewPaymentRepository(store wb.Store, log *logger.Logger) payment.Repository {
	return &paymentRepository{
		store: store,
		log:   log,
	}
}

func (r *paymentRepository) List(ctx context.Context) ([]*payment.Payment, error) {
	table, err := readTable(ctx, r.store, types.TablePayments, PaymentColumns)
	if err != nil {
		return nil, err
	}

	p := newCellParser(table.Name, table.Columns)
	out := make([]*payment.Payment, 0, len(table.Rows))
	for i, cells := range table.Rows {
		p.next(i)
		out = append(out, &payment.Payment{
			ID:            cells[0],
			InvoiceID:     cells[1],
			PaymentDate:   p.date(cells, 2),
			Amount:        p.money(cells, 3),
			PaymentMethod: cells[4],
		})
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func (r *paymentRepository) ReplaceAll(ctx context.Context, pays []*payment.Payment) error {
	table := &wb.Table{Name: types.TablePayments, Columns: PaymentColumns}
	for _, p := range pays {
		table.Rows = append(table.Rows, []string{
			p.ID,
			p.InvoiceID,
			types.FormatDate(p.PaymentDate),
			types.FormatMoney(p.Amount),
			p.PaymentMethod,
		})
	}

	r.log.Debugw("replacing payments table", "rows", len(table.Rows))
	return r.store.ReplaceTable(ctx, table)
}
