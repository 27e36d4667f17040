package workbook

import (
	"context"

	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/types"
	wb "github.com/flexprice/saaskpi/internal/workbook"
)

// CustomerColumns is the column order of the customers table.
var CustomerColumns = []string{
	"customer_id",
	"signup_date",
	"segment",
	"region",
	"acquisition_channel",
	"cac",
}

type customerRepository struct {
	store wb.Store
	log   *logger.Logger
}

func NewCustomerRepository(store wb.Store, log *logger.Logger) customer.Repository {
	return &customerRepository{
		store: store,
		log:   log,
	}
}

func (r *customerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	table, err := readTable(ctx, r.store, types.TableCustomers, CustomerColumns)
	if err != nil {
		return nil, err
	}

	p := newCellParser(table.Name, table.Columns)
	out := make([]*customer.Customer, 0, len(table.Rows))
	for i, cells := range table.Rows {
		p.next(i)
		out = append(out, &customer.Customer{
			ID:                 cells[0],
			SignupDate:         p.date(cells, 1),
			Segment:            cells[2],
			Region:             cells[3],
			AcquisitionChannel: cells[4],
			CAC:                p.money(cells, 5),
		})
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func (r *customerRepository) ReplaceAll(ctx context.Context, customers []*customer.Customer) error {
	table := &wb.Table{Name: types.TableCustomers, Columns: CustomerColumns}
	for _, c := range customers {
		table.Rows = append(table.Rows, []string{
			c.ID,
			types.FormatDate(c.SignupDate),
			c.Segment,
			c.Region,
			c.AcquisitionChannel,
			types.FormatMoney(c.CAC),
		})
	}

	r.log.Debugw("replacing customers table", "rows", len(table.Rows))
	return r.store.ReplaceTable(ctx, table)
}
