package workbook

import (
	"context"

	"github.com/flexprice/saaskpi/internal/domain/subscription"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/types"
	wb "github.com/flexprice/saaskpi/internal/workbook"
)

// SubscriptionColumns is the column order of the subscriptions table.
var SubscriptionColumns = []string{
	"subscription_id",
	"customer_id",
	"start_date",
	"end_date",
	"plan",
	"price_mrr",
	"status",
}

type subscriptionRepository struct {
	store wb.Store
	log   *logger.Logger
}

func NewSubscriptionRepository(store wb.Store, log *logger.Logger) subscription.Repository {
	return &subscriptionRepository{
		store: store,
		log:   log,
	}
}

func (r *subscriptionRepository) List(ctx context.Context) ([]*subscription.Subscription, error) {
	table, err := readTable(ctx, r.store, types.TableSubscriptions, SubscriptionColumns)
	if err != nil {
		return nil, err
	}

	p := newCellParser(table.Name, table.Columns)
	out := make([]*subscription.Subscription, 0, len(table.Rows))
	for i, cells := range table.Rows {
		p.next(i)
		sub := &subscription.Subscription{
			ID:         cells[0],
			CustomerID: cells[1],
			StartDate:  p.date(cells, 2),
			EndDate:    p.optionalDate(cells, 3),
			Plan:       cells[4],
			PriceMRR:   p.money(cells, 5),
			Status:     types.SubscriptionStatus(cells[6]),
		}
		if err := sub.Status.Validate(); err != nil {
			p.fail(6, cells[6], err)
		}
		out = append(out, sub)
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func (r *subscriptionRepository) ReplaceAll(ctx context.Context, subs []*subscription.Subscription) error {
	table := &wb.Table{Name: types.TableSubscriptions, Columns: SubscriptionColumns}
	for _, s := range subs {
		table.Rows = append(table.Rows, []string{
			s.ID,
			s.CustomerID,
			types.FormatDate(s.StartDate),
			types.FormatOptionalDate(s.EndDate),
			s.Plan,
			types.FormatMoney(s.PriceMRR),
			string(s.Status),
		})
	}

	r.log.Debugw("replacing subscriptions table", "rows", len(table.Rows))
	return r.store.ReplaceTable(ctx, table)
}
