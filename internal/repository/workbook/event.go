package workbook

import (
	"context"

	"github.com/flexprice/saaskpi/internal/domain/events"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/types"
	wb "github.com/flexprice/saaskpi/internal/workbook"
)

// EventColumns is the column order of the events table.
var EventColumns = []string{
	"event_id",
	"customer_id",
	"event_date",
	"event_type",
	"plan_from",
	"plan_to",
	"delta_mrr",
}

type eventRepository struct {
	store wb.Store
	log   *logger.Logger
}

func NewEventRepository(store wb.Store, log *logger.Logger) events.Repository {
	return &eventRepository{
		store: store,
		log:   log,
	}
}

func (r *eventRepository) List(ctx context.Context) ([]*events.Event, error) {
	table, err := readTable(ctx, r.store, types.TableEvents, EventColumns)
	if err != nil {
		return nil, err
	}

	p := newCellParser(table.Name, table.Columns)
	out := make([]*events.Event, 0, len(table.Rows))
	for i, cells := range table.Rows {
		p.next(i)
		e := &events.Event{
			ID:         cells[0],
			CustomerID: cells[1],
			EventDate:  p.date(cells, 2),
			EventType:  types.LifecycleEventType(cells[3]),
			PlanFrom:   optionalString(cells[4]),
			PlanTo:     optionalString(cells[5]),
			DeltaMRR:   p.money(cells, 6),
		}
		if err := e.EventType.Validate(); err != nil {
			p.fail(3, cells[3], err)
		}
		out = append(out, e)
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func (r *eventRepository) ReplaceAll(ctx context.Context, evts []*events.Event) error {
	table := &wb.Table{Name: types.TableEvents, Columns: EventColumns}
	for _, e := range evts {
		table.Rows = append(table.Rows, []string{
			e.ID,
			e.CustomerID,
			types.FormatDate(e.EventDate),
			string(e.EventType),
			stringOrEmpty(e.PlanFrom),
			stringOrEmpty(e.PlanTo),
			types.FormatMoney(e.DeltaMRR),
		})
	}

	r.log.Debugw("replacing events table", "rows", len(table.Rows))
	return r.store.ReplaceTable(ctx, table)
}
