package workbook

import (
	"context"
	"strconv"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	wb "github.com/flexprice/saaskpi/internal/workbook"
	"github.com/shopspring/decimal"
)

// readTable loads a table and checks its schema.
func readTable(ctx context.Context, store wb.Store, name string, columns []string) (*wb.Table, error) {
	table, err := store.ReadTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := table.RequireColumns(columns); err != nil {
		return nil, err
	}
	return table, nil
}

// cellParser decodes the cells of one table and remembers the first failure
// along with where it happened.
type cellParser struct {
	table   string
	columns []string
	row     int
	err     error
}

func newCellParser(table string, columns []string) *cellParser {
	return &cellParser{table: table, columns: columns}
}

func (p *cellParser) next(row int) {
	p.row = row
}

func (p *cellParser) fail(col int, value string, err error) {
	if p.err != nil {
		return
	}
	p.err = ierr.WithError(err).
		WithHintf("Table %s row %d column %s holds %q", p.table, p.row+1, p.columns[col], value).
		Mark(ierr.ErrValidation)
}

func (p *cellParser) date(cells []string, col int) time.Time {
	t, err := types.ParseDate(cells[col])
	if err != nil {
		p.fail(col, cells[col], err)
	}
	return t
}

func (p *cellParser) optionalDate(cells []string, col int) *time.Time {
	t, err := types.ParseOptionalDate(cells[col])
	if err != nil {
		p.fail(col, cells[col], err)
	}
	return t
}

func (p *cellParser) money(cells []string, col int) decimal.Decimal {
	d, err := types.ParseMoney(cells[col])
	if err != nil {
		p.fail(col, cells[col], err)
	}
	return d
}

func (p *cellParser) boolean(cells []string, col int) bool {
	b, err := strconv.ParseBool(cells[col])
	if err != nil {
		p.fail(col, cells[col], err)
	}
	return b
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
