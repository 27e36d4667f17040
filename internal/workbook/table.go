package workbook

import (
	"context"

	ierr "github.com/flexprice/saaskpi/internal/errors"
)

// Table is a named sheet of the workbook. Cells are stored as text; an empty
// cell is a missing value.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Store is the tabular container every stage reads from and writes to.
type Store interface {
	// ReadTable returns the named table, or an ErrNotFound error when the
	// workbook has no such table.
	ReadTable(ctx context.Context, name string) (*Table, error)
	// ReplaceTable drops and rewrites one table, leaving all others untouched.
	ReplaceTable(ctx context.Context, table *Table) error
	// TableNames lists the tables in name order.
	TableNames(ctx context.Context) ([]string, error)
}

// Validate checks that every row has exactly one cell per column.
func (t *Table) Validate() error {
	if t.Name == "" {
		return ierr.NewError("table name is required").
			Mark(ierr.ErrValidation)
	}
	if len(t.Columns) == 0 {
		return ierr.NewErrorf("table %s has no columns", t.Name).
			Mark(ierr.ErrValidation)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return ierr.NewErrorf("table %s row %d has %d cells, expected %d", t.Name, i+1, len(row), len(t.Columns)).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// RequireColumns fails when the table does not carry exactly the given
// columns in the given order.
func (t *Table) RequireColumns(columns []string) error {
	if len(t.Columns) != len(columns) {
		return ierr.NewErrorf("table %s has columns %v, expected %v", t.Name, t.Columns, columns).
			WithHintf("Regenerate the %s table", t.Name).
			Mark(ierr.ErrValidation)
	}
	for i := range columns {
		if t.Columns[i] != columns[i] {
			return ierr.NewErrorf("table %s column %d is %q, expected %q", t.Name, i+1, t.Columns[i], columns[i]).
				WithHintf("Regenerate the %s table", t.Name).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
