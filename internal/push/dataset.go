package push

import (
	"strconv"
	"strings"
	"time"

	"github.com/flexprice/saaskpi/internal/workbook"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ColumnKind is the type a pushed column is created with.
type ColumnKind string

const (
	ColumnKindText    ColumnKind = "text"
	ColumnKindDate    ColumnKind = "date"
	ColumnKindNumeric ColumnKind = "numeric"
	ColumnKindBoolean ColumnKind = "boolean"
)

// dateHints mark a column as date-like when they appear in its name.
var dateHints = []string{"date", "dt", "timestamp", "time"}

// dateLayouts are tried in order when coercing a date-like column.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
}

type Column struct {
	Name   string
	Source string
	Kind   ColumnKind
}

// Dataset is a workbook table after renaming and type coercion. Each cell is
// nil, a string, a time.Time, a decimal.Decimal or a bool according to its
// column's kind.
type Dataset struct {
	Name    string
	Source  string
	Columns []Column
	Rows    [][]any
}

func (d *Dataset) ColumnNames() []string {
	return lo.Map(d.Columns, func(c Column, _ int) string { return c.Name })
}

// NewDataset sanitizes the column names of t and coerces its cells. name is
// the already sanitized target table name.
func NewDataset(t *workbook.Table, name string) *Dataset {
	names := ColumnNames(t.Columns)
	ds := &Dataset{
		Name:    name,
		Source:  t.Name,
		Columns: make([]Column, len(t.Columns)),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i := range ds.Rows {
		ds.Rows[i] = make([]any, len(t.Columns))
	}

	for col := range t.Columns {
		values := lo.Map(t.Rows, func(row []string, _ int) string { return row[col] })
		kind, cells := coerceColumn(names[col], values)
		ds.Columns[col] = Column{Name: names[col], Source: t.Columns[col], Kind: kind}
		for i, v := range cells {
			ds.Rows[i][col] = v
		}
	}
	return ds
}

func isDateLike(column string) bool {
	return lo.SomeBy(dateHints, func(h string) bool { return strings.Contains(column, h) })
}

// coerceColumn picks the narrowest kind every non-empty value parses as.
// Date-like columns that do not parse stay text.
func coerceColumn(name string, values []string) (ColumnKind, []any) {
	present := lo.Filter(values, func(v string, _ int) bool { return v != "" })
	if len(present) == 0 {
		return ColumnKindText, convert(values, func(v string) any { return v })
	}

	if isDateLike(name) {
		if lo.EveryBy(present, func(v string) bool { _, ok := parseTime(v); return ok }) {
			return ColumnKindDate, convert(values, func(v string) any { t, _ := parseTime(v); return t })
		}
		return ColumnKindText, convert(values, func(v string) any { return v })
	}

	if lo.EveryBy(present, isBool) {
		return ColumnKindBoolean, convert(values, func(v string) any { b, _ := strconv.ParseBool(strings.ToLower(v)); return b })
	}

	if lo.EveryBy(present, func(v string) bool { _, err := decimal.NewFromString(v); return err == nil }) {
		return ColumnKindNumeric, convert(values, func(v string) any { return decimal.RequireFromString(v) })
	}

	return ColumnKindText, convert(values, func(v string) any { return v })
}

// convert maps the non-empty values through fn and empty ones to nil.
func convert(values []string, fn func(string) any) []any {
	return lo.Map(values, func(v string, _ int) any {
		if v == "" {
			return nil
		}
		return fn(v)
	})
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isBool accepts only the spellings the workbook writes, so 0/1 stay numeric.
func isBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	}
	return false
}
