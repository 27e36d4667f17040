package push

import (
	"testing"
	"time"

	"github.com/flexprice/saaskpi/internal/workbook"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset(t *testing.T) {
	table := &workbook.Table{
		Name:    "invoices",
		Columns: []string{"invoice_id", "invoice_date", "amount", "is_refund", "Plan Name", "created_time"},
		Rows: [][]string{
			{"I000001", "2024-01-01", "50.00", "false", "Pro", "not a time"},
			{"I000002", "2024-01-15", "-7.50", "true", "", ""},
			{"I000003", "", "", "", "Starter", "2024-02-01"},
		},
	}

	ds := NewDataset(table, "invoices")
	require.Len(t, ds.Columns, 6)
	assert.Equal(t, "invoices", ds.Source)
	assert.Equal(t, []string{"invoice_id", "invoice_date", "amount", "is_refund", "plan_name", "created_time"}, ds.ColumnNames())

	kinds := make([]ColumnKind, len(ds.Columns))
	for i, c := range ds.Columns {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []ColumnKind{
		ColumnKindText,
		ColumnKindDate,
		ColumnKindNumeric,
		ColumnKindBoolean,
		ColumnKindText,
		ColumnKindText,
	}, kinds)
	assert.Equal(t, "Plan Name", ds.Columns[4].Source)

	require.Len(t, ds.Rows, 3)
	assert.Equal(t, "I000001", ds.Rows[0][0])
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ds.Rows[1][1])
	assert.True(t, decimal.RequireFromString("-7.50").Equal(ds.Rows[1][2].(decimal.Decimal)))
	assert.Equal(t, true, ds.Rows[1][3])
	assert.Nil(t, ds.Rows[2][1])
	assert.Nil(t, ds.Rows[2][2])
	assert.Nil(t, ds.Rows[2][3])
	assert.Nil(t, ds.Rows[1][4])
	assert.Equal(t, "not a time", ds.Rows[0][5])
}

func TestCoerceColumn(t *testing.T) {
	tests := []struct {
		name   string
		column string
		values []string
		want   ColumnKind
	}{
		{name: "all empty", column: "amount", values: []string{"", ""}, want: ColumnKindText},
		{name: "integers", column: "count", values: []string{"1", "0", "12"}, want: ColumnKindNumeric},
		{name: "zero and one stay numeric", column: "flag", values: []string{"0", "1"}, want: ColumnKindNumeric},
		{name: "booleans", column: "is_active", values: []string{"TRUE", "false"}, want: ColumnKindBoolean},
		{name: "mixed text", column: "note", values: []string{"12", "twelve"}, want: ColumnKindText},
		{name: "timestamps", column: "event_timestamp", values: []string{"2024-01-01T10:00:00Z", "2024-01-02 11:30:00"}, want: ColumnKindDate},
		{name: "dates outside date-like names stay text", column: "period_start", values: []string{"2024-01-01"}, want: ColumnKindText},
		{name: "numbers in date-like names stay text", column: "end_date", values: []string{"12"}, want: ColumnKindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, cells := coerceColumn(tt.column, tt.values)
			assert.Equal(t, tt.want, kind)
			assert.Len(t, cells, len(tt.values))
		})
	}
}
