package s3

import (
	"testing"
	"time"

	"github.com/flexprice/saaskpi/internal/push"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVObject(t *testing.T) {
	ds := &push.Dataset{
		Name: "invoices",
		Columns: []push.Column{
			{Name: "invoice_id", Kind: push.ColumnKindText},
			{Name: "invoice_date", Kind: push.ColumnKindDate},
			{Name: "amount", Kind: push.ColumnKindNumeric},
			{Name: "is_refund", Kind: push.ColumnKindBoolean},
		},
		Rows: [][]any{
			{"I000001", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("50.00"), false},
			{"I,2", nil, decimal.RequireFromString("-7.5"), true},
		},
	}

	obj, err := NewCSVObject("saaskpi", "raw", ds)
	require.NoError(t, err)
	assert.Equal(t, "saaskpi/raw/invoices.csv", obj.Key)
	assert.Equal(t, "text/csv", obj.ContentType)
	assert.Equal(t,
		"invoice_id,invoice_date,amount,is_refund\n"+
			"I000001,2024-01-01,50,false\n"+
			"\"I,2\",,-7.5,true\n",
		string(obj.Data),
	)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "raw/customers.csv", objectKey("", "raw", "customers"))
	assert.Equal(t, "exports/raw/customers.csv", objectKey("exports/", "raw", "customers"))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "2024-03-05T10:30:00Z", formatCell(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "Pro", formatCell("Pro"))
}
