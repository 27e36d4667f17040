package postgres

import (
	"testing"

	"github.com/flexprice/saaskpi/internal/push"
	"github.com/stretchr/testify/assert"
)

func TestCreateTableSQL(t *testing.T) {
	ds := &push.Dataset{
		Name: "invoices",
		Columns: []push.Column{
			{Name: "invoice_id", Kind: push.ColumnKindText},
			{Name: "invoice_date", Kind: push.ColumnKindDate},
			{Name: "amount", Kind: push.ColumnKindNumeric},
			{Name: "is_refund", Kind: push.ColumnKindBoolean},
		},
	}

	assert.Equal(t,
		`CREATE TABLE "raw"."invoices" ("invoice_id" TEXT, "invoice_date" TIMESTAMP, "amount" NUMERIC, "is_refund" BOOLEAN)`,
		createTableSQL("raw", ds),
	)
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, `"raw"."order_t"`, qualifiedName("raw", "order_t"))
}
