package clickhouse

import (
	"testing"

	"github.com/flexprice/saaskpi/internal/push"
	"github.com/stretchr/testify/assert"
)

func TestCreateTableSQL(t *testing.T) {
	ds := &push.Dataset{
		Name: "payments",
		Columns: []push.Column{
			{Name: "payment_id", Kind: push.ColumnKindText},
			{Name: "payment_date", Kind: push.ColumnKindDate},
			{Name: "amount", Kind: push.ColumnKindNumeric},
			{Name: "is_refund", Kind: push.ColumnKindBoolean},
		},
	}

	assert.Equal(t,
		"CREATE TABLE `raw`.`payments` (`payment_id` Nullable(String), `payment_date` Nullable(DateTime), "+
			"`amount` Nullable(Decimal(38, 6)), `is_refund` Nullable(Bool)) ENGINE = MergeTree ORDER BY tuple()",
		createTableSQL("raw", ds),
	)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`raw`", quoteIdent("raw"))
	assert.Equal(t, "`a\\`b`", quoteIdent("a`b"))
}
