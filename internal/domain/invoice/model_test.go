package invoice

import (
	"testing"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	cutoff      = date(2024, 5, 31)
	customerIDs = map[string]struct{}{"C0001": {}}
)

func monthly(id string, month time.Month, amount string) *Invoice {
	start := date(2024, month, 1)
	amt := decimal.RequireFromString(amount)
	return &Invoice{
		ID:          id,
		CustomerID:  "C0001",
		InvoiceDate: start,
		Amount:      amt,
		IsRefund:    amt.IsNegative(),
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, -1),
	}
}

func TestValidateBatch_Valid(t *testing.T) {
	invs := []*Invoice{
		monthly("I000001", time.January, "50.00"),
		monthly("I000002", time.February, "-12.50"),
		monthly("I000003", time.May, "50.00"),
	}
	assert.NoError(t, ValidateBatch(invs, customerIDs, cutoff))
	assert.True(t, invs[1].IsCreditMemo())
}

func TestValidateBatch_Violations(t *testing.T) {
	future := monthly("I000001", time.June, "50")

	flag := monthly("I000002", time.January, "50")
	flag.IsRefund = true

	zero := monthly("I000003", time.February, "0")

	window := monthly("I000004", time.March, "50")
	window.PeriodEnd = window.PeriodStart.AddDate(0, 0, -1)

	orphan := monthly("I000005", time.April, "50")
	orphan.CustomerID = "C0042"

	err := ValidateBatch([]*Invoice{future, flag, zero, window, orphan}, customerIDs, cutoff)
	require.Error(t, err)
	assert.True(t, ierr.IsInvariant(err))

	ie, ok := ierr.AsInvariantError(err)
	require.True(t, ok)
	assert.Equal(t, "invoices", ie.Table)
	assert.ElementsMatch(t,
		[]string{"no_future_invoice", "coverage_bound", "refund_flag", "non_zero_amount", "coverage_window", "foreign_key"},
		ie.Checks(),
	)
}

func TestSortByCustomerDateAmount(t *testing.T) {
	a := monthly("a", time.January, "50")
	b := monthly("b", time.January, "-10")
	c := monthly("c", time.March, "50")
	invs := []*Invoice{c, a, b}

	SortByCustomerDateAmount(invs)
	assert.Equal(t, []*Invoice{b, a, c}, invs)
}
