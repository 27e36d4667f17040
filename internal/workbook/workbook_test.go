package workbook

import (
	"context"
	"path/filepath"
	"testing"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "workbook.db"), logger.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_ReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)

	in := &Table{
		Name:    "subscriptions",
		Columns: []string{"subscription_id", "end_date"},
		Rows: [][]string{
			{"S000001", "2024-03-31"},
			{"S000002", ""},
		},
	}
	require.NoError(t, store.ReplaceTable(ctx, in))

	out, err := store.ReadTable(ctx, "subscriptions")
	require.NoError(t, err)
	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, in.Rows, out.Rows)
}

func TestSQLiteStore_ReplaceLeavesOtherTables(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)

	require.NoError(t, store.ReplaceTable(ctx, &Table{
		Name: "customers", Columns: []string{"customer_id"}, Rows: [][]string{{"C0001"}},
	}))
	require.NoError(t, store.ReplaceTable(ctx, &Table{
		Name: "invoices", Columns: []string{"invoice_id"}, Rows: [][]string{{"I000001"}},
	}))
	require.NoError(t, store.ReplaceTable(ctx, &Table{
		Name: "invoices", Columns: []string{"invoice_id"}, Rows: [][]string{{"I000001"}, {"I000002"}},
	}))

	names, err := store.TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "invoices"}, names)

	customers, err := store.ReadTable(ctx, "customers")
	require.NoError(t, err)
	assert.Len(t, customers.Rows, 1)

	invoices, err := store.ReadTable(ctx, "invoices")
	require.NoError(t, err)
	assert.Len(t, invoices.Rows, 2)
}

func TestSQLiteStore_MissingTable(t *testing.T) {
	_, err := openTemp(t).ReadTable(context.Background(), "payments")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestSQLiteStore_RaggedRowRejected(t *testing.T) {
	err := openTemp(t).ReplaceTable(context.Background(), &Table{
		Name: "events", Columns: []string{"a", "b"}, Rows: [][]string{{"1"}},
	})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestTable_RequireColumns(t *testing.T) {
	tbl := &Table{Name: "customers", Columns: []string{"customer_id", "segment"}}
	assert.NoError(t, tbl.RequireColumns([]string{"customer_id", "segment"}))
	assert.Error(t, tbl.RequireColumns([]string{"segment", "customer_id"}))
	assert.Error(t, tbl.RequireColumns([]string{"customer_id"}))
}
