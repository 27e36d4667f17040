package clickhouse

import (
	"context"
	"fmt"
	"strings"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/push"
	"github.com/samber/lo"
)

var columnTypes = map[push.ColumnKind]string{
	push.ColumnKindText:    "Nullable(String)",
	push.ColumnKindDate:    "Nullable(DateTime)",
	push.ColumnKindNumeric: "Nullable(Decimal(38, 6))",
	push.ColumnKindBoolean: "Nullable(Bool)",
}

// Sink replaces tables in a ClickHouse database named after the push schema.
type Sink struct {
	store *ClickHouseStore
}

func NewSink(store *ClickHouseStore) *Sink {
	return &Sink{store: store}
}

func (s *Sink) Name() string {
	return "clickhouse"
}

func (s *Sink) Prepare(ctx context.Context, schema string) error {
	if err := s.store.GetConn().Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+quoteIdent(schema)); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create database %s", schema).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *Sink) WriteTable(ctx context.Context, schema string, ds *push.Dataset) error {
	conn := s.store.GetConn()
	table := qualifiedName(schema, ds.Name)

	if err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return ierr.WithError(err).WithMessagef("drop %s", ds.Name).Mark(ierr.ErrDatabase)
	}
	if err := conn.Exec(ctx, createTableSQL(schema, ds)); err != nil {
		return ierr.WithError(err).WithMessagef("create %s", ds.Name).Mark(ierr.ErrDatabase)
	}

	batch, err := conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return ierr.WithError(err).WithMessagef("prepare insert into %s", ds.Name).Mark(ierr.ErrDatabase)
	}
	for i, row := range ds.Rows {
		if err := batch.Append(row...); err != nil {
			_ = batch.Abort()
			return ierr.WithError(err).
				WithMessagef("append row %d to %s", i+1, ds.Name).
				Mark(ierr.ErrDatabase)
		}
	}
	if err := batch.Send(); err != nil {
		return ierr.WithError(err).WithMessagef("insert into %s", ds.Name).Mark(ierr.ErrDatabase)
	}

	s.store.logger.Debugw("clickhouse batch sent", "table", table, "rows", len(ds.Rows))
	return nil
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}

func qualifiedName(schema, table string) string {
	return quoteIdent(schema) + "." + quoteIdent(table)
}

func createTableSQL(schema string, ds *push.Dataset) string {
	cols := lo.Map(ds.Columns, func(c push.Column, _ int) string {
		return fmt.Sprintf("%s %s", quoteIdent(c.Name), columnTypes[c.Kind])
	})
	return fmt.Sprintf("CREATE TABLE %s (%s) ENGINE = MergeTree ORDER BY tuple()",
		qualifiedName(schema, ds.Name), strings.Join(cols, ", "))
}
