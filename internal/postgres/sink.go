package postgres

import (
	"context"
	"fmt"
	"strings"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/push"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

var columnTypes = map[push.ColumnKind]string{
	push.ColumnKindText:    "TEXT",
	push.ColumnKindDate:    "TIMESTAMP",
	push.ColumnKindNumeric: "NUMERIC",
	push.ColumnKindBoolean: "BOOLEAN",
}

// Sink replaces tables in a Postgres schema.
type Sink struct {
	db *DB
}

func NewSink(db *DB) *Sink {
	return &Sink{db: db}
}

func (s *Sink) Name() string {
	return "postgres"
}

func (s *Sink) Prepare(ctx context.Context, schema string) error {
	_, err := s.db.GetQuerier(ctx).ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(schema))
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create schema %s", schema).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// WriteTable drops, recreates and bulk loads one table in a single
// transaction, so a failed load leaves the previous table in place.
func (s *Sink) WriteTable(ctx context.Context, schema string, ds *push.Dataset) error {
	return s.db.WithTx(ctx, func(ctx context.Context) error {
		q := s.db.GetQuerier(ctx)

		if _, err := q.ExecContext(ctx, "DROP TABLE IF EXISTS "+qualifiedName(schema, ds.Name)); err != nil {
			return ierr.WithError(err).WithMessagef("drop %s", ds.Name).Mark(ierr.ErrDatabase)
		}
		if _, err := q.ExecContext(ctx, createTableSQL(schema, ds)); err != nil {
			return ierr.WithError(err).WithMessagef("create %s", ds.Name).Mark(ierr.ErrDatabase)
		}

		stmt, err := q.PrepareContext(ctx, pq.CopyInSchema(schema, ds.Name, ds.ColumnNames()...))
		if err != nil {
			return ierr.WithError(err).WithMessagef("copy into %s", ds.Name).Mark(ierr.ErrDatabase)
		}
		defer stmt.Close()

		for i, row := range ds.Rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return ierr.WithError(err).
					WithMessagef("copy row %d into %s", i+1, ds.Name).
					Mark(ierr.ErrDatabase)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return ierr.WithError(err).WithMessagef("flush copy into %s", ds.Name).Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func qualifiedName(schema, table string) string {
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

func createTableSQL(schema string, ds *push.Dataset) string {
	cols := lo.Map(ds.Columns, func(c push.Column, _ int) string {
		return fmt.Sprintf("%s %s", pq.QuoteIdentifier(c.Name), columnTypes[c.Kind])
	})
	return fmt.Sprintf("CREATE TABLE %s (%s)", qualifiedName(schema, ds.Name), strings.Join(cols, ", "))
}
