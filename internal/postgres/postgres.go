package postgres

import (
	"context"
	"database/sql"

	"github.com/flexprice/saaskpi/internal/config"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DB wraps sqlx.DB to provide transaction management
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// Querier interface defines the database operations the sink and the SQL
// runner need. Both *sqlx.DB and *sqlx.Tx implement these methods
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// NewDB connects to the configured Postgres database
func NewDB(config *config.Configuration, logger *logger.Logger) (*DB, error) {
	db, err := sqlx.Connect("postgres", config.Postgres.GetDSN())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to connect to postgres at %s:%d", config.Postgres.Host, config.Postgres.Port).
			Mark(ierr.ErrDatabase)
	}
	if config.Postgres.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.Postgres.MaxOpenConns)
	}

	return &DB{DB: db, logger: logger}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
		return err
	}
	return nil
}

// GetQuerier returns either the transaction from context or the base DB
func (db *DB) GetQuerier(ctx context.Context) Querier {
	if tx, ok := GetTx(ctx); ok {
		return NewTracedQuerier(tx.Tx, db.logger, tx.ID)
	}
	return NewTracedQuerier(db.DB, db.logger, "")
}

// ExecScript runs a multi-statement script in its own transaction.
func (db *DB) ExecScript(ctx context.Context, name, script string) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := db.GetQuerier(ctx).ExecContext(ctx, script); err != nil {
			return ierr.WithError(err).
				WithHintf("Script %s failed", name).
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}
