package clickhouse

import (
	"context"

	clickhouse_go "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/flexprice/saaskpi/internal/config"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
)

type ClickHouseStore struct {
	conn   driver.Conn
	logger *logger.Logger
}

func NewClickHouseStore(config *config.Configuration, logger *logger.Logger) (*ClickHouseStore, error) {
	options := config.ClickHouse.GetClientOptions()
	conn, err := clickhouse_go.Open(options)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to open clickhouse connection to %s", config.ClickHouse.Address).
			Mark(ierr.ErrDatabase)
	}

	return &ClickHouseStore{
		conn:   conn,
		logger: logger,
	}, nil
}

// GetConn returns a connection that logs the statements it executes
func (s *ClickHouseStore) GetConn() driver.Conn {
	return &tracedConn{Conn: s.conn, logger: s.logger}
}

func (s *ClickHouseStore) Close() error {
	return s.conn.Close()
}

// tracedConn logs the statements going through the embedded connection
type tracedConn struct {
	driver.Conn
	logger *logger.Logger
}

func (tc *tracedConn) Exec(ctx context.Context, query string, args ...any) error {
	err := tc.Conn.Exec(ctx, query, args...)
	tc.done("clickhouse.exec", query, err)
	return err
}

func (tc *tracedConn) done(op, query string, err error) {
	if err != nil {
		tc.logger.Errorw("clickhouse statement failed", "operation", op, "query", truncateQuery(query), "error", err)
		return
	}
	tc.logger.Debugw("clickhouse statement completed", "operation", op, "query", truncateQuery(query))
}

// Truncate query to keep log lines short
func truncateQuery(query string) string {
	const maxQueryLength = 1000
	if len(query) > maxQueryLength {
		return query[:maxQueryLength] + "..."
	}
	return query
}
