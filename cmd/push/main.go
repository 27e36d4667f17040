package main

import (
	"context"
	"fmt"

	"github.com/flexprice/saaskpi/internal/clickhouse"
	"github.com/flexprice/saaskpi/internal/config"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/pipeline"
	"github.com/flexprice/saaskpi/internal/postgres"
	"github.com/flexprice/saaskpi/internal/push"
	"github.com/flexprice/saaskpi/internal/s3"
	"github.com/samber/lo"
	"go.uber.org/fx"
)

func main() {
	configPath := pipeline.ConfigFlag()

	var svc push.Service
	err := pipeline.Exec(func(ctx context.Context) error {
		results, err := svc.Push(ctx)
		if err != nil {
			return err
		}

		for _, r := range results {
			if r.OK() {
				fmt.Printf("✓ %-10s %s -> %s (%d rows)\n", r.Sink, r.Source, r.Table, r.Rows)
			} else {
				fmt.Printf("✗ %-10s %s -> %s: %v\n", r.Sink, r.Source, r.Table, r.Err)
			}
		}

		failed := lo.CountBy(results, func(r push.Result) bool { return !r.OK() })
		if failed == len(results) {
			return ierr.NewErrorf("all %d table pushes failed", failed).
				Mark(ierr.ErrDatabase)
		}
		return nil
	},
		pipeline.CoreModule(configPath),
		fx.Provide(
			provideSinks,
			push.NewService,
		),
		fx.Populate(&svc),
	)

	pipeline.Exit(err)
}

// provideSinks opens a sink for every store enabled in the configuration.
func provideSinks(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) ([]push.Sink, error) {
	var sinks []push.Sink

	if cfg.Postgres.Enabled {
		db, err := postgres.NewDB(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})
		sinks = append(sinks, postgres.NewSink(db))
	}

	if cfg.ClickHouse.Enabled {
		store, err := clickhouse.NewClickHouseStore(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return store.Close() }})
		sinks = append(sinks, clickhouse.NewSink(store))
	}

	if cfg.S3.Enabled {
		sink, err := s3.NewSink(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	return sinks, nil
}
