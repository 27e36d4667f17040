package main

import (
	"context"
	"fmt"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/pipeline"
	"github.com/flexprice/saaskpi/internal/postgres"
	"github.com/flexprice/saaskpi/internal/sqlrunner"
	"go.uber.org/fx"
)

// Executes the analysis scripts of queries.dir against Postgres.
func main() {
	configPath := pipeline.ConfigFlag()

	var (
		runner *sqlrunner.Runner
		cfg    *config.Configuration
	)
	err := pipeline.Exec(func(ctx context.Context) error {
		results, err := runner.Run(ctx, cfg.Queries.Dir)
		for _, r := range results {
			fmt.Printf("executed %s (%s)\n", r.File, r.Duration.Round(1e6))
		}
		return err
	},
		pipeline.CoreModule(configPath),
		fx.Provide(
			provideDB,
			func(db *postgres.DB, log *logger.Logger) *sqlrunner.Runner {
				return sqlrunner.NewRunner(db, log)
			},
		),
		fx.Populate(&runner, &cfg),
	)

	pipeline.Exit(err)
}

func provideDB(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (*postgres.DB, error) {
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})
	return db, nil
}
