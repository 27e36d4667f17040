package main

import (
	"context"
	"fmt"

	"github.com/flexprice/saaskpi/internal/pipeline"
	"go.uber.org/fx"
)

// Runs every stage in dependency order against one workbook.
func main() {
	configPath := pipeline.ConfigFlag()

	var runner *pipeline.Runner
	err := pipeline.Exec(func(ctx context.Context) error {
		summaries, err := runner.RunAll(ctx)
		for _, summary := range summaries {
			fmt.Println(summary.String())
		}
		return err
	}, pipeline.Module(configPath), fx.Populate(&runner))

	pipeline.Exit(err)
}
