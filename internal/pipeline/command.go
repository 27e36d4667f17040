package pipeline

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"go.uber.org/fx"
)

const stopTimeout = 15 * time.Second

// ConfigFlag registers the optional -config flag and parses the command line.
func ConfigFlag() string {
	path := flag.String("config", "", "path to a config file (defaults to config.yaml lookup)")
	flag.Parse()
	return *path
}

// Exec builds an fx app from opts, starts it, hands control to fn and stops
// the app again. fn's targets are filled through fx.Populate in opts.
func Exec(fn func(ctx context.Context) error, opts ...fx.Option) error {
	app := fx.New(append([]fx.Option{fx.NopLogger}, opts...)...)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx)

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return ierr.WithError(err).
			WithHint("Failed to close the workbook").
			Mark(ierr.ErrDatabase)
	}
	return runErr
}

// Main is the body of every stage command: it runs stage once, prints its
// summary and exits non-zero on failure.
func Main(stage types.Stage) {
	configPath := ConfigFlag()

	var runner *Runner
	err := Exec(func(ctx context.Context) error {
		summary, err := runner.Run(ctx, stage)
		if err != nil {
			return err
		}
		fmt.Print(summary.String())
		return nil
	}, Module(configPath), fx.Populate(&runner))

	Exit(err)
}

// Exit terminates the process with the exit code err maps to, printing the
// failure, its hints and any invariant violations to stderr first.
func Exit(err error) {
	if err == nil {
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	for _, hint := range ierr.GetHints(err) {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	if ie, ok := ierr.AsInvariantError(err); ok {
		fmt.Fprintf(os.Stderr, "%d violation(s) in %s, nothing was written:\n", len(ie.Violations), ie.Table)
		for _, v := range ie.Violations {
			fmt.Fprintf(os.Stderr, "  %s\n", v)
		}
	}
	os.Exit(ierr.ExitCodeFromErr(err))
}
