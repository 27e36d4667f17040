package sqlrunner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
)

// Executor runs one SQL script atomically.
type Executor interface {
	ExecScript(ctx context.Context, name, script string) error
}

// Result describes one executed script.
type Result struct {
	File     string
	Duration time.Duration
}

type Runner struct {
	exec   Executor
	logger *logger.Logger
}

func NewRunner(exec Executor, logger *logger.Logger) *Runner {
	return &Runner{exec: exec, logger: logger}
}

// Files lists the *.sql files of dir in lexical order.
func Files(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid query directory %s", dir).
			Mark(ierr.ErrValidation)
	}
	sort.Strings(matches)
	return matches, nil
}

// Run executes every script of dir, each in its own transaction, and stops at
// the first failure. Scripts that already ran stay committed.
func (r *Runner) Run(ctx context.Context, dir string) ([]Result, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ierr.NewErrorf("no .sql files in %s", dir).
			WithHint("Point queries.dir at the directory holding the SQL scripts").
			Mark(ierr.ErrNotFound)
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		name := filepath.Base(file)
		script, err := os.ReadFile(file)
		if err != nil {
			return results, ierr.WithError(err).
				WithHintf("Failed to read %s", name).
				Mark(ierr.ErrSystem)
		}

		r.logger.Infow("executing script", "file", name)
		start := time.Now()
		if err := r.exec.ExecScript(ctx, name, string(script)); err != nil {
			return results, err
		}
		results = append(results, Result{File: name, Duration: time.Since(start)})
	}
	return results, nil
}
