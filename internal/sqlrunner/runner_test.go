package sqlrunner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	ran    []string
	failOn string
}

func (e *recordingExecutor) ExecScript(ctx context.Context, name, script string) error {
	if name == e.failOn {
		return errors.New("syntax error")
	}
	e.ran = append(e.ran, name+":"+script)
	return nil
}

func writeScripts(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestFiles_LexicalOrder(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"10_mrr.sql":         "select 2",
		"00_assumptions.sql": "select 1",
		"02_churn.sql":       "select 3",
		"notes.md":           "ignored",
	})

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"00_assumptions.sql", "02_churn.sql", "10_mrr.sql"},
		lo.Map(files, func(f string, _ int) string { return filepath.Base(f) }))
}

func TestRun(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"01_b.sql": "B",
		"00_a.sql": "A",
	})
	exec := &recordingExecutor{}

	results, err := NewRunner(exec, logger.NewNoopLogger()).Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"00_a.sql:A", "01_b.sql:B"}, exec.ran)
	assert.Equal(t, []string{"00_a.sql", "01_b.sql"}, lo.Map(results, func(r Result, _ int) string { return r.File }))
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"00_a.sql": "A",
		"01_b.sql": "B",
		"02_c.sql": "C",
	})
	exec := &recordingExecutor{failOn: "01_b.sql"}

	results, err := NewRunner(exec, logger.NewNoopLogger()).Run(context.Background(), dir)
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"00_a.sql:A"}, exec.ran)
}

func TestRun_EmptyDirectory(t *testing.T) {
	_, err := NewRunner(&recordingExecutor{}, logger.NewNoopLogger()).Run(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}
