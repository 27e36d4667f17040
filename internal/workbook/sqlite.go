package workbook

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every table of the workbook in one SQLite file, one
// SQL table per workbook table, all columns TEXT.
type SQLiteStore struct {
	db     *sqlx.DB
	path   string
	logger *logger.Logger
}

// Open opens (creating when needed) the workbook file at path. Use ":memory:"
// for a throwaway workbook.
func Open(path string, log *logger.Logger) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, ierr.WithError(err).
					WithHintf("Could not create the workbook directory %s", dir).
					Mark(ierr.ErrDatabase)
			}
		}
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not open workbook %s", path).
			Mark(ierr.ErrDatabase)
	}

	// a single connection serializes writers and keeps :memory: alive
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db, path: path, logger: log}, nil
}

// Close closes the workbook file.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the file the workbook lives in.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not list workbook tables").
			Mark(ierr.ErrDatabase)
	}
	return names, nil
}

func (s *SQLiteStore) ReadTable(ctx context.Context, name string) (*Table, error) {
	var exists int
	err := s.db.GetContext(ctx, &exists,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not look up table %s", name).
			Mark(ierr.ErrDatabase)
	}
	if exists == 0 {
		return nil, ierr.NewErrorf("table %s not found in workbook %s", name, s.path).
			WithHintf("Generate the %s table first", name).
			Mark(ierr.ErrNotFound)
	}

	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, quoteIdent(name)))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not read table %s", name).
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	table := &Table{Name: name, Columns: columns}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Could not scan a row of table %s", name).
				Mark(ierr.ErrDatabase)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = c.String
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	return table, nil
}

func (s *SQLiteStore) ReplaceTable(ctx context.Context, table *Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		name := quoteIdent(table.Name)
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, name)); err != nil {
			return err
		}

		defs := make([]string, len(table.Columns))
		cols := make([]string, len(table.Columns))
		marks := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			cols[i] = quoteIdent(c)
			defs[i] = cols[i] + " TEXT"
			marks[i] = "?"
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (%s)`, name, strings.Join(defs, ", "))); err != nil {
			return err
		}

		stmt, err := tx.PreparexContext(ctx, fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			name, strings.Join(cols, ", "), strings.Join(marks, ", ")))
		if err != nil {
			return err
		}
		defer stmt.Close()

		args := make([]any, len(table.Columns))
		for _, row := range table.Rows {
			for i, cell := range row {
				if cell == "" {
					args[i] = nil
				} else {
					args[i] = cell
				}
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not start a workbook transaction").
			Mark(ierr.ErrDatabase)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Errorw("workbook rollback failed", "error", rbErr)
		}
		return ierr.WithError(err).
			WithHint("Workbook write failed, the previous table was kept").
			Mark(ierr.ErrDatabase)
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Could not commit the workbook write").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
