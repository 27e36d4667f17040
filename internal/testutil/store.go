package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/workbook"
)

// InMemoryWorkbook implements workbook.Store without touching the disk
type InMemoryWorkbook struct {
	mu     sync.RWMutex
	tables map[string]*workbook.Table

	// Writes counts ReplaceTable calls per table
	Writes map[string]int
}

// NewInMemoryWorkbook creates an empty in-memory workbook
func NewInMemoryWorkbook() *InMemoryWorkbook {
	return &InMemoryWorkbook{
		tables: make(map[string]*workbook.Table),
		Writes: make(map[string]int),
	}
}

func (s *InMemoryWorkbook) ReadTable(ctx context.Context, name string) (*workbook.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[name]
	if !ok {
		return nil, ierr.NewErrorf("table %s not found", name).
			Mark(ierr.ErrNotFound)
	}
	return copyTable(t), nil
}

func (s *InMemoryWorkbook) ReplaceTable(ctx context.Context, table *workbook.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table.Name] = copyTable(table)
	s.Writes[table.Name]++
	return nil
}

func (s *InMemoryWorkbook) TableNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Has reports whether a table was ever written
func (s *InMemoryWorkbook) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tables[name]
	return ok
}

// Clear removes all tables from the workbook
func (s *InMemoryWorkbook) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]*workbook.Table)
	s.Writes = make(map[string]int)
}

// Helper to copy a table so callers never share rows with the store
func copyTable(t *workbook.Table) *workbook.Table {
	out := &workbook.Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
