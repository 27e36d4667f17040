package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flexprice/saaskpi/internal/types"
	"github.com/samber/lo"
)

// Summary describes the table a stage run persisted.
type Summary struct {
	Stage      types.Stage
	Table      string
	Rows       int
	Breakdowns []Breakdown
}

// Breakdown is a per-category row count.
type Breakdown struct {
	Name   string
	Counts []LabelCount
}

type LabelCount struct {
	Label string
	Count int
}

// NewBreakdown counts items by key, largest group first, ties by label.
func NewBreakdown[T any](name string, items []T, key func(T) string) Breakdown {
	counts := lo.CountValuesBy(items, key)
	out := lo.MapToSlice(counts, func(label string, n int) LabelCount {
		return LabelCount{Label: label, Count: n}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return Breakdown{Name: name, Counts: out}
}

// Fields flattens the summary into logger key/value pairs. The stage is left
// to the caller's logger context.
func (s *Summary) Fields() []any {
	fields := []any{"table", s.Table, "rows", s.Rows}
	for _, b := range s.Breakdowns {
		m := make(map[string]int, len(b.Counts))
		for _, c := range b.Counts {
			m[c.Label] = c.Count
		}
		fields = append(fields, b.Name, m)
	}
	return fields
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "wrote %d rows to table %q\n", s.Rows, s.Table)
	for _, b := range s.Breakdowns {
		fmt.Fprintf(&sb, "\n%s:\n", b.Name)
		for _, c := range b.Counts {
			fmt.Fprintf(&sb, "  %-14s %d\n", c.Label, c.Count)
		}
	}
	return sb.String()
}
