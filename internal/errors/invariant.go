package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// maxListedViolations caps how many violations Error() spells out.
const maxListedViolations = 5

// Violation is a single failed batch check.
type Violation struct {
	Check  string `json:"check"`
	Row    string `json:"row,omitempty"`
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	if v.Row == "" {
		return fmt.Sprintf("%s: %s", v.Check, v.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", v.Check, v.Row, v.Detail)
}

// InvariantError is returned by a stage when its generated table fails one or
// more post-generation checks. Nothing is persisted when it is returned.
type InvariantError struct {
	Stage      string
	Table      string
	Violations []Violation
}

func (e *InvariantError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d invariant violation(s) in table %s", e.Stage, len(e.Violations), e.Table)
	for i, v := range e.Violations {
		if i == maxListedViolations {
			fmt.Fprintf(&sb, "; ... %d more", len(e.Violations)-maxListedViolations)
			break
		}
		sb.WriteString("; ")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Checks returns the distinct names of the failed checks in first-seen order.
func (e *InvariantError) Checks() []string {
	seen := make(map[string]struct{}, len(e.Violations))
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := seen[v.Check]; ok {
			continue
		}
		seen[v.Check] = struct{}{}
		out = append(out, v.Check)
	}
	return out
}

// Violations accumulates check failures for one table.
type Violations []Violation

// Add records a failure.
func (vs *Violations) Add(check, row, format string, args ...any) {
	*vs = append(*vs, Violation{Check: check, Row: row, Detail: fmt.Sprintf(format, args...)})
}

// Err returns nil when nothing was recorded, otherwise an InvariantError marked
// with ErrInvariant.
func (vs Violations) Err(stage, table string) error {
	if len(vs) == 0 {
		return nil
	}
	return errors.Mark(&InvariantError{
		Stage:      stage,
		Table:      table,
		Violations: vs,
	}, ErrInvariant)
}

// AsInvariantError extracts the structured violation list from err.
func AsInvariantError(err error) (*InvariantError, bool) {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
