package types

import (
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
)

// DateLayout is the on-disk representation of every date column.
const DateLayout = time.DateOnly

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("expected a date formatted as YYYY-MM-DD, got %q", s).
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

// ParseOptionalDate parses s, returning nil for an empty cell.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatOptionalDate renders t, or an empty cell when t is nil.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
