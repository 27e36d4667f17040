package types

import (
	"time"
)

// AddMonths moves t by the given number of calendar months. When the source day
// does not exist in the target month it is clamped to that month's last day,
// e.g. 2024-01-31 + 1 month = 2024-02-29.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y
	newM := int(m) + months
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	lastDay := DaysInMonth(newY, time.Month(newM))
	if d > lastDay {
		d = lastDay
	}

	return time.Date(newY, time.Month(newM), d, h, min, sec, t.Nanosecond(), t.Location())
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PeriodEnd is the inclusive last day of a span of whole months starting at start.
func PeriodEnd(start time.Time, months int) time.Time {
	return AddDays(AddMonths(start, months), -1)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return AddDays(AddMonths(MonthStart(t), 1), -1)
}

// EndOfPreviousMonth is the billing cutoff relative to today: the last day of
// the calendar month before today's.
func EndOfPreviousMonth(today time.Time) time.Time {
	return AddDays(MonthStart(today), -1)
}

// MonthRange lists the first day of every month intersecting [start, end].
func MonthRange(start, end time.Time) []time.Time {
	var months []time.Time
	last := MonthStart(end)
	for cur := MonthStart(start); !cur.After(last); cur = AddMonths(cur, 1) {
		months = append(months, cur)
	}
	return months
}

// MonthsSpanned counts the calendar months touched by [start, end], counting
// both the start and the end month. It is never less than one.
func MonthsSpanned(start, end time.Time) int {
	n := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if n < 1 {
		return 1
	}
	return n
}

// MinDate returns the earlier of a and b.
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxDate returns the later of a and b.
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// ClampDate bounds t to [lo, hi].
func ClampDate(t, lo, hi time.Time) time.Time {
	return MaxDate(lo, MinDate(t, hi))
}
