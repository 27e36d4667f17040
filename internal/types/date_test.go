package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{name: "simple", start: d(2024, time.January, 10), months: 3, want: d(2024, time.April, 10)},
		{name: "clamp to leap february", start: d(2024, time.January, 31), months: 1, want: d(2024, time.February, 29)},
		{name: "clamp to february", start: d(2023, time.January, 31), months: 1, want: d(2023, time.February, 28)},
		{name: "cross year", start: d(2024, time.November, 15), months: 3, want: d(2025, time.February, 15)},
		{name: "eighteen months", start: d(2024, time.August, 31), months: 18, want: d(2026, time.February, 28)},
		{name: "backwards", start: d(2024, time.March, 31), months: -1, want: d(2024, time.February, 29)},
		{name: "backwards across year", start: d(2024, time.January, 15), months: -2, want: d(2023, time.November, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestPeriodEnd(t *testing.T) {
	assert.Equal(t, d(2024, time.April, 9), PeriodEnd(d(2024, time.January, 10), 3))
	assert.Equal(t, d(2024, time.February, 28), PeriodEnd(d(2024, time.January, 31), 1))
	assert.Equal(t, d(2024, time.December, 31), PeriodEnd(d(2024, time.January, 1), 12))
}

func TestEndOfPreviousMonth(t *testing.T) {
	assert.Equal(t, d(2024, time.May, 31), EndOfPreviousMonth(d(2024, time.June, 15)))
	assert.Equal(t, d(2023, time.December, 31), EndOfPreviousMonth(d(2024, time.January, 1)))
	assert.Equal(t, d(2024, time.February, 29), EndOfPreviousMonth(d(2024, time.March, 31)))
}

func TestMonthRange(t *testing.T) {
	got := MonthRange(d(2024, time.February, 1), d(2024, time.April, 30))
	assert.Equal(t, []time.Time{
		d(2024, time.February, 1),
		d(2024, time.March, 1),
		d(2024, time.April, 1),
	}, got)

	got = MonthRange(d(2024, time.December, 20), d(2025, time.January, 5))
	assert.Equal(t, []time.Time{d(2024, time.December, 1), d(2025, time.January, 1)}, got)

	assert.Len(t, MonthRange(d(2024, time.March, 5), d(2024, time.March, 6)), 1)
}

func TestMonthsSpanned(t *testing.T) {
	assert.Equal(t, 1, MonthsSpanned(d(2024, time.March, 5), d(2024, time.March, 31)))
	assert.Equal(t, 13, MonthsSpanned(d(2024, time.January, 10), d(2025, time.January, 9)))
	assert.Equal(t, 1, MonthsSpanned(d(2024, time.May, 1), d(2024, time.April, 1)))
}

func TestMonthBounds(t *testing.T) {
	assert.Equal(t, d(2024, time.February, 1), MonthStart(d(2024, time.February, 17)))
	assert.Equal(t, d(2024, time.February, 29), MonthEnd(d(2024, time.February, 17)))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
}

func TestClampDate(t *testing.T) {
	lo, hi := d(2024, time.March, 10), d(2024, time.March, 20)
	assert.Equal(t, lo, ClampDate(d(2024, time.March, 1), lo, hi))
	assert.Equal(t, hi, ClampDate(d(2024, time.March, 31), lo, hi))
	assert.Equal(t, d(2024, time.March, 15), ClampDate(d(2024, time.March, 15), lo, hi))
}
