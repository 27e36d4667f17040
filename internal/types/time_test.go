package types

import (
	"testing"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "valid date", input: "2024-02-29", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "first of year", input: "2025-01-01", want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "not a leap year", input: "2023-02-29", wantErr: true},
		{name: "wrong layout", input: "01/02/2024", wantErr: true},
		{name: "timestamp", input: "2024-01-02T00:00:00Z", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, FormatDate(got))
		})
	}
}

func TestOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "", FormatOptionalDate(nil))

	got, err = ParseOptionalDate("2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", FormatOptionalDate(got))

	_, err = ParseOptionalDate("2024-06-31")
	assert.Error(t, err)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2024, 3, 10, 23, 59, 59, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Day(in))
	assert.Equal(t, Day(in), Day(*lo.ToPtr(Day(in))))
}
