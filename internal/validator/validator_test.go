package validator

import (
	"testing"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required"`
	Count int    `validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sample{Name: "a", Count: 1}, "invalid sample"))

	err := ValidateStruct(sample{}, "invalid sample")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
	assert.Contains(t, ierr.GetHints(err), "invalid sample")
}

func TestGetValidator_Shared(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
