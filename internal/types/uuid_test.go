package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs(t *testing.T) {
	assert.Equal(t, "C0001", FormatSequentialID(ID_PREFIX_CUSTOMER, 1, ID_WIDTH_CUSTOMER))
	assert.Equal(t, "S000123", FormatSequentialID(ID_PREFIX_SUBSCRIPTION, 123, ID_WIDTH_DEFAULT))

	ids := SequentialIDs(ID_PREFIX_CUSTOMER, 3, ID_WIDTH_CUSTOMER)
	assert.Equal(t, []string{"C0001", "C0002", "C0003"}, ids)

	assert.Equal(t, 5, SequentialIDWidth(12000, ID_WIDTH_CUSTOMER))
	wide := SequentialIDs(ID_PREFIX_CUSTOMER, 10000, ID_WIDTH_CUSTOMER)
	assert.Equal(t, "C00001", wide[0])
	assert.Equal(t, "C10000", wide[len(wide)-1])
	assert.True(t, wide[9] < wide[10])
}

func TestGenerateRunID(t *testing.T) {
	id := GenerateRunID()
	assert.True(t, strings.HasPrefix(id, "run_"))
	assert.NotEqual(t, id, GenerateRunID())
}
