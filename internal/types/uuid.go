package types

import (
	"fmt"
	"strconv"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateRunID returns the identifier stamped on every log line of a stage run.
func GenerateRunID() string {
	return fmt.Sprintf("%s_%s", UUID_PREFIX_RUN, GenerateUUID())
}

// FormatSequentialID renders the 1-based n as prefix + zero padded digits,
// e.g. FormatSequentialID("C", 7, 4) = "C0007".
func FormatSequentialID(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// SequentialIDWidth returns the digit width for count identifiers: at least
// minWidth, widened so that every identifier of the batch has the same length
// and therefore sorts lexicographically in numeric order.
func SequentialIDWidth(count, minWidth int) int {
	w := len(strconv.Itoa(count))
	if w < minWidth {
		return minWidth
	}
	return w
}

// SequentialIDs returns count identifiers starting at 1.
func SequentialIDs(prefix string, count, minWidth int) []string {
	width := SequentialIDWidth(count, minWidth)
	ids := make([]string, count)
	for i := range ids {
		ids[i] = FormatSequentialID(prefix, i+1, width)
	}
	return ids
}

const (
	UUID_PREFIX_RUN = "run"

	// Prefixes of the sequential identifiers of each generated table
	ID_PREFIX_CUSTOMER     = "C"
	ID_PREFIX_SUBSCRIPTION = "S"
	ID_PREFIX_EVENT        = "E"
	ID_PREFIX_INVOICE      = "I"
	ID_PREFIX_PAYMENT      = "P"

	ID_WIDTH_CUSTOMER = 4
	ID_WIDTH_DEFAULT  = 6
)
