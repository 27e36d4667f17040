package testutil

import (
	"context"
	"time"
)

// FixedToday is the generation date every service test runs at.
var FixedToday = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func SetupContext() context.Context {
	return context.Background()
}
