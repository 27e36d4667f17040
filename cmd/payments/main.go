package main

import (
	"github.com/flexprice/saaskpi/internal/pipeline"
	"github.com/flexprice/saaskpi/internal/types"
)

func main() {
	pipeline.Main(types.StagePayments)
}
