package service

import (
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
)

// requireUpstream turns a failed or empty upstream read into the configuration
// error a stage reports before generating anything.
func requireUpstream(stage types.Stage, table string, rows int, err error) error {
	if err != nil {
		if ierr.IsNotFound(err) {
			return ierr.WithError(err).
				WithHintf("Run the %s stage before %s", table, stage).
				Mark(ierr.ErrValidation)
		}
		return err
	}
	if rows == 0 {
		return ierr.NewErrorf("table %s is empty", table).
			WithHintf("Run the %s stage before %s", table, stage).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// customerSet collects the identifiers of the customers table for foreign key
// checks.
func customerSet[T any](rows []T, id func(T) string) map[string]struct{} {
	out := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		out[id(r)] = struct{}{}
	}
	return out
}
