package types

import (
	ierr "github.com/flexprice/saaskpi/internal/errors"
)

// Stage names one generation step. Each stage owns exactly one table.
type Stage string

const (
	StageCustomers     Stage = "customers"
	StageSubscriptions Stage = "subscriptions"
	StageEvents        Stage = "events"
	StageInvoices      Stage = "invoices"
	StagePayments      Stage = "payments"
)

// Table names inside the workbook
const (
	TableCustomers     = "customers"
	TableSubscriptions = "subscriptions"
	TableEvents        = "events"
	TableInvoices      = "invoices"
	TablePayments      = "payments"
)

// Stages lists the stages in dependency order.
var Stages = []Stage{
	StageCustomers,
	StageSubscriptions,
	StageEvents,
	StageInvoices,
	StagePayments,
}

// Table returns the table a stage replaces.
func (s Stage) Table() string {
	switch s {
	case StageCustomers:
		return TableCustomers
	case StageSubscriptions:
		return TableSubscriptions
	case StageEvents:
		return TableEvents
	case StageInvoices:
		return TableInvoices
	case StagePayments:
		return TablePayments
	}
	return ""
}

// Upstream returns the tables a stage reads before generating.
func (s Stage) Upstream() []string {
	switch s {
	case StageSubscriptions:
		return []string{TableCustomers}
	case StageEvents, StageInvoices:
		return []string{TableCustomers, TableSubscriptions}
	case StagePayments:
		return []string{TableInvoices}
	}
	return nil
}

func (s Stage) String() string {
	return string(s)
}

func (s Stage) Validate() error {
	for _, known := range Stages {
		if s == known {
			return nil
		}
	}
	return ierr.NewErrorf("unknown stage %q", s).
		WithHint("Stage must be one of customers, subscriptions, events, invoices, payments").
		Mark(ierr.ErrValidation)
}
