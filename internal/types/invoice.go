package types

// BillingCadence is the billing frequency applied to a subscription period.
type BillingCadence string

const (
	BillingCadenceMonthly BillingCadence = "monthly"
	BillingCadenceAnnual  BillingCadence = "annual"
)

// AnnualPrepayMonths is the longest span a single annual invoice covers.
const AnnualPrepayMonths = 12

func (c BillingCadence) String() string {
	return string(c)
}
