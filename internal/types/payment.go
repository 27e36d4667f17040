package types

// PaymentOutcome is the collection result drawn for a positive invoice.
type PaymentOutcome string

const (
	PaymentOutcomeFullyPaid   PaymentOutcome = "fully_paid"
	PaymentOutcomePartialPaid PaymentOutcome = "partial_paid"
	PaymentOutcomeUnpaid      PaymentOutcome = "unpaid"
)

func (o PaymentOutcome) String() string {
	return string(o)
}
