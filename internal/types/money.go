package types

import (
	"github.com/shopspring/decimal"
)

// Money amounts are rounded half-even to cents after every arithmetic step.
const MoneyPlaces int32 = 2

var (
	// PaymentTolerance is how far the payments of an invoice may exceed it.
	PaymentTolerance = decimal.New(1, -2)

	// MRRTolerance is how far below zero a running MRR total may dip before it
	// is treated as negative.
	MRRTolerance = decimal.New(1, -6)
)

// RoundMoney applies the single rounding rule used for all amounts.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyPlaces)
}

// MoneyFromFloat converts a sampled float to a rounded amount.
func MoneyFromFloat(f float64) decimal.Decimal {
	return RoundMoney(decimal.NewFromFloat(f))
}

// FormatMoney renders an amount with exactly two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixedBank(MoneyPlaces)
}

// ParseMoney parses a stored amount.
func ParseMoney(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
