package service

import (
	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/domain/subscription"
	"github.com/flexprice/saaskpi/internal/testutil"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func testServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		stores.CustomerRepo,
		stores.SubscriptionRepo,
		stores.EventRepo,
		stores.InvoiceRepo,
		stores.PaymentRepo,
	)
}

func testCustomer(id string, signup string, segment string) *customer.Customer {
	d, err := types.ParseDate(signup)
	if err != nil {
		panic(err)
	}
	return &customer.Customer{
		ID:                 id,
		SignupDate:         d,
		Segment:            segment,
		Region:             "NA",
		AcquisitionChannel: "Paid",
		CAC:                decimal.NewFromInt(800),
	}
}

// testPeriod builds a period; an empty end leaves it active.
func testPeriod(id, customerID, start, end, plan string, price string) *subscription.Subscription {
	s, err := types.ParseDate(start)
	if err != nil {
		panic(err)
	}
	e, err := types.ParseOptionalDate(end)
	if err != nil {
		panic(err)
	}
	return &subscription.Subscription{
		ID:         id,
		CustomerID: customerID,
		StartDate:  s,
		EndDate:    e,
		Plan:       plan,
		PriceMRR:   decimal.RequireFromString(price),
		Status:     types.SubscriptionStatusFor(e),
	}
}

func sumAmounts[T any](rows []T, amount func(T) decimal.Decimal) decimal.Decimal {
	return lo.Reduce(rows, func(acc decimal.Decimal, r T, _ int) decimal.Decimal {
		return acc.Add(amount(r))
	}, decimal.Zero)
}
