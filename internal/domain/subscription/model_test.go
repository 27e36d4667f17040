package subscription

import (
	"testing"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func period(id, customerID string, start time.Time, end *time.Time) *Subscription {
	return &Subscription{
		ID:         id,
		CustomerID: customerID,
		StartDate:  start,
		EndDate:    end,
		Plan:       "Pro",
		PriceMRR:   decimal.NewFromInt(50),
		Status:     types.SubscriptionStatusFor(end),
	}
}

var signups = map[string]time.Time{
	"C0001": date(2023, 1, 10),
	"C0002": date(2023, 6, 1),
}

func TestValidateBatch_Valid(t *testing.T) {
	subs := []*Subscription{
		period("S000001", "C0001", date(2023, 1, 12), lo.ToPtr(date(2023, 7, 11))),
		period("S000002", "C0001", date(2023, 8, 20), nil),
		period("S000003", "C0002", date(2023, 6, 1), nil),
	}
	assert.NoError(t, ValidateBatch(subs, signups))
}

func TestValidateBatch_Violations(t *testing.T) {
	tests := []struct {
		name  string
		subs  []*Subscription
		check string
	}{
		{
			name: "overlap",
			subs: []*Subscription{
				period("S000001", "C0001", date(2023, 1, 12), lo.ToPtr(date(2023, 7, 11))),
				period("S000002", "C0001", date(2023, 7, 11), nil),
			},
			check: "no_overlap",
		},
		{
			name: "period after an active one",
			subs: []*Subscription{
				period("S000001", "C0001", date(2023, 1, 12), nil),
				period("S000002", "C0001", date(2023, 9, 1), nil),
			},
			check: "no_overlap",
		},
		{
			name: "too many periods",
			subs: []*Subscription{
				period("S000001", "C0001", date(2023, 1, 12), lo.ToPtr(date(2023, 3, 1))),
				period("S000002", "C0001", date(2023, 4, 1), lo.ToPtr(date(2023, 6, 1))),
				period("S000003", "C0001", date(2023, 7, 1), nil),
			},
			check: "max_periods",
		},
		{
			name:  "unknown customer",
			subs:  []*Subscription{period("S000001", "C0099", date(2023, 1, 12), nil)},
			check: "foreign_key",
		},
		{
			name:  "before signup",
			subs:  []*Subscription{period("S000001", "C0002", date(2023, 5, 30), nil)},
			check: "start_after_signup",
		},
		{
			name: "duplicate id",
			subs: []*Subscription{
				period("S000001", "C0001", date(2023, 1, 12), nil),
				period("S000001", "C0002", date(2023, 6, 2), nil),
			},
			check: "unique_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch(tt.subs, signups)
			require.Error(t, err)
			ie, ok := ierr.AsInvariantError(err)
			require.True(t, ok)
			assert.Contains(t, ie.Checks(), tt.check)
		})
	}
}

func TestSubscription_Validate(t *testing.T) {
	s := period("S000001", "C0001", date(2023, 1, 12), nil)
	require.NoError(t, s.Validate())

	s.Status = types.SubscriptionStatusCanceled
	assert.Error(t, s.Validate())

	s = period("S000001", "C0001", date(2023, 1, 12), lo.ToPtr(date(2023, 1, 12)))
	assert.Error(t, s.Validate())
}

func TestGroupByCustomer(t *testing.T) {
	subs := []*Subscription{
		period("S3", "C0002", date(2023, 6, 1), nil),
		period("S2", "C0001", date(2023, 8, 20), nil),
		period("S1", "C0001", date(2023, 1, 12), lo.ToPtr(date(2023, 7, 11))),
	}

	order, groups := GroupByCustomer(subs)
	assert.Equal(t, []string{"C0001", "C0002"}, order)
	assert.Equal(t, []string{"S1", "S2"}, lo.Map(groups["C0001"], func(s *Subscription, _ int) string { return s.ID }))
	assert.Equal(t, "S3", subs[0].ID, "input order is untouched")
}
