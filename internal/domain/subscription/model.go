package subscription

import (
	"sort"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/shopspring/decimal"
)

// MaxPeriodsPerCustomer bounds the lifecycle shape: a first period and at most
// one reactivation.
const MaxPeriodsPerCustomer = 2

// Subscription is one billing period of a customer.
type Subscription struct {
	ID         string `db:"subscription_id" json:"subscription_id"`
	CustomerID string `db:"customer_id" json:"customer_id"`

	StartDate time.Time `db:"start_date" json:"start_date"`
	// EndDate is the inclusive last day of service, nil while active
	EndDate *time.Time `db:"end_date" json:"end_date,omitempty"`

	Plan     string          `db:"plan" json:"plan"`
	PriceMRR decimal.Decimal `db:"price_mrr" json:"price_mrr"`

	// Status is derived from EndDate and kept for readers of the table
	Status types.SubscriptionStatus `db:"status" json:"status"`
}

// IsActive reports whether the period is still running.
func (s *Subscription) IsActive() bool {
	return s.EndDate == nil
}

// Validate checks a single row in isolation.
func (s *Subscription) Validate() error {
	if s.CustomerID == "" {
		return ierr.NewErrorf("subscription %s has no customer_id", s.ID).
			Mark(ierr.ErrValidation)
	}
	if s.StartDate.IsZero() {
		return ierr.NewErrorf("subscription %s has no start_date", s.ID).
			Mark(ierr.ErrValidation)
	}
	if s.EndDate != nil && !s.EndDate.After(s.StartDate) {
		return ierr.NewErrorf("subscription %s ends on or before it starts", s.ID).
			Mark(ierr.ErrValidation)
	}
	if s.Plan == "" {
		return ierr.NewErrorf("subscription %s has no plan", s.ID).
			Mark(ierr.ErrValidation)
	}
	if !s.PriceMRR.IsPositive() {
		return ierr.NewErrorf("subscription %s has non-positive price_mrr", s.ID).
			Mark(ierr.ErrValidation)
	}
	if s.Status != types.SubscriptionStatusFor(s.EndDate) {
		return ierr.NewErrorf("subscription %s status %q disagrees with its end_date", s.ID, s.Status).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SortByCustomerAndStart orders periods by (customer, start date).
func SortByCustomerAndStart(subs []*Subscription) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].CustomerID != subs[j].CustomerID {
			return subs[i].CustomerID < subs[j].CustomerID
		}
		return subs[i].StartDate.Before(subs[j].StartDate)
	})
}

// GroupByCustomer returns each customer's periods in start-date order along
// with the customer identifiers in ascending order.
func GroupByCustomer(subs []*Subscription) ([]string, map[string][]*Subscription) {
	sorted := make([]*Subscription, len(subs))
	copy(sorted, subs)
	SortByCustomerAndStart(sorted)

	groups := make(map[string][]*Subscription)
	var order []string
	for _, s := range sorted {
		if _, ok := groups[s.CustomerID]; !ok {
			order = append(order, s.CustomerID)
		}
		groups[s.CustomerID] = append(groups[s.CustomerID], s)
	}
	return order, groups
}

// CheckPeriods validates the temporal shape of one customer's periods, which
// must already be sorted by start date, and records any violation.
func CheckPeriods(periods []*Subscription, vs *ierr.Violations) {
	if len(periods) > MaxPeriodsPerCustomer {
		vs.Add("max_periods", periods[0].CustomerID, "%d periods, at most %d allowed",
			len(periods), MaxPeriodsPerCustomer)
	}
	for i := 1; i < len(periods); i++ {
		prev, cur := periods[i-1], periods[i]
		if prev.EndDate == nil {
			vs.Add("no_overlap", cur.ID, "starts after active period %s which has no end", prev.ID)
			continue
		}
		if !cur.StartDate.After(*prev.EndDate) {
			vs.Add("no_overlap", cur.ID, "starts %s, not after %s ended %s",
				types.FormatDate(cur.StartDate), prev.ID, types.FormatDate(*prev.EndDate))
		}
	}
}

// ValidateBatch runs the post-generation checks of the subscriptions table.
// signups maps every known customer to its signup date.
func ValidateBatch(subs []*Subscription, signups map[string]time.Time) error {
	var vs ierr.Violations

	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		if _, dup := seen[s.ID]; dup {
			vs.Add("unique_id", s.ID, "subscription_id appears more than once")
		}
		seen[s.ID] = struct{}{}

		if err := s.Validate(); err != nil {
			vs.Add("row", s.ID, "%v", err)
		}

		signup, ok := signups[s.CustomerID]
		if !ok {
			vs.Add("foreign_key", s.ID, "unknown customer_id %s", s.CustomerID)
			continue
		}
		if s.StartDate.Before(signup) {
			vs.Add("start_after_signup", s.ID, "start_date %s precedes signup %s",
				types.FormatDate(s.StartDate), types.FormatDate(signup))
		}
	}

	order, groups := GroupByCustomer(subs)
	for _, customerID := range order {
		CheckPeriods(groups[customerID], &vs)
	}

	return vs.Err(string(types.StageSubscriptions), types.TableSubscriptions)
}
