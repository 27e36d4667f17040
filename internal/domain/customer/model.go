package customer

import (
	"fmt"
	"regexp"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/shopspring/decimal"
)

// Customer is the root entity every other table references.
type Customer struct {
	// ID is the zero padded sequential identifier, e.g. C0001
	ID string `db:"customer_id" json:"customer_id"`

	// SignupDate is the date the logo converted
	SignupDate time.Time `db:"signup_date" json:"signup_date"`

	Segment            string `db:"segment" json:"segment"`
	Region             string `db:"region" json:"region"`
	AcquisitionChannel string `db:"acquisition_channel" json:"acquisition_channel"`

	// CAC is the customer acquisition cost, rounded to cents
	CAC decimal.Decimal `db:"cac" json:"cac"`
}

var idPattern = regexp.MustCompile(fmt.Sprintf(`^%s\d{%d,}$`, types.ID_PREFIX_CUSTOMER, types.ID_WIDTH_CUSTOMER))

// Validate checks a single row for missing values.
func (c *Customer) Validate() error {
	if c.ID == "" {
		return ierr.NewError("customer_id is required").
			Mark(ierr.ErrValidation)
	}
	if c.SignupDate.IsZero() {
		return ierr.NewErrorf("customer %s has no signup_date", c.ID).
			Mark(ierr.ErrValidation)
	}
	if c.Segment == "" || c.Region == "" || c.AcquisitionChannel == "" {
		return ierr.NewErrorf("customer %s is missing a categorical attribute", c.ID).
			Mark(ierr.ErrValidation)
	}
	if c.CAC.IsNegative() {
		return ierr.NewErrorf("customer %s has negative cac", c.ID).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IndexByID maps customer identifiers to their rows.
func IndexByID(customers []*Customer) map[string]*Customer {
	out := make(map[string]*Customer, len(customers))
	for _, c := range customers {
		out[c.ID] = c
	}
	return out
}

// ValidateBatch runs the post-generation checks of the customers table.
func ValidateBatch(customers []*Customer, expected int, today time.Time) error {
	var vs ierr.Violations

	if len(customers) != expected {
		vs.Add("row_count", "", "expected %d customers, got %d", expected, len(customers))
	}

	seen := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		if err := c.Validate(); err != nil {
			vs.Add("not_null", c.ID, "%v", err)
		}
		if _, dup := seen[c.ID]; dup {
			vs.Add("unique_id", c.ID, "customer_id appears more than once")
		}
		seen[c.ID] = struct{}{}
		if !idPattern.MatchString(c.ID) {
			vs.Add("id_format", c.ID, "customer_id does not match %s", idPattern.String())
		}
		if c.SignupDate.After(today) {
			vs.Add("no_future_signup", c.ID, "signup_date %s is after %s",
				types.FormatDate(c.SignupDate), types.FormatDate(today))
		}
	}

	return vs.Err(string(types.StageCustomers), types.TableCustomers)
}
