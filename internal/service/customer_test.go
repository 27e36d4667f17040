package service

import (
	"testing"

	"github.com/flexprice/saaskpi/internal/domain/customer"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/testutil"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(testServiceParams(&s.BaseServiceTestSuite))
}

func (s *CustomerServiceSuite) TestGenerate() {
	customers, err := s.service.Generate(s.GetContext(), s.GetToday())
	s.Require().NoError(err)
	s.Require().Len(customers, 100)

	s.Equal("C0001", customers[0].ID)
	s.Equal("C0100", customers[99].ID)

	windowStart := testutil.Date(2022, 12, 1)
	windowEnd := testutil.Date(2024, 5, 31)
	cfg := s.GetConfig().Generation.Customers
	for _, c := range customers {
		s.False(c.SignupDate.Before(windowStart), "signup %s before window", c.ID)
		s.False(c.SignupDate.After(windowEnd), "signup %s after window", c.ID)
		s.True(cfg.SegmentMix.Contains(c.Segment))
		s.True(cfg.RegionMix.Contains(c.Region))

		band, ok := cfg.CACRange(c.AcquisitionChannel)
		s.Require().True(ok)
		cac := c.CAC.InexactFloat64()
		s.GreaterOrEqual(cac, band.Min)
		s.LessOrEqual(cac, band.Max)
		s.True(c.CAC.Equal(types.RoundMoney(c.CAC)))
	}
}

func (s *CustomerServiceSuite) TestGenerateIsDeterministic() {
	first, err := s.service.Generate(s.GetContext(), s.GetToday())
	s.Require().NoError(err)
	second, err := s.service.Generate(s.GetContext(), s.GetToday())
	s.Require().NoError(err)
	s.Equal(first, second)

	s.GetConfig().Generation.Customers.Seed = 7
	other, err := s.service.Generate(s.GetContext(), s.GetToday())
	s.Require().NoError(err)
	s.NotEqual(first, other)
}

func (s *CustomerServiceSuite) TestSignupsLeanRecent() {
	s.GetConfig().Generation.Customers.Count = 4000
	customers, err := s.service.Generate(s.GetContext(), s.GetToday())
	s.Require().NoError(err)

	// ramp 0.6 → 1.0: the newer half of the window carries ~57% of the weight
	midpoint := testutil.Date(2023, 9, 15)
	recent := 0
	for _, c := range customers {
		if c.SignupDate.After(midpoint) {
			recent++
		}
	}
	s.Greater(recent, len(customers)/2)
}

func (s *CustomerServiceSuite) TestWideCountWidensIdentifiers() {
	s.GetConfig().Generation.Customers.Count = 12000
	customers, err := s.service.Generate(s.GetContext(), s.GetToday())
	s.Require().NoError(err)
	s.Equal("C00001", customers[0].ID)
	s.Equal("C12000", customers[len(customers)-1].ID)
}

func (s *CustomerServiceSuite) TestMalformedMixRejected() {
	s.GetConfig().Generation.Customers.RegionMix = types.Mix{
		{Label: "NA", Weight: 0},
		{Label: "EMEA", Weight: 0},
	}
	_, err := s.service.Generate(s.GetContext(), s.GetToday())
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestRunReplacesTable() {
	summary, err := s.service.Run(s.GetContext(), s.GetToday())
	s.Require().NoError(err)
	s.Equal(100, summary.Rows)
	s.Equal(types.TableCustomers, summary.Table)
	s.Len(summary.Breakdowns, 3)

	stored, err := s.GetStores().CustomerRepo.List(s.GetContext())
	s.Require().NoError(err)
	s.Len(stored, 100)
	s.NoError(customer.ValidateBatch(stored, 100, s.GetToday()))

	total := 0
	for _, c := range summary.Breakdowns[0].Counts {
		total += c.Count
	}
	s.Equal(100, total)
}
