package pipeline

import (
	"testing"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/service"
	"github.com/flexprice/saaskpi/internal/testutil"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/flexprice/saaskpi/internal/workbook"
	"github.com/stretchr/testify/suite"
)

type RunnerSuite struct {
	testutil.BaseServiceTestSuite
	runner *Runner
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		stores.CustomerRepo,
		stores.SubscriptionRepo,
		stores.EventRepo,
		stores.InvoiceRepo,
		stores.PaymentRepo,
	)
	s.runner = NewRunner(
		s.GetConfig(),
		s.GetLogger(),
		service.NewCustomerService(params),
		service.NewSubscriptionService(params),
		service.NewEventService(params),
		service.NewInvoiceService(params),
		service.NewPaymentService(params),
	)
}

func (s *RunnerSuite) snapshot() map[string]*workbook.Table {
	wb := s.GetStores().Workbook
	out := make(map[string]*workbook.Table)
	for _, stage := range types.Stages {
		t, err := wb.ReadTable(s.GetContext(), stage.Table())
		s.Require().NoError(err)
		out[stage.Table()] = t
	}
	return out
}

func (s *RunnerSuite) TestRunAll() {
	summaries, err := s.runner.RunAll(s.GetContext())
	s.Require().NoError(err)
	s.Require().Len(summaries, len(types.Stages))

	wb := s.GetStores().Workbook
	for i, stage := range types.Stages {
		s.Equal(stage, summaries[i].Stage)
		s.Equal(1, wb.Writes[stage.Table()], stage)

		t, err := wb.ReadTable(s.GetContext(), stage.Table())
		s.Require().NoError(err)
		s.Len(t.Rows, summaries[i].Rows, stage)
	}
	s.Equal(s.GetConfig().Generation.Customers.Count, summaries[0].Rows)
}

func (s *RunnerSuite) TestRunAllIsReproducible() {
	_, err := s.runner.RunAll(s.GetContext())
	s.Require().NoError(err)
	first := s.snapshot()

	s.ClearStores()

	_, err = s.runner.RunAll(s.GetContext())
	s.Require().NoError(err)
	s.Equal(first, s.snapshot())
}

func (s *RunnerSuite) TestFailedStageKeepsPreviousTable() {
	_, err := s.runner.RunAll(s.GetContext())
	s.Require().NoError(err)
	before := s.snapshot()[types.TablePayments]

	s.GetConfig().Generation.Payments.LagDays = types.IntRange{Min: 5, Max: 1}
	_, err = s.runner.Run(s.GetContext(), types.StagePayments)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	wb := s.GetStores().Workbook
	s.Equal(1, wb.Writes[types.TablePayments])
	s.Equal(before, s.snapshot()[types.TablePayments])
}

func (s *RunnerSuite) TestMissingUpstream() {
	_, err := s.runner.Run(s.GetContext(), types.StageInvoices)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.NotEmpty(ierr.GetHints(err))
	s.False(s.GetStores().Workbook.Has(types.TableInvoices))
}

func (s *RunnerSuite) TestUnknownStage() {
	_, err := s.runner.Run(s.GetContext(), types.Stage("refunds"))
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *RunnerSuite) TestMalformedToday() {
	s.GetConfig().Generation.Today = "2024-13-01"
	_, err := s.runner.Run(s.GetContext(), types.StageCustomers)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.False(s.GetStores().Workbook.Has(types.TableCustomers))
}
