package testutil

import (
	"context"
	"time"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/domain/events"
	"github.com/flexprice/saaskpi/internal/domain/invoice"
	"github.com/flexprice/saaskpi/internal/domain/payment"
	"github.com/flexprice/saaskpi/internal/domain/subscription"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/repository"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	Workbook         *InMemoryWorkbook
	CustomerRepo     customer.Repository
	SubscriptionRepo subscription.Repository
	EventRepo        events.Repository
	InvoiceRepo      invoice.Repository
	PaymentRepo      payment.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	today  time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.logger = logger.NewNoopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.today = FixedToday
	s.setupConfig()
	s.setupStores()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.Workbook.Clear()
}

func (s *BaseServiceTestSuite) setupConfig() {
	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelDebug
	cfg.Workbook.Path = ":memory:"
	cfg.Generation.Today = types.FormatDate(s.today)
	s.config = cfg
}

func (s *BaseServiceTestSuite) setupStores() {
	wb := NewInMemoryWorkbook()
	s.stores = Stores{
		Workbook:         wb,
		CustomerRepo:     repository.NewCustomerRepository(wb, s.logger),
		SubscriptionRepo: repository.NewSubscriptionRepository(wb, s.logger),
		EventRepo:        repository.NewEventRepository(wb, s.logger),
		InvoiceRepo:      repository.NewInvoiceRepository(wb, s.logger),
		PaymentRepo:      repository.NewPaymentRepository(wb, s.logger),
	}
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.Workbook.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration, a fresh copy of the defaults
// pinned to FixedToday
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetToday returns the generation date of the test
func (s *BaseServiceTestSuite) GetToday() time.Time {
	return s.today
}

// Date builds a UTC calendar date
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
