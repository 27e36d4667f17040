package service

import (
	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/domain/events"
	"github.com/flexprice/saaskpi/internal/domain/invoice"
	"github.com/flexprice/saaskpi/internal/domain/payment"
	"github.com/flexprice/saaskpi/internal/domain/subscription"
	"github.com/flexprice/saaskpi/internal/logger"
)

// ServiceParams holds common dependencies for the stage services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	CustomerRepo customer.Repository
	SubRepo      subscription.Repository
	EventRepo    events.Repository
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	customerRepo customer.Repository,
	subRepo subscription.Repository,
	eventRepo events.Repository,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		CustomerRepo: customerRepo,
		SubRepo:      subRepo,
		EventRepo:    eventRepo,
		InvoiceRepo:  invoiceRepo,
		PaymentRepo:  paymentRepo,
	}
}
