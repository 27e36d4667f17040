package repository

import (
	"github.com/flexprice/saaskpi/internal/domain/customer"
	"github.com/flexprice/saaskpi/internal/domain/events"
	"github.com/flexprice/saaskpi/internal/domain/invoice"
	"github.com/flexprice/saaskpi/internal/domain/payment"
	"github.com/flexprice/saaskpi/internal/domain/subscription"
	"github.com/flexprice/saaskpi/internal/logger"
	workbookRepo "github.com/flexprice/saaskpi/internal/repository/workbook"
	wb "github.com/flexprice/saaskpi/internal/workbook"
)

func NewCustomerRepository(store wb.Store, logger *logger.Logger) customer.Repository {
	return workbookRepo.NewCustomerRepository(store, logger)
}

func NewSubscriptionRepository(store wb.Store, logger *logger.Logger) subscription.Repository {
	return workbookRepo.NewSubscriptionRepository(store, logger)
}

func NewEventRepository(store wb.Store, logger *logger.Logger) events.Repository {
	return workbookRepo.NewEventRepository(store, logger)
}

func NewInvoiceRepository(store wb.Store, logger *logger.Logger) invoice.Repository {
	return workbookRepo.NewInvoiceRepository(store, logger)
}

func NewPaymentRepository(store wb.Store, logger *logger.Logger) payment.Repository {
	return workbookRepo.NewPaymentRepository(store, logger)
}
