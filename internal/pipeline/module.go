package pipeline

import (
	"context"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/repository"
	"github.com/flexprice/saaskpi/internal/service"
	"github.com/flexprice/saaskpi/internal/workbook"
	"go.uber.org/fx"
)

// CoreModule provides the configuration, the logger and the workbook store.
func CoreModule(configPath string) fx.Option {
	return fx.Options(
		fx.Provide(
			func() (*config.Configuration, error) {
				return config.NewConfig(configPath)
			},
			logger.NewLogger,
			provideWorkbook,
		),
	)
}

// Module provides everything a stage command needs on top of CoreModule.
func Module(configPath string) fx.Option {
	return fx.Options(
		CoreModule(configPath),
		fx.Provide(
			// Repositories
			repository.NewCustomerRepository,
			repository.NewSubscriptionRepository,
			repository.NewEventRepository,
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,

			// Services
			service.NewServiceParams,
			service.NewCustomerService,
			service.NewSubscriptionService,
			service.NewEventService,
			service.NewInvoiceService,
			service.NewPaymentService,

			NewRunner,
		),
	)
}

func provideWorkbook(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (workbook.Store, error) {
	store, err := workbook.Open(cfg.Workbook.Path, log)
	if err != nil {
		return nil, err
	}
	log.Debugw("workbook opened", "path", store.Path())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
