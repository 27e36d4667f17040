package pipeline

import (
	"context"
	"time"

	"github.com/flexprice/saaskpi/internal/config"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/service"
	"github.com/flexprice/saaskpi/internal/types"
)

// StageFunc generates, validates and persists the table of one stage.
type StageFunc func(ctx context.Context, today time.Time) (*service.Summary, error)

// Runner dispatches stage runs and stamps each with a run id.
type Runner struct {
	config *config.Configuration
	logger *logger.Logger
	stages map[types.Stage]StageFunc
	now    func() time.Time
}

func NewRunner(
	cfg *config.Configuration,
	log *logger.Logger,
	customers service.CustomerService,
	subscriptions service.SubscriptionService,
	evts service.EventService,
	invoices service.InvoiceService,
	payments service.PaymentService,
) *Runner {
	return &Runner{
		config: cfg,
		logger: log,
		stages: map[types.Stage]StageFunc{
			types.StageCustomers:     customers.Run,
			types.StageSubscriptions: subscriptions.Run,
			types.StageEvents: func(ctx context.Context, _ time.Time) (*service.Summary, error) {
				return evts.Run(ctx)
			},
			types.StageInvoices: invoices.Run,
			types.StagePayments: payments.Run,
		},
		now: time.Now,
	}
}

// Run executes a single stage. A failed stage leaves the workbook untouched.
func (r *Runner) Run(ctx context.Context, stage types.Stage) (*service.Summary, error) {
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	today, err := r.config.Today(r.now())
	if err != nil {
		return nil, err
	}

	log := r.logger.With(
		"run_id", types.GenerateRunID(),
		"stage", stage.String(),
	)
	log.Infow("starting stage",
		"today", types.FormatDate(today),
		"upstream", stage.Upstream(),
	)

	start := time.Now()
	summary, err := r.stages[stage](ctx, today)
	if err != nil {
		log.Errorw("stage failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	log.Infow("stage completed", append(summary.Fields(), "duration_ms", time.Since(start).Milliseconds())...)
	return summary, nil
}

// RunAll executes every stage in dependency order and stops at the first
// failure.
func (r *Runner) RunAll(ctx context.Context) ([]*service.Summary, error) {
	summaries := make([]*service.Summary, 0, len(types.Stages))
	for _, stage := range types.Stages {
		summary, err := r.Run(ctx, stage)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
