package push

import (
	"context"
	"time"

	"github.com/flexprice/saaskpi/internal/config"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/logger"
	"github.com/flexprice/saaskpi/internal/workbook"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"
)

// Sink is an external store tables get replaced in.
type Sink interface {
	// Name identifies the sink in results and logs
	Name() string
	// Prepare creates the target namespace when missing
	Prepare(ctx context.Context, schema string) error
	// WriteTable drops and recreates ds.Name under schema
	WriteTable(ctx context.Context, schema string, ds *Dataset) error
}

// Result is the outcome of pushing one table to one sink.
type Result struct {
	Sink   string
	Source string
	Table  string
	Rows   int
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Service interface {
	// Push copies every non-empty workbook table to every sink. Failures of
	// a single table are reported in its Result and never stop the others.
	Push(ctx context.Context) ([]Result, error)
}

type pushService struct {
	config *config.Configuration
	logger *logger.Logger
	store  workbook.Store
	sinks  []Sink
}

func NewService(cfg *config.Configuration, log *logger.Logger, store workbook.Store, sinks []Sink) Service {
	return &pushService{
		config: cfg,
		logger: log,
		store:  store,
		sinks:  sinks,
	}
}

func (s *pushService) Push(ctx context.Context) ([]Result, error) {
	if len(s.sinks) == 0 {
		return nil, ierr.NewError("no push sink is enabled").
			WithHint("Enable postgres, clickhouse or s3 in the configuration").
			Mark(ierr.ErrValidation)
	}

	datasets, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	schema := s.config.Push.Schema
	perSink := iter.Map(s.sinks, func(sink *Sink) []Result {
		return s.pushTo(ctx, *sink, schema, datasets)
	})
	return lo.Flatten(perSink), nil
}

// load reads and coerces every non-empty table of the workbook.
func (s *pushService) load(ctx context.Context) ([]*Dataset, error) {
	names, err := s.store.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(names))
	datasets := make([]*Dataset, 0, len(names))
	for _, name := range names {
		t, err := s.store.ReadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(t.Rows) == 0 {
			s.logger.Debugw("skipping empty table", "table", name)
			continue
		}

		target := uniqueTableName(TableName(s.config.Push.RenameFor(name)), taken)
		taken[target] = struct{}{}
		datasets = append(datasets, NewDataset(t, target))
	}

	if len(datasets) == 0 {
		return nil, ierr.NewError("workbook has no non-empty tables").
			WithHint("Run the generation stages before pushing").
			Mark(ierr.ErrValidation)
	}
	return datasets, nil
}

func (s *pushService) pushTo(ctx context.Context, sink Sink, schema string, datasets []*Dataset) []Result {
	log := s.logger.With("sink", sink.Name(), "schema", schema)
	results := make([]Result, 0, len(datasets))

	if err := sink.Prepare(ctx, schema); err != nil {
		log.Errorw("failed to prepare sink", "error", err)
		for _, ds := range datasets {
			results = append(results, Result{Sink: sink.Name(), Source: ds.Source, Table: ds.Name, Err: err})
		}
		return results
	}

	for _, ds := range datasets {
		start := time.Now()
		err := sink.WriteTable(ctx, schema, ds)
		res := Result{Sink: sink.Name(), Source: ds.Source, Table: ds.Name, Rows: len(ds.Rows), Err: err}
		if err != nil {
			res.Rows = 0
			log.Errorw("failed to push table", "table", ds.Name, "error", err)
		} else {
			log.Infow("pushed table",
				"table", ds.Name,
				"rows", len(ds.Rows),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
		results = append(results, res)
	}
	return results
}
