// Package stocktally reconciles marketplace seller inventory: it ingests a
// per-warehouse stock snapshot feed and a per-order shipment feed, resolves
// their free-form warehouse labels to canonical identities, deduplicates
// orders, and rolls both feeds up into per-item warehouse buckets with an
// independent consistency check on the side.
//
// The two feeds share no clean keys — the same physical warehouse appears
// under different spellings, scripts, and abbreviations — so reconciliation
// hinges on the identity layer in pkg/warehouses. The engine is best-effort
// by contract: malformed records are dropped and counted, never errored on,
// and disagreements between the rollup and the independent tally are
// reported, never auto-corrected.
//
// Example usage:
//
//	engine, err := stocktally.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := engine.Reconcile(ctx, stocks, orders)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, item := range result.Items {
//	    fmt.Println(item.Key, item.TotalStock, item.TotalOrders)
//	}
//	if !result.Report.Pass() {
//	    fmt.Println("rollup disagrees with the independent tally")
//	}
package stocktally

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sellsight/stocktally/pkg/constants"
	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/logging"
	"github.com/sellsight/stocktally/pkg/rollup"
	"github.com/sellsight/stocktally/pkg/validate"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// Engine reconciles stock and order feeds into per-item warehouse rollups.
type Engine interface {
	// Reconcile aggregates both feeds, cross-checks the result against an
	// independent tally, and returns everything a caller needs to render
	// or gate on the run. Feed content never fails the run: malformed
	// records are dropped and counted in the result. The context carries
	// scoped logging only; the engine defines no cancellation semantics.
	Reconcile(ctx context.Context, stocks []feeds.StockRecord, orders []feeds.OrderRecord) (*Result, error)
}

// Result is the complete outcome of one reconciliation run.
type Result struct {
	RunID      uuid.UUID              `json:"runId" yaml:"runId"`
	Items      []rollup.ItemAggregate `json:"items" yaml:"items"`
	Drops      rollup.DropStats       `json:"drops" yaml:"drops"`
	Provenance warehouses.Provenance  `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	Report     *validate.Report       `json:"report" yaml:"report"`
	Stats      RunStats               `json:"stats" yaml:"stats"`
}

// RunStats summarizes one run for logs and report headers.
type RunStats struct {
	StockRecords int           `json:"stockRecords" yaml:"stockRecords"`
	OrderRecords int           `json:"orderRecords" yaml:"orderRecords"`
	Items        int           `json:"items" yaml:"items"`
	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
}

// engine is the internal implementation of the Engine interface.
type engine struct {
	config *config
	agg    *rollup.Aggregator
	val    *validate.Validator
}

// New creates an Engine with the given options. Without options it uses the
// embedded warehouse dictionary and constants.DefaultWorkers.
func New(opts ...Option) (Engine, error) {
	e := &engine{config: defaultConfig()}
	if err := e.options(opts...); err != nil {
		return nil, err
	}

	dict := e.config.dictionary
	if dict == nil {
		dict = warehouses.Default()
	}

	norm := warehouses.NewNormalizer(dict)
	class := warehouses.NewClassifier(dict)
	e.agg = rollup.NewAggregator(norm, class)
	e.val = validate.NewValidator(validate.NewTallier(norm, class))
	return e, nil
}

// options applies the given options to the engine configuration.
func (e *engine) options(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(e.config); err != nil {
			return err
		}
	}
	return nil
}

// Reconcile implements Engine.
func (e *engine) Reconcile(ctx context.Context, stocks []feeds.StockRecord, orders []feeds.OrderRecord) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	runID := uuid.New()
	ctx = logging.WithRun(ctx, runID.String())

	log := logging.Ctx(ctx)
	log.Info().
		Int("stock_records", len(stocks)).
		Int("order_records", len(orders)).
		Int("workers", e.config.workers).
		Msg("reconciliation started")

	parts, drops := rollup.SplitByItem(stocks, orders)
	outcome := rollup.Merge(e.fanOut(ctx, parts))
	outcome.Drops.Add(drops)

	report := e.val.Validate(ctx, outcome.Items, stocks, orders)

	result := &Result{
		RunID:      runID,
		Items:      outcome.Items,
		Drops:      outcome.Drops,
		Provenance: outcome.Provenance,
		Report:     report,
		Stats: RunStats{
			StockRecords: len(stocks),
			OrderRecords: len(orders),
			Items:        len(outcome.Items),
			Elapsed:      time.Since(start),
		},
	}

	log.Info().
		Int("items", result.Stats.Items).
		Int("dropped", result.Drops.Total()).
		Bool("consistent", report.Pass()).
		Dur("elapsed", result.Stats.Elapsed).
		Msg("reconciliation finished")
	return result, nil
}

// fanOut rolls partitions up across a bounded worker pool. Outcomes come
// back in completion order; Merge re-sorts them, so scheduling never
// affects the result.
func (e *engine) fanOut(ctx context.Context, parts []rollup.Partition) []*rollup.Outcome {
	workers := e.config.workers
	if len(parts) < workers {
		workers = len(parts)
	}
	if workers <= 1 {
		outcomes := make([]*rollup.Outcome, 0, len(parts))
		for _, p := range parts {
			outcomes = append(outcomes, e.agg.AggregateItem(ctx, p))
		}
		return outcomes
	}

	jobs := make(chan rollup.Partition, constants.ChannelBufferSize)
	results := make(chan *rollup.Outcome, len(parts))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for part := range jobs {
				results <- e.agg.AggregateItem(ctx, part)
			}
		}()
	}

	for _, p := range parts {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
	close(results)

	outcomes := make([]*rollup.Outcome, 0, len(parts))
	for out := range results {
		outcomes = append(outcomes, out)
	}
	return outcomes
}
