// Package validate cross-checks aggregated rollups against totals computed
// independently from the raw feeds.
//
// Warehouse-name handling bugs have a nasty failure mode: stock or orders
// silently land in the wrong bucket, every component behaves, and the books
// are quietly wrong. The validator recomputes per-item totals with flat
// maps — no partitioning, no buckets, no merging — and reports any
// disagreement with the rollup. Discrepancies are reported, never
// auto-corrected.
package validate

import (
	"context"
	"sort"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/logging"
	"github.com/sellsight/stocktally/pkg/rollup"
)

// Validator compares item aggregates against an independent tally.
type Validator struct {
	tallier *Tallier
}

// NewValidator returns a validator built on the given tallier.
func NewValidator(t *Tallier) *Validator {
	return &Validator{tallier: t}
}

// Validate tallies the feeds and checks every item aggregate against the
// result. Items present on only one side are discrepancies too: an item the
// tally saw but the rollup lost is exactly the silent undercount this check
// exists for. Aggregates are never mutated.
//
// The run ID is taken from the context when the caller put one there (see
// logging.WithRun); otherwise a fresh one is generated.
func (v *Validator) Validate(ctx context.Context, items []rollup.ItemAggregate, stocks []feeds.StockRecord, orders []feeds.OrderRecord) *Report {
	tally := v.tallier.Tally(stocks, orders)

	report := &Report{
		RunID:       runID(ctx),
		GeneratedAt: utc.Now(),
	}

	checked := make(map[feeds.ItemKey]struct{}, len(items))
	for i := range items {
		agg := items[i]
		checked[agg.Key] = struct{}{}
		if d := v.ValidateItem(agg, tally[agg.Key]); d != nil {
			report.Discrepancies = append(report.Discrepancies, *d)
		}
	}

	// Items the tally saw but the rollup did not produce.
	for key, exp := range tally {
		if _, ok := checked[key]; ok {
			continue
		}
		checked[key] = struct{}{}
		if d := v.ValidateItem(rollup.ItemAggregate{Key: key}, exp); d != nil {
			report.Discrepancies = append(report.Discrepancies, *d)
		}
	}
	report.ItemsChecked = len(checked)

	sort.Slice(report.Discrepancies, func(i, j int) bool {
		a, b := report.Discrepancies[i].Key, report.Discrepancies[j].Key
		if a.SellerCode != b.SellerCode {
			return a.SellerCode < b.SellerCode
		}
		return a.MarketplaceID < b.MarketplaceID
	})

	log := logging.Ctx(ctx)
	if report.Pass() {
		log.Debug().
			Int("items_checked", report.ItemsChecked).
			Msg("consistency check passed")
	} else {
		for _, d := range report.Discrepancies {
			log.Warn().
				Str("item", d.Key.String()).
				Int64("expected_orders", d.ExpectedOrders).
				Int64("computed_orders", d.ComputedOrders).
				Int64("expected_stock", d.ExpectedStock).
				Int64("computed_stock", d.ComputedStock).
				Int("warehouse_deltas", len(d.WarehouseDeltas)).
				Msg("rollup disagrees with independent tally")
		}
	}
	return report
}

// ValidateItem compares one aggregate against its expected totals and
// returns nil when they agree. A nil expected stands for an item the tally
// never saw.
func (v *Validator) ValidateItem(agg rollup.ItemAggregate, exp *Expected) *Discrepancy {
	if exp == nil {
		exp = &Expected{}
	}

	d := Discrepancy{
		Key:            agg.Key,
		ExpectedOrders: exp.Orders,
		ComputedOrders: agg.TotalOrders,
		ExpectedStock:  exp.Stock,
		ComputedStock:  agg.TotalStock,
	}

	names := make(map[string]struct{}, len(agg.Warehouses)+len(exp.ByWarehouse))
	for _, b := range agg.Warehouses {
		names[b.Name] = struct{}{}
	}
	for name := range exp.ByWarehouse {
		names[name] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		var computed Counts
		if b, ok := agg.Bucket(name); ok {
			computed = Counts{Orders: b.Orders, Stock: b.Stock}
		}
		expected := exp.ByWarehouse[name]
		if computed != expected {
			d.WarehouseDeltas = append(d.WarehouseDeltas, WarehouseDelta{
				Name:           name,
				ExpectedOrders: expected.Orders,
				ComputedOrders: computed.Orders,
				ExpectedStock:  expected.Stock,
				ComputedStock:  computed.Stock,
			})
		}
	}

	if d.OrdersMatch() && d.StockMatch() && len(d.WarehouseDeltas) == 0 {
		return nil
	}
	return &d
}

// runID recovers the caller's run ID from the context, falling back to a
// fresh one.
func runID(ctx context.Context) uuid.UUID {
	if s := logging.RunID(ctx); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			return id
		}
	}
	return uuid.New()
}
