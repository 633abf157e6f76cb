package rollup

import (
	"context"
	"sort"
	"strings"

	"github.com/sellsight/stocktally/pkg/dedupe"
	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/logging"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// Aggregator rolls feed records up into item aggregates using an injected
// normalizer and classifier. It holds no per-run state and is safe for
// concurrent use; callers may aggregate many partitions in parallel.
type Aggregator struct {
	norm  *warehouses.Normalizer
	class *warehouses.Classifier
}

// NewAggregator returns an aggregator using the given identity layer.
func NewAggregator(norm *warehouses.Normalizer, class *warehouses.Classifier) *Aggregator {
	return &Aggregator{norm: norm, class: class}
}

// Partition groups one item's records from both feeds.
type Partition struct {
	Key    feeds.ItemKey
	Stocks []feeds.StockRecord
	Orders []feeds.OrderRecord
}

// SplitByItem groups records from both feeds by item key. Records with an
// incomplete key cannot be attributed to any item and are dropped and
// counted. Partitions come back sorted by key.
func SplitByItem(stocks []feeds.StockRecord, orders []feeds.OrderRecord) ([]Partition, DropStats) {
	var drops DropStats
	byKey := make(map[feeds.ItemKey]*Partition)

	partition := func(key feeds.ItemKey) *Partition {
		p, ok := byKey[key]
		if !ok {
			p = &Partition{Key: key}
			byKey[key] = p
		}
		return p
	}

	for _, rec := range stocks {
		key := rec.Key()
		if !key.Valid() {
			drops.StockMissingKey++
			continue
		}
		p := partition(key)
		p.Stocks = append(p.Stocks, rec)
	}
	for _, rec := range orders {
		key := rec.Key()
		if !key.Valid() {
			drops.OrderMissingKey++
			continue
		}
		p := partition(key)
		p.Orders = append(p.Orders, rec)
	}

	parts := make([]Partition, 0, len(byKey))
	for _, p := range byKey {
		parts = append(parts, *p)
	}
	sort.Slice(parts, func(i, j int) bool {
		return lessKeys(parts[i].Key, parts[j].Key)
	})
	return parts, drops
}

// Aggregate runs the full rollup over both feeds: partition by item key,
// roll up each partition, merge. The engine facade runs the same per-item
// pipeline across a worker pool; both paths produce identical results
// because Merge orders items deterministically.
func (a *Aggregator) Aggregate(ctx context.Context, stocks []feeds.StockRecord, orders []feeds.OrderRecord) *Outcome {
	parts, drops := SplitByItem(stocks, orders)
	outcomes := make([]*Outcome, 0, len(parts))
	for _, p := range parts {
		outcomes = append(outcomes, a.AggregateItem(ctx, p))
	}
	merged := Merge(outcomes)
	merged.Drops.Add(drops)
	return merged
}

// AggregateItem rolls up a single item partition.
//
// Stock quantities are summed and deduplicated orders counted into one
// bucket per canonical warehouse. A bucket's kind upgrades to FBS as soon
// as any contributing record classifies as seller-fulfilled and never
// downgrades. Records whose label does not classify as a real warehouse
// are dropped and counted, never errored on.
func (a *Aggregator) AggregateItem(ctx context.Context, part Partition) *Outcome {
	out := NewOutcome()
	buckets := make(map[string]*WarehouseBucket)

	upsert := func(name string, kind warehouses.Kind) *WarehouseBucket {
		b, ok := buckets[name]
		if !ok {
			b = &WarehouseBucket{Name: name, Kind: kind}
			buckets[name] = b
			return b
		}
		if kind == warehouses.KindFBS {
			b.Kind = warehouses.KindFBS
		}
		return b
	}

	for _, rec := range part.Stocks {
		name := a.norm.Normalize(rec.WarehouseLabel)
		verdict := a.class.Classify(name, "")
		if !verdict.Real {
			out.Drops.StockRejected++
			logging.Ctx(ctx).Debug().
				Str("item", part.Key.String()).
				Str("label", rec.WarehouseLabel).
				Str("reason", verdict.Reason.String()).
				Msg("stock record rejected")
			continue
		}
		upsert(name, verdict.Kind).Stock += rec.Quantity
		out.Provenance.Record(name, strings.TrimSpace(rec.WarehouseLabel))
	}

	deduped := dedupe.Orders(part.Orders)
	out.Drops.OrderMissingID = deduped.MissingID
	out.Drops.OrderDuplicates = deduped.Duplicates
	out.Drops.OrderCancelled = deduped.Cancelled
	if deduped.Duplicates > 0 {
		logging.Ctx(ctx).Debug().
			Str("item", part.Key.String()).
			Int("duplicates", deduped.Duplicates).
			Msg("duplicate order records dropped")
	}

	for _, rec := range deduped.Orders {
		name := a.norm.Normalize(rec.WarehouseLabel)
		verdict := a.class.Classify(name, rec.KindHint)
		if !verdict.Real {
			out.Drops.OrderRejected++
			logging.Ctx(ctx).Debug().
				Str("item", part.Key.String()).
				Str("label", rec.WarehouseLabel).
				Str("reason", verdict.Reason.String()).
				Msg("order record rejected")
			continue
		}
		upsert(name, verdict.Kind).Orders++
		out.Provenance.Record(name, strings.TrimSpace(rec.WarehouseLabel))
	}

	// No retained records means the item never materializes; the drops
	// above are its only trace.
	if len(buckets) == 0 {
		return out
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	agg := ItemAggregate{
		Key:        part.Key,
		Warehouses: make([]WarehouseBucket, 0, len(names)),
	}
	for _, name := range names {
		b := *buckets[name]
		agg.Warehouses = append(agg.Warehouses, b)
		agg.TotalStock += b.Stock
		agg.TotalOrders += b.Orders
	}
	out.Items = []ItemAggregate{agg}
	return out
}
