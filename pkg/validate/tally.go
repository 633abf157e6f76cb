package validate

import (
	"github.com/sellsight/stocktally/pkg/dedupe"
	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// Counts pairs the two quantities checked per warehouse.
type Counts struct {
	Orders int64 `json:"orders" yaml:"orders"`
	Stock  int64 `json:"stock" yaml:"stock"`
}

// Expected holds the independently computed totals for one item.
type Expected struct {
	Orders      int64             `json:"orders" yaml:"orders"`
	Stock       int64             `json:"stock" yaml:"stock"`
	ByWarehouse map[string]Counts `json:"byWarehouse" yaml:"byWarehouse"`
}

// Tally maps each item key to its independently computed totals.
type Tally map[feeds.ItemKey]*Expected

// Tallier computes expected totals straight from the feeds with flat
// per-item maps. It shares the identity layer (normalizer, classifier,
// deduplicator) with the aggregator but none of its partition, bucket, or
// merge machinery — that machinery is exactly what the tally exists to
// cross-check.
type Tallier struct {
	norm  *warehouses.Normalizer
	class *warehouses.Classifier
}

// NewTallier returns a tallier using the given identity layer.
func NewTallier(norm *warehouses.Normalizer, class *warehouses.Classifier) *Tallier {
	return &Tallier{norm: norm, class: class}
}

// Tally computes per-item expected totals from both feeds. Records that the
// rollup would drop (incomplete key, rejected label, duplicate or cancelled
// order) are skipped here under the same rules, so a clean pipeline tallies
// to exactly the aggregated numbers.
func (t *Tallier) Tally(stocks []feeds.StockRecord, orders []feeds.OrderRecord) Tally {
	tally := make(Tally)

	expected := func(key feeds.ItemKey) *Expected {
		e, ok := tally[key]
		if !ok {
			e = &Expected{ByWarehouse: make(map[string]Counts)}
			tally[key] = e
		}
		return e
	}

	for _, rec := range stocks {
		key := rec.Key()
		if !key.Valid() {
			continue
		}
		name := t.norm.Normalize(rec.WarehouseLabel)
		if !t.class.Classify(name, "").Real {
			continue
		}
		e := expected(key)
		e.Stock += rec.Quantity
		c := e.ByWarehouse[name]
		c.Stock += rec.Quantity
		e.ByWarehouse[name] = c
	}

	byItem := make(map[feeds.ItemKey][]feeds.OrderRecord)
	for _, rec := range orders {
		key := rec.Key()
		if !key.Valid() {
			continue
		}
		byItem[key] = append(byItem[key], rec)
	}
	for key, recs := range byItem {
		for _, rec := range dedupe.Orders(recs).Orders {
			name := t.norm.Normalize(rec.WarehouseLabel)
			if !t.class.Classify(name, rec.KindHint).Real {
				continue
			}
			e := expected(key)
			e.Orders++
			c := e.ByWarehouse[name]
			c.Orders++
			e.ByWarehouse[name] = c
		}
	}

	return tally
}
