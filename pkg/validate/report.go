package validate

import (
	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/sellsight/stocktally/pkg/feeds"
)

// WarehouseDelta is a per-warehouse mismatch between the independent tally
// and the aggregated rollup.
type WarehouseDelta struct {
	Name           string `json:"name" yaml:"name"`
	ExpectedOrders int64  `json:"expectedOrders" yaml:"expectedOrders"`
	ComputedOrders int64  `json:"computedOrders" yaml:"computedOrders"`
	ExpectedStock  int64  `json:"expectedStock" yaml:"expectedStock"`
	ComputedStock  int64  `json:"computedStock" yaml:"computedStock"`
}

// Discrepancy reports one item whose rollup disagrees with the tally,
// either on the item totals or inside individual warehouses. A shift of
// stock between two warehouses leaves the totals equal, so the per-
// warehouse deltas are a separate signal from the total comparison.
type Discrepancy struct {
	Key             feeds.ItemKey    `json:"itemKey" yaml:"itemKey"`
	ExpectedOrders  int64            `json:"expectedOrders" yaml:"expectedOrders"`
	ComputedOrders  int64            `json:"computedOrders" yaml:"computedOrders"`
	ExpectedStock   int64            `json:"expectedStock" yaml:"expectedStock"`
	ComputedStock   int64            `json:"computedStock" yaml:"computedStock"`
	WarehouseDeltas []WarehouseDelta `json:"warehouseDeltas,omitempty" yaml:"warehouseDeltas,omitempty"`
}

// OrdersMatch reports whether the item-level order totals agree.
func (d Discrepancy) OrdersMatch() bool {
	return d.ExpectedOrders == d.ComputedOrders
}

// StockMatch reports whether the item-level stock totals agree.
func (d Discrepancy) StockMatch() bool {
	return d.ExpectedStock == d.ComputedStock
}

// Report is the outcome of one consistency check.
type Report struct {
	RunID         uuid.UUID     `json:"runId" yaml:"runId"`
	GeneratedAt   utc.Time      `json:"generatedAt" yaml:"generatedAt"`
	ItemsChecked  int           `json:"itemsChecked" yaml:"itemsChecked"`
	Discrepancies []Discrepancy `json:"discrepancies,omitempty" yaml:"discrepancies,omitempty"`
}

// Pass reports whether the check found no discrepancies.
func (r *Report) Pass() bool {
	return len(r.Discrepancies) == 0
}
