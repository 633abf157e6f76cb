// Package rollup aggregates normalized, classified, deduplicated feed
// records into per-item warehouse buckets.
//
// Each catalog item gets one ItemAggregate holding a bucket per canonical
// warehouse with summed stock and counted orders. A warehouse that appears
// only in the order feed still gets a bucket with zero stock; buckets are
// never dropped for being empty on one side. Items and buckets are sorted,
// so aggregating the same feeds twice produces identical serialized output.
package rollup

import (
	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// WarehouseBucket is the per-warehouse rollup for one catalog item.
type WarehouseBucket struct {
	Name   string          `json:"name" yaml:"name"`
	Kind   warehouses.Kind `json:"kind" yaml:"kind"`
	Stock  int64           `json:"stock" yaml:"stock"`
	Orders int64           `json:"orders" yaml:"orders"`
}

// ItemAggregate is the complete rollup for one catalog item.
type ItemAggregate struct {
	Key         feeds.ItemKey     `json:"itemKey" yaml:"itemKey"`
	Warehouses  []WarehouseBucket `json:"warehouses" yaml:"warehouses"` // sorted by name
	TotalStock  int64             `json:"totalStock" yaml:"totalStock"`
	TotalOrders int64             `json:"totalOrders" yaml:"totalOrders"`
}

// Bucket returns the named warehouse bucket of the aggregate.
func (a *ItemAggregate) Bucket(name string) (*WarehouseBucket, bool) {
	for i := range a.Warehouses {
		if a.Warehouses[i].Name == name {
			return &a.Warehouses[i], true
		}
	}
	return nil, false
}

// DropStats counts records removed from the rollup, by cause. Dropping is
// bookkeeping, never an error: feeds are expected to carry placeholder rows
// and repeated orders.
type DropStats struct {
	StockMissingKey int `json:"stockMissingKey" yaml:"stockMissingKey"`
	StockRejected   int `json:"stockRejected" yaml:"stockRejected"`
	OrderMissingKey int `json:"orderMissingKey" yaml:"orderMissingKey"`
	OrderRejected   int `json:"orderRejected" yaml:"orderRejected"`
	OrderMissingID  int `json:"orderMissingId" yaml:"orderMissingId"`
	OrderDuplicates int `json:"orderDuplicates" yaml:"orderDuplicates"`
	OrderCancelled  int `json:"orderCancelled" yaml:"orderCancelled"`
}

// Total returns the number of dropped records across all causes.
func (s DropStats) Total() int {
	return s.StockMissingKey + s.StockRejected +
		s.OrderMissingKey + s.OrderRejected +
		s.OrderMissingID + s.OrderDuplicates + s.OrderCancelled
}

// Add accumulates another set of drop counts into this one.
func (s *DropStats) Add(other DropStats) {
	s.StockMissingKey += other.StockMissingKey
	s.StockRejected += other.StockRejected
	s.OrderMissingKey += other.OrderMissingKey
	s.OrderRejected += other.OrderRejected
	s.OrderMissingID += other.OrderMissingID
	s.OrderDuplicates += other.OrderDuplicates
	s.OrderCancelled += other.OrderCancelled
}
