package rollup

import (
	"sort"

	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// Outcome carries everything one aggregation pass produced: the item
// aggregates, drop accounting, and the raw-label provenance behind each
// canonical warehouse name.
type Outcome struct {
	Items      []ItemAggregate       `json:"items" yaml:"items"`
	Drops      DropStats             `json:"drops" yaml:"drops"`
	Provenance warehouses.Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// NewOutcome returns an empty outcome ready to be filled.
func NewOutcome() *Outcome {
	return &Outcome{Provenance: warehouses.NewProvenance()}
}

// Item returns the aggregate for the given item key.
func (o *Outcome) Item(key feeds.ItemKey) (*ItemAggregate, bool) {
	for i := range o.Items {
		if o.Items[i].Key == key {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// Merge combines per-partition outcomes into a single one. Items are sorted
// by item key afterwards, so the merged result does not depend on the order
// outcomes arrived in — worker scheduling never changes the output.
func Merge(outcomes []*Outcome) *Outcome {
	merged := NewOutcome()
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		merged.Items = append(merged.Items, o.Items...)
		merged.Drops.Add(o.Drops)
		merged.Provenance.Merge(o.Provenance)
	}
	sortItems(merged.Items)
	return merged
}

func sortItems(items []ItemAggregate) {
	sort.Slice(items, func(i, j int) bool {
		return lessKeys(items[i].Key, items[j].Key)
	})
}

func lessKeys(a, b feeds.ItemKey) bool {
	if a.SellerCode != b.SellerCode {
		return a.SellerCode < b.SellerCode
	}
	return a.MarketplaceID < b.MarketplaceID
}
