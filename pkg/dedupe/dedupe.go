// Package dedupe collapses an order feed down to one effective record per
// order ID.
//
// Marketplace order exports repeat rows across report pages and status
// transitions, and a repeated order counted twice overstates demand. Only
// the first record seen for an ID survives; whether the order counts at all
// is then decided by the surviving record's cancelled flag. Basket numbers
// are display values shared across unrelated orders and never participate
// in identity.
package dedupe

import (
	"strings"

	"github.com/sellsight/stocktally/pkg/feeds"
)

// Result is the outcome of deduplicating one order stream.
type Result struct {
	// Orders are the surviving records: ID present, first record per ID,
	// not cancelled. Input order is preserved.
	Orders []feeds.OrderRecord

	// MissingID counts records dropped for carrying no order ID.
	MissingID int

	// Duplicates counts records dropped because their ID was already seen.
	Duplicates int

	// Cancelled counts orders dropped because the surviving record for
	// their ID was flagged cancelled.
	Cancelled int
}

// Dropped returns the total number of records removed from the stream.
func (r Result) Dropped() int {
	return r.MissingID + r.Duplicates + r.Cancelled
}

// Orders deduplicates an order stream by order ID.
//
// The first record seen for an ID wins regardless of its flags; later
// records with the same ID are dropped as duplicates even when they
// disagree about cancellation. A surviving record flagged cancelled is then
// dropped as well, so an order whose first record is cancelled never
// counts, and a cancelled duplicate cannot kill an order whose first
// record is live.
func Orders(orders []feeds.OrderRecord) Result {
	var res Result
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		id := strings.TrimSpace(o.OrderID)
		if id == "" {
			res.MissingID++
			continue
		}
		if _, dup := seen[id]; dup {
			res.Duplicates++
			continue
		}
		seen[id] = struct{}{}
		if o.Cancelled {
			res.Cancelled++
			continue
		}
		res.Orders = append(res.Orders, o)
	}
	return res
}
