// Package feeds defines the two inbound record streams the reconciliation
// engine consumes: per-warehouse stock snapshots and per-order shipment
// records. Records are plain data carriers; the engine applies all field
// validation and drop accounting itself.
package feeds

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"
)

// ItemKey identifies a catalog item. Both parts are required and the
// seller code is compared case-sensitively; ItemKey equality is the only
// valid grouping key across both feeds.
type ItemKey struct {
	SellerCode    string `json:"sellerCode" yaml:"sellerCode"`
	MarketplaceID int64  `json:"marketplaceId" yaml:"marketplaceId"`
}

// Valid reports whether both parts of the key are present.
func (k ItemKey) Valid() bool {
	return strings.TrimSpace(k.SellerCode) != "" && k.MarketplaceID != 0
}

// String renders the key as "sellerCode/marketplaceId" for logs and errors.
func (k ItemKey) String() string {
	return fmt.Sprintf("%s/%d", k.SellerCode, k.MarketplaceID)
}

// StockRecord is one (item, warehouse) stock observation from the stock feed.
type StockRecord struct {
	SellerCode     string `json:"itemSellerCode" yaml:"itemSellerCode"`
	MarketplaceID  int64  `json:"itemMarketplaceId" yaml:"itemMarketplaceId"`
	WarehouseLabel string `json:"warehouseLabel" yaml:"warehouseLabel"`
	Quantity       int64  `json:"quantity" yaml:"quantity"`
}

// Key returns the catalog item key for this record.
func (r StockRecord) Key() ItemKey {
	return ItemKey{SellerCode: r.SellerCode, MarketplaceID: r.MarketplaceID}
}

// OrderRecord is one shipment line from the order feed.
//
// BasketNumber is a human-facing grouping number and is not guaranteed
// unique; it is carried through for display but must never be used as a
// deduplication key. OrderID is the feed's globally unique identifier.
type OrderRecord struct {
	SellerCode     string   `json:"itemSellerCode" yaml:"itemSellerCode"`
	MarketplaceID  int64    `json:"itemMarketplaceId" yaml:"itemMarketplaceId"`
	WarehouseLabel string   `json:"warehouseLabel" yaml:"warehouseLabel"`
	KindHint       string   `json:"warehouseKindHint,omitempty" yaml:"warehouseKindHint,omitempty"`
	OrderID        string   `json:"orderId" yaml:"orderId"`
	BasketNumber   string   `json:"basketNumber,omitempty" yaml:"basketNumber,omitempty"`
	Cancelled      bool     `json:"cancelled" yaml:"cancelled"`
	Timestamp      utc.Time `json:"timestamp" yaml:"timestamp"`
}

// Key returns the catalog item key for this record.
func (r OrderRecord) Key() ItemKey {
	return ItemKey{SellerCode: r.SellerCode, MarketplaceID: r.MarketplaceID}
}
