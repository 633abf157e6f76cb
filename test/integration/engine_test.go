package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sellsight/stocktally"
	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

func loadFeeds(t *testing.T) ([]feeds.StockRecord, []feeds.OrderRecord) {
	t.Helper()

	stocks, err := feeds.ReadStockFile("testdata/stocks.json")
	if err != nil {
		t.Fatalf("Failed to read stock feed: %v", err)
	}
	orders, err := feeds.ReadOrderFile("testdata/orders.yaml")
	if err != nil {
		t.Fatalf("Failed to read order feed: %v", err)
	}
	return stocks, orders
}

func TestReconcileFromFiles(t *testing.T) {
	stocks, orders := loadFeeds(t)

	engine, err := stocktally.New()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	result, err := engine.Reconcile(context.Background(), stocks, orders)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result.Items))
	}

	first := result.Items[0]
	if first.Key.SellerCode != "SKU-100" {
		t.Errorf("Expected SKU-100 first, got %s", first.Key.SellerCode)
	}
	// The feed's own summary row carries the grand total; counting it
	// would double the stock.
	if first.TotalStock != 154 {
		t.Errorf("Expected total stock 154, got %d", first.TotalStock)
	}
	if first.TotalOrders != 2 {
		t.Errorf("Expected 2 orders after dedup, got %d", first.TotalOrders)
	}
	if len(first.Warehouses) != 3 {
		t.Fatalf("Expected 3 warehouses, got %d", len(first.Warehouses))
	}

	tula, ok := first.Bucket("Tula")
	if !ok {
		t.Fatal("Expected a Tula bucket")
	}
	if tula.Stock != 150 || tula.Orders != 1 {
		t.Errorf("Expected Tula 150/1, got %d/%d", tula.Stock, tula.Orders)
	}
	if tula.Kind != warehouses.KindFBO {
		t.Errorf("Expected Tula to be FBO, got %s", tula.Kind)
	}

	hinted, ok := first.Bucket("Точка продавца")
	if !ok {
		t.Fatal("Expected a bucket for the hinted seller warehouse")
	}
	if hinted.Kind != warehouses.KindFBS {
		t.Errorf("Expected hinted bucket to be FBS, got %s", hinted.Kind)
	}

	second := result.Items[1]
	if second.Key.SellerCode != "SKU-200" {
		t.Errorf("Expected SKU-200 second, got %s", second.Key.SellerCode)
	}
	if second.TotalStock != 9 || second.TotalOrders != 0 {
		t.Errorf("Expected SKU-200 9/0, got %d/%d", second.TotalStock, second.TotalOrders)
	}

	if result.Drops.StockRejected != 1 {
		t.Errorf("Expected 1 rejected stock row, got %d", result.Drops.StockRejected)
	}
	if result.Drops.OrderDuplicates != 1 {
		t.Errorf("Expected 1 duplicate order, got %d", result.Drops.OrderDuplicates)
	}
	if result.Drops.OrderCancelled != 1 {
		t.Errorf("Expected 1 cancelled order, got %d", result.Drops.OrderCancelled)
	}
	if result.Drops.Total() != 3 {
		t.Errorf("Expected 3 dropped records, got %d", result.Drops.Total())
	}

	if result.Report == nil {
		t.Fatal("Expected a consistency report")
	}
	if !result.Report.Pass() {
		t.Errorf("Expected a passing report, got %d discrepancies", len(result.Report.Discrepancies))
	}
	if result.Report.ItemsChecked != 2 {
		t.Errorf("Expected 2 items checked, got %d", result.Report.ItemsChecked)
	}
}

func TestReconcileWithDictionaryFile(t *testing.T) {
	dict, err := warehouses.LoadFile("testdata/dictionary.yaml")
	if err != nil {
		t.Fatalf("Failed to load dictionary: %v", err)
	}

	engine, err := stocktally.New(
		stocktally.WithDictionary(dict),
		stocktally.WithWorkers(2),
	)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	stocks := []feeds.StockRecord{
		{SellerCode: "P-1", MarketplaceID: 9, WarehouseLabel: "север", Quantity: 11},
		{SellerCode: "P-1", MarketplaceID: 9, WarehouseLabel: "grand total", Quantity: 11},
	}
	orders := []feeds.OrderRecord{
		{SellerCode: "P-1", MarketplaceID: 9, WarehouseLabel: "north-1", OrderID: "o-1"},
	}

	result, err := engine.Reconcile(context.Background(), stocks, orders)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(result.Items))
	}

	depot, ok := result.Items[0].Bucket("Depot North")
	if !ok {
		t.Fatal("Expected both labels to collapse onto Depot North")
	}
	if depot.Stock != 11 || depot.Orders != 1 {
		t.Errorf("Expected Depot North 11/1, got %d/%d", depot.Stock, depot.Orders)
	}

	if result.Drops.StockRejected != 1 {
		t.Errorf("Expected the grand total row to be rejected, got %d rejections", result.Drops.StockRejected)
	}
}

func TestReconcileDeterministicOutput(t *testing.T) {
	stocks, orders := loadFeeds(t)

	var previous []byte
	for _, workers := range []int{1, 2, 8} {
		engine, err := stocktally.New(stocktally.WithWorkers(workers))
		if err != nil {
			t.Fatalf("Failed to create engine with %d workers: %v", workers, err)
		}

		result, err := engine.Reconcile(context.Background(), stocks, orders)
		if err != nil {
			t.Fatalf("Reconcile with %d workers failed: %v", workers, err)
		}

		data, err := json.Marshal(result.Items)
		if err != nil {
			t.Fatalf("Failed to marshal items: %v", err)
		}

		if previous != nil && !bytes.Equal(previous, data) {
			t.Errorf("Items JSON differs between worker counts:\n%s\n%s", previous, data)
		}
		previous = data
	}
}
