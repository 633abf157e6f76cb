package validate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/logging"
	"github.com/sellsight/stocktally/pkg/rollup"
	"github.com/sellsight/stocktally/pkg/validate"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

func newPipeline() (*rollup.Aggregator, *validate.Validator) {
	dict := warehouses.Default()
	norm := warehouses.NewNormalizer(dict)
	class := warehouses.NewClassifier(dict)
	return rollup.NewAggregator(norm, class),
		validate.NewValidator(validate.NewTallier(norm, class))
}

func stock(code string, mp int64, label string, qty int64) feeds.StockRecord {
	return feeds.StockRecord{
		SellerCode:     code,
		MarketplaceID:  mp,
		WarehouseLabel: label,
		Quantity:       qty,
	}
}

func orderRec(code string, mp int64, label, id string, cancelled bool) feeds.OrderRecord {
	return feeds.OrderRecord{
		SellerCode:     code,
		MarketplaceID:  mp,
		WarehouseLabel: label,
		OrderID:        id,
		Cancelled:      cancelled,
	}
}

func TestTally(t *testing.T) {
	dict := warehouses.Default()
	tallier := validate.NewTallier(warehouses.NewNormalizer(dict), warehouses.NewClassifier(dict))

	stocks := []feeds.StockRecord{
		stock("SKU-1", 42, "Тула", 100),
		stock("SKU-1", 42, "тула", 50),
		stock("SKU-1", 42, "Итого", 10),
		stock("SKU-2", 42, "Чехов", 7),
		stock("", 42, "Тула", 3),
	}
	orders := []feeds.OrderRecord{
		orderRec("SKU-1", 42, "ТУЛА", "ord-1", false),
		orderRec("SKU-1", 42, "ТУЛА", "ord-1", false),
		orderRec("SKU-1", 42, "Чехов", "ord-2", true),
		orderRec("SKU-2", 42, "МАРКЕТПЛЕЙС", "ord-3", false),
	}

	tally := tallier.Tally(stocks, orders)
	require.Len(t, tally, 2)

	first := tally[feeds.ItemKey{SellerCode: "SKU-1", MarketplaceID: 42}]
	require.NotNil(t, first)
	assert.Equal(t, int64(150), first.Stock, "placeholder and keyless rows must not count")
	assert.Equal(t, int64(1), first.Orders, "duplicate and cancelled orders must not count")
	assert.Equal(t, validate.Counts{Orders: 1, Stock: 150}, first.ByWarehouse["Tula"])

	second := tally[feeds.ItemKey{SellerCode: "SKU-2", MarketplaceID: 42}]
	require.NotNil(t, second)
	assert.Equal(t, validate.Counts{Stock: 7}, second.ByWarehouse["Chekhov"])
	assert.Equal(t, validate.Counts{Orders: 1}, second.ByWarehouse["Marketplace"])
}

// A clean pipeline must validate clean: the tally and the rollup share the
// identity rules, so agreement is the invariant, not a coincidence.
func TestValidateCleanPipeline(t *testing.T) {
	agg, val := newPipeline()

	stocks := []feeds.StockRecord{
		stock("SKU-1", 42, "Тула", 100),
		stock("SKU-1", 42, "Тула-1", 50),
		stock("SKU-1", 42, "В пути до получателей", 999),
		stock("SKU-2", 42, "маркетплейс", 5),
		stock("SKU-3", 42, "Новый пункт", 1),
	}
	orders := []feeds.OrderRecord{
		orderRec("SKU-1", 42, "tula", "ord-1", false),
		orderRec("SKU-1", 42, "tula", "ord-1", false),
		orderRec("SKU-1", 42, "Чехов", "ord-2", false),
		orderRec("SKU-2", 42, "Seller warehouse", "ord-3", false),
		orderRec("SKU-2", 42, "Итого по складам", "ord-4", false),
		orderRec("SKU-3", 42, "Новый пункт", "ord-5", true),
	}

	out := agg.Aggregate(context.Background(), stocks, orders)
	report := val.Validate(context.Background(), out.Items, stocks, orders)

	assert.True(t, report.Pass(), "discrepancies: %+v", report.Discrepancies)
	assert.Equal(t, 3, report.ItemsChecked)
	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestValidateTotalsMismatch(t *testing.T) {
	_, val := newPipeline()

	stocks := []feeds.StockRecord{stock("SKU-1", 42, "Тула", 100)}
	orders := []feeds.OrderRecord{orderRec("SKU-1", 42, "Тула", "ord-1", false)}

	// A rollup that lost an order and ten units of stock.
	items := []rollup.ItemAggregate{{
		Key: feeds.ItemKey{SellerCode: "SKU-1", MarketplaceID: 42},
		Warehouses: []rollup.WarehouseBucket{
			{Name: "Tula", Kind: warehouses.KindFBO, Stock: 90, Orders: 0},
		},
		TotalStock:  90,
		TotalOrders: 0,
	}}

	report := val.Validate(context.Background(), items, stocks, orders)
	require.Len(t, report.Discrepancies, 1)

	d := report.Discrepancies[0]
	assert.False(t, d.OrdersMatch())
	assert.False(t, d.StockMatch())
	assert.Equal(t, int64(1), d.ExpectedOrders)
	assert.Equal(t, int64(0), d.ComputedOrders)
	assert.Equal(t, int64(100), d.ExpectedStock)
	assert.Equal(t, int64(90), d.ComputedStock)
	require.Len(t, d.WarehouseDeltas, 1)
	assert.Equal(t, "Tula", d.WarehouseDeltas[0].Name)
}

// Stock shifted between two warehouses leaves the item totals equal; only
// the per-warehouse deltas catch it.
func TestValidateShiftedStock(t *testing.T) {
	_, val := newPipeline()

	stocks := []feeds.StockRecord{
		stock("SKU-1", 42, "Тула", 100),
		stock("SKU-1", 42, "Чехов", 50),
	}

	items := []rollup.ItemAggregate{{
		Key: feeds.ItemKey{SellerCode: "SKU-1", MarketplaceID: 42},
		Warehouses: []rollup.WarehouseBucket{
			{Name: "Chekhov", Kind: warehouses.KindFBO, Stock: 94},
			{Name: "Tula", Kind: warehouses.KindFBO, Stock: 56},
		},
		TotalStock: 150,
	}}

	report := val.Validate(context.Background(), items, stocks, nil)
	require.Len(t, report.Discrepancies, 1)

	d := report.Discrepancies[0]
	assert.True(t, d.OrdersMatch(), "totals agree by construction")
	assert.True(t, d.StockMatch(), "totals agree by construction")

	require.Len(t, d.WarehouseDeltas, 2)
	assert.Equal(t, "Chekhov", d.WarehouseDeltas[0].Name)
	assert.Equal(t, int64(50), d.WarehouseDeltas[0].ExpectedStock)
	assert.Equal(t, int64(94), d.WarehouseDeltas[0].ComputedStock)
	assert.Equal(t, "Tula", d.WarehouseDeltas[1].Name)
	assert.Equal(t, int64(100), d.WarehouseDeltas[1].ExpectedStock)
	assert.Equal(t, int64(56), d.WarehouseDeltas[1].ComputedStock)
}

func TestValidateOneSidedItems(t *testing.T) {
	_, val := newPipeline()

	t.Run("item only in rollup", func(t *testing.T) {
		items := []rollup.ItemAggregate{{
			Key: feeds.ItemKey{SellerCode: "SKU-9", MarketplaceID: 42},
			Warehouses: []rollup.WarehouseBucket{
				{Name: "Tula", Kind: warehouses.KindFBO, Stock: 5},
			},
			TotalStock: 5,
		}}

		report := val.Validate(context.Background(), items, nil, nil)
		require.Len(t, report.Discrepancies, 1)
		assert.Equal(t, int64(0), report.Discrepancies[0].ExpectedStock)
		assert.Equal(t, int64(5), report.Discrepancies[0].ComputedStock)
		assert.Equal(t, 1, report.ItemsChecked)
	})

	t.Run("item only in tally", func(t *testing.T) {
		stocks := []feeds.StockRecord{stock("SKU-9", 42, "Тула", 5)}

		report := val.Validate(context.Background(), nil, stocks, nil)
		require.Len(t, report.Discrepancies, 1)

		d := report.Discrepancies[0]
		assert.Equal(t, int64(5), d.ExpectedStock)
		assert.Equal(t, int64(0), d.ComputedStock)
		require.Len(t, d.WarehouseDeltas, 1)
		assert.Equal(t, "Tula", d.WarehouseDeltas[0].Name)
		assert.Equal(t, 1, report.ItemsChecked)
	})

	t.Run("discrepancies sorted by key", func(t *testing.T) {
		stocks := []feeds.StockRecord{
			stock("SKU-2", 42, "Тула", 5),
			stock("SKU-1", 42, "Тула", 5),
		}

		report := val.Validate(context.Background(), nil, stocks, nil)
		require.Len(t, report.Discrepancies, 2)
		assert.Equal(t, "SKU-1", report.Discrepancies[0].Key.SellerCode)
		assert.Equal(t, "SKU-2", report.Discrepancies[1].Key.SellerCode)
	})
}

func TestValidateItem(t *testing.T) {
	_, val := newPipeline()

	agg := rollup.ItemAggregate{
		Key: feeds.ItemKey{SellerCode: "SKU-1", MarketplaceID: 42},
		Warehouses: []rollup.WarehouseBucket{
			{Name: "Tula", Kind: warehouses.KindFBO, Stock: 10, Orders: 2},
		},
		TotalStock:  10,
		TotalOrders: 2,
	}

	t.Run("clean item returns nil", func(t *testing.T) {
		exp := &validate.Expected{
			Orders: 2,
			Stock:  10,
			ByWarehouse: map[string]validate.Counts{
				"Tula": {Orders: 2, Stock: 10},
			},
		}
		assert.Nil(t, val.ValidateItem(agg, exp))
	})

	t.Run("nil expected means tally never saw it", func(t *testing.T) {
		d := val.ValidateItem(agg, nil)
		require.NotNil(t, d)
		assert.Equal(t, int64(0), d.ExpectedOrders)
		assert.Equal(t, int64(2), d.ComputedOrders)
	})
}

func TestValidateRunID(t *testing.T) {
	_, val := newPipeline()

	t.Run("taken from context", func(t *testing.T) {
		id := uuid.New()
		ctx := logging.WithRun(context.Background(), id.String())

		report := val.Validate(ctx, nil, nil, nil)
		assert.Equal(t, id, report.RunID)
	})

	t.Run("generated when absent", func(t *testing.T) {
		report := val.Validate(context.Background(), nil, nil, nil)
		assert.NotEqual(t, uuid.Nil, report.RunID)
	})
}
