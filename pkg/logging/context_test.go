package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellsight/stocktally/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("WithItem adds item to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithItem(ctx, "SKU-7/11")

		// Extract logger and verify it has the item field
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithWarehouse adds warehouse to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithWarehouse(ctx, "Chekhov")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithStage adds stage to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithStage(ctx, "aggregate")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithRun adds run id to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithRun(ctx, "0c5b9c33-2f7a-4b52-a9d0-2f46a5cb2a44")

		assert.Equal(t, "0c5b9c33-2f7a-4b52-a9d0-2f46a5cb2a44", logging.RunID(ctx))
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("RunID is empty without WithRun", func(t *testing.T) {
		assert.Empty(t, logging.RunID(context.Background()))
	})

	t.Run("WithFields adds custom fields to context", func(t *testing.T) {
		ctx := context.Background()
		fields := map[string]interface{}{
			"marketplace_id": int64(42),
			"seller_code":    "SKU-1",
		}
		ctx = logging.WithFields(ctx, fields)

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("FromContext returns logger from context", func(t *testing.T) {
		ctx := context.Background()

		// First call should return the default logger
		logger1 := logging.FromContext(ctx)
		assert.NotNil(t, logger1)

		// Add item and get logger again
		ctx = logging.WithItem(ctx, "SKU-2/42")
		logger2 := logging.FromContext(ctx)
		assert.NotNil(t, logger2)
	})

	t.Run("Ctx extracts logger from context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithWarehouse(ctx, "Kazan")

		logger := logging.Ctx(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("chaining context functions", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithItem(ctx, "SKU-3/42")
		ctx = logging.WithWarehouse(ctx, "Marketplace")
		ctx = logging.WithStage(ctx, "validate")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("fields appear in output", func(t *testing.T) {
		testLogger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), testLogger.Logger)
		ctx = logging.WithWarehouse(ctx, "Tver")

		logging.Ctx(ctx).Debug().Msg("unmatched label")

		testLogger.AssertContains(t, `"warehouse":"Tver"`)
		testLogger.AssertContains(t, "unmatched label")
	})
}
