package output

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter/tw"

	"github.com/sellsight/stocktally/pkg/rollup"
	"github.com/sellsight/stocktally/pkg/validate"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// maxLabelListWidth caps the joined variant list in dictionary tables.
const maxLabelListWidth = 60

// ItemsToTableData converts item aggregates to table format. Wide mode
// expands each item into one row per warehouse bucket.
func ItemsToTableData(items []rollup.ItemAggregate, wide bool) Data {
	if wide {
		return itemBucketsToTableData(items)
	}

	headers := []string{"SELLER CODE", "MARKETPLACE", "WAREHOUSES", "STOCK", "ORDERS"}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Key.SellerCode,
			strconv.FormatInt(item.Key.MarketplaceID, 10),
			strconv.Itoa(len(item.Warehouses)),
			strconv.FormatInt(item.TotalStock, 10),
			strconv.FormatInt(item.TotalOrders, 10),
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []tw.Align{
			tw.Skip,        // SELLER CODE
			tw.Skip,        // MARKETPLACE
			tw.AlignCenter, // WAREHOUSES
			tw.AlignRight,  // STOCK
			tw.AlignRight,  // ORDERS
		},
	}
}

// itemBucketsToTableData renders one row per warehouse bucket, repeating
// the item key so rows stay greppable.
func itemBucketsToTableData(items []rollup.ItemAggregate) Data {
	headers := []string{"SELLER CODE", "MARKETPLACE", "WAREHOUSE", "KIND", "STOCK", "ORDERS"}

	var rows [][]string
	for _, item := range items {
		for _, b := range item.Warehouses {
			rows = append(rows, []string{
				item.Key.SellerCode,
				strconv.FormatInt(item.Key.MarketplaceID, 10),
				b.Name,
				string(b.Kind),
				strconv.FormatInt(b.Stock, 10),
				strconv.FormatInt(b.Orders, 10),
			})
		}
	}

	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []tw.Align{
			tw.Skip,       // SELLER CODE
			tw.Skip,       // MARKETPLACE
			tw.Skip,       // WAREHOUSE
			tw.Skip,       // KIND
			tw.AlignRight, // STOCK
			tw.AlignRight, // ORDERS
		},
	}
}

// ReportToTableData converts a consistency report to table format, one row
// per discrepant item. Per-warehouse deltas show as a count here; the full
// breakdown is available in json or yaml output.
func ReportToTableData(report *validate.Report) Data {
	headers := []string{"ITEM", "ORDERS (EXPECTED)", "ORDERS (COMPUTED)", "STOCK (EXPECTED)", "STOCK (COMPUTED)", "DELTAS"}

	rows := make([][]string, 0, len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		rows = append(rows, []string{
			d.Key.String(),
			strconv.FormatInt(d.ExpectedOrders, 10),
			strconv.FormatInt(d.ComputedOrders, 10),
			strconv.FormatInt(d.ExpectedStock, 10),
			strconv.FormatInt(d.ComputedStock, 10),
			strconv.Itoa(len(d.WarehouseDeltas)),
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []tw.Align{
			tw.Skip,        // ITEM
			tw.AlignRight,  // ORDERS (EXPECTED)
			tw.AlignRight,  // ORDERS (COMPUTED)
			tw.AlignRight,  // STOCK (EXPECTED)
			tw.AlignRight,  // STOCK (COMPUTED)
			tw.AlignCenter, // DELTAS
		},
	}
}

// DictionaryToTableData converts dictionary entries to table format.
func DictionaryToTableData(d *warehouses.Dictionary) Data {
	headers := []string{"NAME", "VARIANTS", "LABELS"}

	rows := make([][]string, 0, len(d.Entries))
	for _, entry := range d.Entries {
		labels := strings.Join(entry.Variants, ", ")
		if labels == "" {
			labels = "-"
		}

		rows = append(rows, []string{
			entry.Name,
			strconv.Itoa(len(entry.Variants)),
			truncate(labels, maxLabelListWidth),
		})
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []tw.Align{tw.Skip, tw.AlignCenter, tw.Skip},
	}
}

// Resolution is the outcome of normalizing and classifying one raw
// warehouse label.
type Resolution struct {
	Label     string                  `json:"label" yaml:"label"`
	Canonical string                  `json:"canonical" yaml:"canonical"`
	Kind      warehouses.Kind         `json:"kind" yaml:"kind"`
	Real      bool                    `json:"real" yaml:"real"`
	Reason    warehouses.RejectReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ResolutionsToTableData converts label resolutions to table format.
func ResolutionsToTableData(resolutions []Resolution) Data {
	headers := []string{"LABEL", "CANONICAL", "KIND", "REAL", "REASON"}

	rows := make([][]string, 0, len(resolutions))
	for _, r := range resolutions {
		reason := string(r.Reason)
		if reason == "" {
			reason = "-"
		}

		rows = append(rows, []string{
			r.Label,
			r.Canonical,
			string(r.Kind),
			strconv.FormatBool(r.Real),
			reason,
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
	}
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
