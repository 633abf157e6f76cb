package output

import (
	"io"

	"github.com/sellsight/stocktally/pkg/rollup"
	"github.com/sellsight/stocktally/pkg/validate"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// FormatItems handles the common pattern of formatting item aggregates for
// output. Table formats go through the domain table conversion; structured
// formats serialize the aggregates directly.
func FormatItems(w io.Writer, format Format, items []rollup.ItemAggregate) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, "":
		data = ItemsToTableData(items, false)
	case FormatWide:
		data = ItemsToTableData(items, true)
	default:
		data = items
	}

	return formatter.Format(w, data)
}

// FormatReport formats a consistency report for output.
func FormatReport(w io.Writer, format Format, report *validate.Report) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, FormatWide, "":
		data = ReportToTableData(report)
	default:
		data = report
	}

	return formatter.Format(w, data)
}

// FormatDictionary formats dictionary entries for output.
func FormatDictionary(w io.Writer, format Format, d *warehouses.Dictionary) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, FormatWide, "":
		data = DictionaryToTableData(d)
	default:
		data = d
	}

	return formatter.Format(w, data)
}

// FormatResolutions formats label resolutions for output.
func FormatResolutions(w io.Writer, format Format, resolutions []Resolution) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, FormatWide, "":
		data = ResolutionsToTableData(resolutions)
	default:
		data = resolutions
	}

	return formatter.Format(w, data)
}

// FormatAny formats any data type for output. Useful for commands with
// custom data structures; table format falls back to reflection.
func FormatAny(w io.Writer, format Format, data any) error {
	return NewFormatter(format).Format(w, data)
}
