package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sellsight/stocktally/internal/cmd/output"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// warehousesCmd groups dictionary inspection commands.
var warehousesCmd = &cobra.Command{
	Use:   "warehouses",
	Short: "Inspect the active warehouse dictionary",
	Long: `Warehouses inspects the dictionary used to collapse free-form
warehouse labels onto canonical warehouses.

Use "list" to see the canonical entries and "resolve" to check how labels
from a feed would be normalized and classified.`,
}

// warehousesListCmd lists canonical dictionary entries.
var warehousesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List canonical warehouses and their known label variants",
	RunE: func(_ *cobra.Command, _ []string) error {
		dict, err := loadDictionary()
		if err != nil {
			return err
		}

		return output.FormatDictionary(os.Stdout, activeFormat, dict)
	},
}

// warehousesResolveCmd normalizes and classifies ad-hoc labels.
var warehousesResolveCmd = &cobra.Command{
	Use:   "resolve LABEL...",
	Short: "Show how raw warehouse labels normalize and classify",
	Long: `Resolve runs each label through the normalizer and classifier and
shows the canonical name, the fulfillment kind, and whether records
carrying the label would enter rollups.

A label that resolves to itself with kind "unknown" passed through the
dictionary unmatched; recurring ones are candidates for new variants.`,
	Example: `  stocktally warehouses resolve "Тула-1" "МАРКЕТПЛЕЙС"
  stocktally warehouses resolve --dictionary custom.yaml "Depot North"
  stocktally warehouses resolve "итого по складам" -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		dict, err := loadDictionary()
		if err != nil {
			return err
		}

		norm := warehouses.NewNormalizer(dict)
		class := warehouses.NewClassifier(dict)

		resolutions := make([]output.Resolution, 0, len(args))
		for _, label := range args {
			canonical := norm.Normalize(label)
			verdict := class.Classify(canonical, "")
			resolutions = append(resolutions, output.Resolution{
				Label:     label,
				Canonical: canonical,
				Kind:      verdict.Kind,
				Real:      verdict.Real,
				Reason:    verdict.Reason,
			})
		}

		return output.FormatResolutions(os.Stdout, activeFormat, resolutions)
	},
}

func init() {
	rootCmd.AddCommand(warehousesCmd)
	warehousesCmd.AddCommand(warehousesListCmd)
	warehousesCmd.AddCommand(warehousesResolveCmd)
}
