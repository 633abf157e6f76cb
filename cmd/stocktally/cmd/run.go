package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sellsight/stocktally"
	"github.com/sellsight/stocktally/internal/cmd/output"
	"github.com/sellsight/stocktally/pkg/constants"
	pkgerrors "github.com/sellsight/stocktally/pkg/errors"
	"github.com/sellsight/stocktally/pkg/feeds"
	"github.com/sellsight/stocktally/pkg/rollup"
	"github.com/sellsight/stocktally/pkg/validate"
)

var (
	runStocks  string
	runOrders  string
	runOut     string
	runReport  bool
	runDrops   bool
	runWorkers int
	runStrict  bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile stock and order feeds into per-item rollups",
	Long: `Run loads a stock snapshot feed and an order feed, collapses their
free-form warehouse labels onto canonical warehouses, deduplicates orders,
and prints one rollup per catalog item.

Feed records the engine cannot use (missing item keys, placeholder rows,
repeated or cancelled orders) are dropped and counted, never fatal. The
run is cross-checked by an independent tally; discrepancies print with
--report and only affect the exit code under --strict.`,
	Example: `  stocktally run --stocks stocks.json --orders orders.json
  stocktally run --stocks stocks.yaml --orders orders.yaml -o wide
  stocktally run --stocks stocks.json --orders orders.json --report --drops
  stocktally run --stocks stocks.json --orders orders.json --out runs/
  stocktally run --stocks stocks.json --orders orders.json --strict  # CI gate`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runStocks, "stocks", "", "Stock snapshot feed file (json or yaml)")
	runCmd.Flags().StringVar(&runOrders, "orders", "", "Order feed file (json or yaml)")
	runCmd.Flags().StringVar(&runOut, "out", "", "Write the full document to a file (.yaml/.yml for YAML, else JSON; a directory gets a timestamped name)")
	runCmd.Flags().BoolVar(&runReport, "report", false, "Include the consistency report in the output")
	runCmd.Flags().BoolVar(&runDrops, "drops", false, "Include drop statistics in the output")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Item pipelines to run concurrently (0 = engine default)")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Exit non-zero when the consistency report has discrepancies")

	_ = runCmd.MarkFlagRequired("stocks")
	_ = runCmd.MarkFlagRequired("orders")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	dict, err := loadDictionary()
	if err != nil {
		return err
	}

	stocks, err := feeds.ReadStockFile(runStocks)
	if err != nil {
		return pkgerrors.WrapReconcile("load-stocks", runStocks, err)
	}

	orders, err := feeds.ReadOrderFile(runOrders)
	if err != nil {
		return pkgerrors.WrapReconcile("load-orders", runOrders, err)
	}

	opts := []stocktally.Option{stocktally.WithDictionary(dict)}
	if runWorkers > 0 {
		opts = append(opts, stocktally.WithWorkers(runWorkers))
	}

	engine, err := stocktally.New(opts...)
	if err != nil {
		return err
	}

	result, err := engine.Reconcile(cmd.Context(), stocks, orders)
	if err != nil {
		return pkgerrors.WrapReconcile("reconcile", "", err)
	}

	if err := render(result); err != nil {
		return pkgerrors.WrapReconcile("render", "", err)
	}

	if runOut != "" {
		path, err := writeDocument(result, runOut)
		if err != nil {
			return pkgerrors.WrapReconcile("write-out", runOut, err)
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "Wrote reconciliation document to %s\n", path)
		}
	}

	if runStrict && !result.Report.Pass() {
		return pkgerrors.NewReconcileError("validate", "",
			fmt.Errorf("%d of %d items have discrepancies",
				len(result.Report.Discrepancies), result.Report.ItemsChecked))
	}

	return nil
}

// runDocument is the structured-output envelope for the run command.
type runDocument struct {
	RunID  uuid.UUID              `json:"runId" yaml:"runId"`
	Items  []rollup.ItemAggregate `json:"items" yaml:"items"`
	Report *validate.Report       `json:"report,omitempty" yaml:"report,omitempty"`
	Drops  *rollup.DropStats      `json:"drops,omitempty" yaml:"drops,omitempty"`
}

// render prints the run result in the active format. Table formats print
// sections to keep terminals readable; structured formats print a single
// document so pipelines get one parseable value.
func render(result *stocktally.Result) error {
	switch activeFormat {
	case output.FormatTable, output.FormatWide, "":
		return renderTables(result)
	default:
		return renderDocument(result)
	}
}

func renderDocument(result *stocktally.Result) error {
	doc := runDocument{
		RunID: result.RunID,
		Items: result.Items,
	}
	if runReport {
		doc.Report = result.Report
	}
	if runDrops {
		drops := result.Drops
		doc.Drops = &drops
	}

	return output.FormatAny(os.Stdout, activeFormat, doc)
}

// writeDocument writes the complete reconciliation document to path and
// returns the path actually written. A path naming an existing directory
// gets a timestamped filename inside it. The file always carries the
// report and drop counts; --report and --drops only shape what prints.
func writeDocument(result *stocktally.Result, path string) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		name := fmt.Sprintf("reconcile-%s.json", time.Now().Format(constants.TimeFormatFilename))
		path = filepath.Join(path, name)
	}

	format := output.FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = output.FormatYAML
	}

	drops := result.Drops
	doc := runDocument{
		RunID:  result.RunID,
		Items:  result.Items,
		Report: result.Report,
		Drops:  &drops,
	}

	var buf bytes.Buffer
	if err := output.FormatAny(&buf, format, doc); err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return "", pkgerrors.WrapIO("create directory", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return "", pkgerrors.WrapIO("write document", path, err)
	}

	return path, nil
}

func renderTables(result *stocktally.Result) error {
	if err := output.FormatItems(os.Stdout, activeFormat, result.Items); err != nil {
		return err
	}

	if runReport {
		fmt.Println()
		if result.Report.Pass() {
			fmt.Printf("Consistency check passed: %d items, no discrepancies\n", result.Report.ItemsChecked)
		} else {
			fmt.Printf("Consistency check failed: %d of %d items disagree\n",
				len(result.Report.Discrepancies), result.Report.ItemsChecked)
			if err := output.FormatReport(os.Stdout, activeFormat, result.Report); err != nil {
				return err
			}
		}
	}

	if runDrops {
		fmt.Println()
		fmt.Printf("Dropped %d records:\n", result.Drops.Total())
		if err := output.FormatAny(os.Stdout, activeFormat, result.Drops); err != nil {
			return err
		}
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "\nReconciled %d stock and %d order records into %d items in %s (run %s)\n",
			result.Stats.StockRecords, result.Stats.OrderRecords, result.Stats.Items,
			result.Stats.Elapsed.Round(time.Millisecond), result.RunID)
	}

	return nil
}
