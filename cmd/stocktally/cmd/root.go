package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sellsight/stocktally/internal/cmd/output"
	"github.com/sellsight/stocktally/pkg/logging"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

var (
	configFile   string
	outputFormat string
	verbose      bool
	quiet        bool

	// activeFormat is the negotiated output format, resolved before any
	// command runs.
	activeFormat output.Format

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stocktally",
	Short: "Marketplace inventory reconciliation CLI",
	Long: `Stocktally reconciles marketplace seller inventory: it rolls
per-warehouse stock snapshots and per-order shipment records up into
per-item totals, collapsing the marketplace's free-form warehouse labels
onto canonical warehouses along the way.

Feeds are read from JSON or YAML files. Records the engine cannot use are
dropped and counted, never fatal, and every run is cross-checked by an
independent tally so aggregation mistakes surface as a discrepancy report
instead of silently wrong numbers.`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	// Set version information
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.stocktally.yaml)")
	rootCmd.PersistentFlags().String("dictionary", "", "warehouse dictionary file (default is the embedded dictionary)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, yaml, wide")
	// --format is a hidden alias for --output
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "")
	_ = rootCmd.PersistentFlags().MarkHidden("format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	// Bind flags to viper
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
	if err := viper.BindPFlag("dictionary", rootCmd.PersistentFlags().Lookup("dictionary")); err != nil {
		panic(fmt.Sprintf("Failed to bind dictionary flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".stocktally" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stocktally")
	}

	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up environment variable handling
	viper.AutomaticEnv() // Read in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// The dictionary path may also arrive through the environment in
	// pipeline use, where flags are awkward to thread.
	if err := viper.BindEnv("dictionary", "STOCKTALLY_DICTIONARY", "DICTIONARY"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind dictionary environment variable: %v\n", err)
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Configure logging based on verbose flag and environment
	configureLogging()
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	// Setup output format based on terminal detection
	if outputFormat == "" {
		outputFormat = string(output.DetectFormat(""))
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	activeFormat = format

	return nil
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	// Determine log level
	level := zerolog.InfoLevel
	if verbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if quiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	// Configure the logger
	config := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
	}

	// Use auto format detection if not specified
	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	logging.Configure(config)
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides keys that are already set, so the more specific file goes first.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		loadEnvFile(envFile)
	}
}

// loadEnvFile loads a single .env file using godotenv.
func loadEnvFile(filename string) {
	if err := godotenv.Load(filename); err == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", filename)
		}
	}
}

// loadDictionary resolves the active warehouse dictionary: an explicit file
// from --dictionary / STOCKTALLY_DICTIONARY / config, else the embedded
// default.
func loadDictionary() (*warehouses.Dictionary, error) {
	path := viper.GetString("dictionary")
	if path == "" {
		return warehouses.Default(), nil
	}
	return warehouses.LoadFile(path)
}
