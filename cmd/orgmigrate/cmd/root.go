package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	batchSize    int
	sleepSeconds float64
)

var rootCmd = &cobra.Command{
	Use:   "orgmigrate",
	Short: "Cross-org CRM record migrator",
	Long: `A CLI tool for migrating a selected set of CRM records, together with
their related records, from a source org into one or more target orgs.

Features:
  - Recursive relationship discovery with per-field include/skip control
  - Dependency-ordered insertion (parents before children)
  - Automatic remapping of reference fields to newly-assigned identifiers
  - Batched bulk inserts with per-record success/failure reporting
  - Independent execution against multiple target orgs`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "orgmigrate.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Processing overrides
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", 0,
		"Override insert batch size (max 200)")
	rootCmd.PersistentFlags().Float64Var(&sleepSeconds, "sleep", 0,
		"Override sleep seconds between insert batches")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel     string
	LogFormat    string
	BatchSize    int
	SleepSeconds float64
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		BatchSize:    batchSize,
		SleepSeconds: sleepSeconds,
	}
}
