package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/orgmigrate/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate checks the configuration file for syntax errors, missing
required fields, and invalid values.

Checks performed:
  - YAML syntax and structure
  - Source and target org connection settings
  - Migration root object and record selection
  - Relationship override actions
  - Batch size bounds

Example:
  orgmigrate validate --config orgmigrate.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.BatchSize, overrides.SleepSeconds)

	printHeader("Configuration Validation: %s", configFile)
	fmt.Fprintf(outputWriter, "Source org:  %s\n", cfg.Source.InstanceURL)
	fmt.Fprintf(outputWriter, "Targets:     %d\n", len(cfg.Targets))
	fmt.Fprintf(outputWriter, "Root object: %s\n\n", cfg.Migration.RootObject)

	if err := cfg.Validate(); err != nil {
		printFail("Validation failed:")
		fmt.Fprintln(outputWriter, err.Error())
		return fmt.Errorf("configuration is invalid")
	}

	printOK("Configuration is valid")
	return nil
}
