package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/logger"
	"github.com/dbsmedya/orgmigrate/internal/migrator"
	"github.com/dbsmedya/orgmigrate/internal/rest"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Analyze the migration and show the insertion plan",
	Long: `Plan expands the configured root records into their related-record
forest and shows the insertion plan without writing anything.

The plan shows:
  - Insertion order (referenced object types first)
  - Record counts per object type
  - Reference fields that will be remapped after insertion

Example:
  orgmigrate plan --config orgmigrate.yaml`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.BatchSize, overrides.SleepSeconds)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()

	manager := rest.NewManager(cfg)
	if err := manager.ConnectSource(ctx); err != nil {
		return err
	}

	session := migrator.NewSession(manager.Source, log)
	analysis, err := session.Analyze(ctx, &cfg.Migration)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	plan := analysis.Plan

	printHeader("Migration Plan: %s", cfg.Migration.RootObject)
	fmt.Fprintln(outputWriter)
	printSection("Overview")
	fmt.Fprintf(outputWriter, "  Root records:  %d\n", len(analysis.Forest))
	fmt.Fprintf(outputWriter, "  Total records: %d\n", plan.Stats.TotalRecords)
	fmt.Fprintf(outputWriter, "  Object types:  %d\n", plan.Records.Len())
	fmt.Fprintf(outputWriter, "  Remappings:    %d\n", len(plan.Remappings))

	fmt.Fprintln(outputWriter)
	printSection("Insertion order (referenced types first)")
	for i, objectType := range plan.ObjectOrder() {
		fmt.Fprintf(outputWriter, "  %d. %s (%d records)\n",
			i+1, objectType, plan.Stats.PerObject[objectType])
	}

	if len(plan.Remappings) > 0 {
		fmt.Fprintln(outputWriter)
		printSection("Reference fields remapped after insertion")
		perField := make(map[string]int)
		var order []string
		for _, r := range plan.Remappings {
			key := r.ObjectType + "." + r.Field
			if perField[key] == 0 {
				order = append(order, key)
			}
			perField[key]++
		}
		for _, key := range order {
			fmt.Fprintf(outputWriter, "  %s (%d references)\n", key, perField[key])
		}
	}

	if analysis.Graph.HasCycle() {
		fmt.Fprintln(outputWriter)
		printFail("Warning: mutually-referencing object types detected; their cross references resolve via the running identifier mapping")
	}

	return nil
}
