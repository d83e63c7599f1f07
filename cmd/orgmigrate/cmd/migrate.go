package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/logger"
	"github.com/dbsmedya/orgmigrate/internal/migrator"
	"github.com/dbsmedya/orgmigrate/internal/rest"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

var migrateTarget string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate records from the source org into the target orgs",
	Long: `Migrate runs the full pipeline: preflight checks, related-record
expansion, plan building, and batched insertion into every configured
target org.

Each target gets its own independent run with its own identifier mapping;
one target's failure does not affect another's.

Example:
  orgmigrate migrate --config orgmigrate.yaml
  orgmigrate migrate --config orgmigrate.yaml --target staging`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateTarget, "target", "t", "",
		"Migrate into a single named target instead of all configured targets")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
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

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	manager := rest.NewManager(cfg)
	if err := manager.Connect(ctx); err != nil {
		return err
	}

	targets := make([]migrator.Target, 0, len(manager.Targets))
	for _, conn := range manager.Targets {
		if migrateTarget != "" && conn.Name() != migrateTarget {
			continue
		}
		targets = append(targets, conn)
	}
	if len(targets) == 0 {
		return fmt.Errorf("no matching target orgs configured")
	}

	session := migrator.NewSession(manager.Source, log)

	checker := migrator.NewPreflightChecker(session, log)
	if err := checker.Run(ctx, cfg, targets); err != nil {
		return err
	}

	analysis, err := session.Analyze(ctx, &cfg.Migration)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	executor := migrator.NewExecutor(cfg.Processing.BatchSize, session.RunID(), log)
	executor.SetSleep(cfg.Processing.SleepSeconds)
	results := executor.ExecuteAll(ctx, analysis.Plan, targets)

	anyFailed := false
	for i := range results {
		printResult(&results[i])
		if results[i].Failed() {
			anyFailed = true
		}
	}

	if anyFailed {
		return fmt.Errorf("migration completed with failures")
	}
	return nil
}

func printResult(result *types.MigrationResult) {
	fmt.Fprintln(outputWriter)
	printHeader("Target: %s", result.Target)

	rows := make([][]string, 0, len(result.Objects))
	for _, obj := range result.Objects {
		status := "ok"
		if obj.Aborted {
			status = "aborted"
		} else if obj.Failed > 0 {
			status = "partial"
		}
		rows = append(rows, []string{
			obj.ObjectType,
			fmt.Sprintf("%d", obj.Inserted),
			fmt.Sprintf("%d", obj.Failed),
			status,
		})
	}
	printTable([]string{"OBJECT", "INSERTED", "FAILED", "STATUS"}, rows)

	for _, obj := range result.Objects {
		for _, msg := range obj.Errors {
			printFail("  %s: %s", obj.ObjectType, msg)
		}
	}

	if result.Error != "" {
		printFail("Run aborted: %s", result.Error)
	} else if result.TotalFailed == 0 {
		printOK("%d records inserted", result.TotalInserted)
	} else {
		printFail("%d inserted, %d failed", result.TotalInserted, result.TotalFailed)
	}
}
