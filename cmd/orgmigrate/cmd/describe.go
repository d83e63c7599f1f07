package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/logger"
	"github.com/dbsmedya/orgmigrate/internal/migrator"
	"github.com/dbsmedya/orgmigrate/internal/rest"
	"github.com/dbsmedya/orgmigrate/internal/schema"
)

var describeObject string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show the relationship fields of an object type",
	Long: `Describe fetches an object type's schema from the source org and lists
its relationship fields together with the default traversal action each
would get. The defaults can be overridden per field in the configuration
file's migration.relationships section.

Example:
  orgmigrate describe --config orgmigrate.yaml --object Account`,
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().StringVarP(&describeObject, "object", "o", "",
		"Object type to describe (defaults to the configured root object)")

	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.BatchSize, overrides.SleepSeconds)

	objectType := describeObject
	if objectType == "" {
		objectType = cfg.Migration.RootObject
	}
	if objectType == "" {
		return fmt.Errorf("no object type given and no root object configured")
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
	objSchema, err := session.Cache().Describe(ctx, objectType)
	if err != nil {
		return err
	}
	configs, err := session.ResolveConfig(ctx, objectType, nil)
	if err != nil {
		return err
	}
	actions := make(map[string]string, len(configs))
	targets := make(map[string]string, len(configs))
	for _, c := range configs {
		actions[c.Field] = string(c.Action)
		targets[c.Field] = c.TargetObject
	}

	printHeader("Relationship fields: %s", objectType)
	fmt.Fprintln(outputWriter)

	rels := schema.RelationshipsOf(objSchema)
	if len(rels) == 0 {
		fmt.Fprintln(outputWriter, "  (no relationship fields)")
		return nil
	}

	rows := make([][]string, 0, len(rels))
	for _, rel := range rels {
		rows = append(rows, []string{
			rel.Name,
			rel.Label,
			strings.Join(rel.ReferenceTo, ", "),
			targets[rel.Name],
			actions[rel.Name],
		})
	}
	printTable([]string{"FIELD", "LABEL", "REFERENCES", "DEFAULT TARGET", "DEFAULT ACTION"}, rows)

	if len(objSchema.ChildRelationships) > 0 {
		fmt.Fprintln(outputWriter)
		printSection("Child relationships")
		childRows := make([][]string, 0, len(objSchema.ChildRelationships))
		for _, child := range objSchema.ChildRelationships {
			childRows = append(childRows, []string{
				schema.ChildRelationshipName(child),
				child.ChildObject,
				child.Field,
			})
		}
		printTable([]string{"NAME", "CHILD OBJECT", "FIELD"}, childRows)
	}

	return nil
}
