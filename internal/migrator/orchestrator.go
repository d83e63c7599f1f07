package migrator

import (
	"context"
	"fmt"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/graph"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

// Analysis is the outcome of expanding and planning one migration job.
type Analysis struct {
	Forest []*types.RecordNode
	Plan   *types.MigrationPlan
	Graph  *graph.Graph
}

// Analyze runs the read side of a migration end to end: fetch the root
// records, resolve the relationship configuration, expand the record
// forest, and flatten it into a plan. No writes happen here, so the result
// doubles as a dry-run report.
func (s *Session) Analyze(ctx context.Context, mig *config.MigrationConfig) (*Analysis, error) {
	roots, err := s.FetchRoots(ctx, mig)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no root %s records matched the selection", mig.RootObject)
	}

	configs, err := s.ResolveConfig(ctx, mig.RootObject, mig.Relationships)
	if err != nil {
		return nil, err
	}

	visited := graph.NewVisited()
	forest, err := s.Expand(ctx, mig.RootObject, roots, configs, visited)
	if err != nil {
		return nil, err
	}

	plan := NewPlanBuilder(s.log).Build(forest)

	g := TypeGraph(forest)
	if err := g.ValidateOrder(plan.ObjectOrder()); err != nil {
		// Mutually-referencing object types cannot be fully ordered; the
		// executor's running identifier mapping covers what the order cannot.
		s.log.Warnf("Plan order has unresolved dependencies: %v", err)
	}

	return &Analysis{Forest: forest, Plan: plan, Graph: g}, nil
}
