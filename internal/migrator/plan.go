package migrator

import (
	"strings"

	"github.com/dbsmedya/orgmigrate/internal/graph"
	"github.com/dbsmedya/orgmigrate/internal/logger"
	"github.com/dbsmedya/orgmigrate/internal/schema"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

// PlanBuilder flattens a record forest into an insertion-ready migration plan.
type PlanBuilder struct {
	plan      *types.MigrationPlan
	finalized graph.Visited
	log       *logger.Logger
}

// NewPlanBuilder creates a plan builder.
func NewPlanBuilder(log *logger.Logger) *PlanBuilder {
	if log == nil {
		log = logger.NewDefault()
	}
	return &PlanBuilder{
		plan:      types.NewMigrationPlan(),
		finalized: graph.NewVisited(),
		log:       log,
	}
}

// Build performs a depth-first, dependencies-first flattening of the forest.
// A node is finalized only after every node reachable through its edges has
// been finalized, so each object type first appears in the plan after all
// types it depends on. A record reached via multiple edges is emitted
// exactly once, tracked by its original identifier.
//
// The terminal-leaf object type is never inserted: its records are excluded
// from the plan entirely and its identifiers are resolved by the caller
// through an environment-stable lookup.
func (b *PlanBuilder) Build(forest []*types.RecordNode) *types.MigrationPlan {
	for _, node := range forest {
		b.finalize(node)
	}

	stats := types.PlanStats{PerObject: make(map[string]int)}
	for el := b.plan.Records.Front(); el != nil; el = el.Next() {
		stats.PerObject[el.Key] = len(el.Value)
		stats.TotalRecords += len(el.Value)
	}
	b.plan.Stats = stats

	b.log.Infof("Plan built: %d records across %d object types, %d remappings",
		stats.TotalRecords, b.plan.Records.Len(), len(b.plan.Remappings))

	return b.plan
}

func (b *PlanBuilder) finalize(node *types.RecordNode) {
	id := node.ID()
	if id != "" {
		if b.finalized.Seen(id) {
			return
		}
		b.finalized.Mark(id)
	}

	// Dependencies first: everything this record references is finalized
	// strictly before the record itself.
	for _, edge := range node.Edges {
		for _, related := range edge.Related {
			b.finalize(related)
		}
	}

	if node.ObjectType == schema.TerminalLeafObject {
		return
	}

	cleaned := CleanRecord(node.Fields)
	index := b.plan.Append(node.ObjectType, cleaned)

	for _, edge := range node.Edges {
		if len(edge.Related) == 0 {
			continue
		}
		referencedID, ok := node.Fields.StringField(edge.Field)
		if !ok {
			continue
		}
		b.plan.Remappings = append(b.plan.Remappings, types.RemappingInstruction{
			ObjectType:   node.ObjectType,
			Field:        edge.Field,
			ReferencedID: referencedID,
			RecordIndex:  index,
		})
	}
}

// relationshipProjectionSuffix marks fields that carry a materialized
// related-record projection rather than a raw reference id.
const relationshipProjectionSuffix = "__r"

// CleanRecord produces the migration-ready form of a record: the identifier
// field, the metadata wrapper, system fields, and relationship projections
// are stripped; everything else is retained verbatim; the original
// identifier is stored under the reserved internal key.
func CleanRecord(record types.Record) types.Record {
	cleaned := make(types.Record, len(record))

	for name, value := range record {
		switch {
		case name == types.IDField:
		case name == types.AttributesKey:
		case schema.IsSystemField(name):
		case strings.HasSuffix(name, relationshipProjectionSuffix):
		default:
			// Nested objects are relationship projections returned by the
			// query, never raw insertable values.
			if _, isNested := value.(map[string]interface{}); isNested {
				continue
			}
			cleaned[name] = value
		}
	}

	if id := record.ID(); id != "" {
		cleaned[types.SourceIDKey] = id
	}
	return cleaned
}

// TypeGraph derives the object-type dependency graph of a forest: an edge
// A -> B means B records reference A records, so A inserts first. The
// terminal-leaf type is left out, matching its exclusion from the plan.
func TypeGraph(forest []*types.RecordNode) *graph.Graph {
	g := graph.NewGraph()
	seen := graph.NewVisited()
	for _, node := range forest {
		typeGraphWalk(g, node, seen)
	}
	return g
}

func typeGraphWalk(g *graph.Graph, node *types.RecordNode, seen graph.Visited) {
	if id := node.ID(); id != "" {
		if seen.Seen(id) {
			return
		}
		seen.Mark(id)
	}

	if node.ObjectType != schema.TerminalLeafObject {
		g.AddNode(node.ObjectType)
	}

	for _, edge := range node.Edges {
		for _, related := range edge.Related {
			if node.ObjectType != schema.TerminalLeafObject && related.ObjectType != schema.TerminalLeafObject {
				g.AddEdge(related.ObjectType, node.ObjectType)
			}
			typeGraphWalk(g, related, seen)
		}
	}
}
