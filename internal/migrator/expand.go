package migrator

import (
	"context"

	"github.com/dbsmedya/orgmigrate/internal/graph"
	"github.com/dbsmedya/orgmigrate/internal/schema"
	"github.com/dbsmedya/orgmigrate/internal/soql"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

// Expand recursively expands records into a forest of record nodes, each
// annotated with its resolved relationship edges.
//
// Every record is marked in the shared visited set before its edges are
// expanded, so traversal terminates on cyclic reference chains and a record
// reachable through multiple paths is fetched at most once. Fields
// configured skip or matchByExternalId are not traversed; matchByExternalId
// values stay on the record for resolution at the destination. A fetch
// failure on one edge is logged and treated as "no related record found".
func (s *Session) Expand(ctx context.Context, objectType string, records []types.Record, configs []types.RelationshipConfig, visited graph.Visited) ([]*types.RecordNode, error) {
	var forest []*types.RecordNode

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := record.ID()
		if id != "" && visited.Seen(id) {
			continue
		}
		if id != "" {
			visited.Mark(id)
		}

		node := &types.RecordNode{
			ObjectType: objectType,
			Fields:     record,
		}

		for _, cfg := range configs {
			if cfg.Action != types.ActionInclude {
				continue
			}
			refID, ok := record.StringField(cfg.Field)
			if !ok {
				continue
			}

			related, err := s.expandRelated(ctx, cfg.TargetObject, refID, visited)
			if err != nil {
				s.log.WithObject(objectType).Warnf(
					"Failed to fetch related %s record %s via %s: %v (treating edge as absent)",
					cfg.TargetObject, refID, cfg.Field, err)
				continue
			}

			node.Edges = append(node.Edges, types.RelationshipEdge{
				Field:   cfg.Field,
				Related: related,
			})
		}

		forest = append(forest, node)
	}

	return forest, nil
}

// expandRelated fetches one referenced record and expands it using the
// default relationship configuration of its own object type.
func (s *Session) expandRelated(ctx context.Context, objectType, id string, visited graph.Visited) ([]*types.RecordNode, error) {
	// Already expanded through another path; the plan builder dedupes by
	// identifier, and the executor remaps by value, so no edge is needed.
	if visited.Seen(id) {
		return nil, nil
	}

	objSchema, err := s.cache.Describe(ctx, objectType)
	if err != nil {
		return nil, err
	}

	query, err := soql.SelectByID(objectType, objSchema.QueryFieldNames(), id)
	if err != nil {
		return nil, err
	}

	records, err := s.source.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	childConfigs, err := schema.DefaultConfigFor(ctx, s.cache, objectType)
	if err != nil {
		return nil, err
	}

	return s.Expand(ctx, objectType, records[:1], childConfigs, visited)
}
