package schema

import (
	"context"

	"github.com/jinzhu/inflection"

	"github.com/dbsmedya/orgmigrate/internal/types"
)

// RelationshipsOf filters a schema's fields to reference fields with at
// least one target object type. Pure and deterministic; no I/O.
func RelationshipsOf(s *types.ObjectSchema) []types.RelationshipField {
	var rels []types.RelationshipField
	for _, f := range s.Fields {
		if !f.IsReference() {
			continue
		}
		rels = append(rels, types.RelationshipField{
			Name:        f.Name,
			Label:       f.Label,
			ReferenceTo: f.ReferenceTo,
			Nillable:    f.Nillable,
			Createable:  f.Createable,
		})
	}
	return rels
}

// DefaultConfigFor derives the default traversal action for every
// relationship field of an object type:
//   - skip when the field is in the default-excluded-fields set or any of
//     its targets is a default-excluded object type
//   - include otherwise, targeting the first listed reference target
//
// The result is a starting point; callers may override field-by-field.
func DefaultConfigFor(ctx context.Context, cache *Cache, objectType string) ([]types.RelationshipConfig, error) {
	s, err := cache.Describe(ctx, objectType)
	if err != nil {
		return nil, err
	}

	rels := RelationshipsOf(s)
	configs := make([]types.RelationshipConfig, 0, len(rels))
	for _, rel := range rels {
		configs = append(configs, defaultEntry(rel))
	}
	return configs, nil
}

func defaultEntry(rel types.RelationshipField) types.RelationshipConfig {
	cfg := types.RelationshipConfig{
		Field:        rel.Name,
		Action:       types.ActionInclude,
		TargetObject: rel.ReferenceTo[0],
	}

	if IsDefaultExcludedField(rel.Name) {
		cfg.Action = types.ActionSkip
		return cfg
	}
	for _, target := range rel.ReferenceTo {
		if IsDefaultExcludedObject(target) {
			cfg.Action = types.ActionSkip
			return cfg
		}
	}
	return cfg
}

// ChildRelationshipName returns the relationship name for a child
// relationship, deriving one by pluralizing the child object type when the
// describe payload omits it.
func ChildRelationshipName(rel types.ChildRelationship) string {
	if rel.RelationshipName != "" {
		return rel.RelationshipName
	}
	return inflection.Plural(rel.ChildObject)
}
