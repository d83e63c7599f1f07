// Package migrator implements record relationship analysis and migration
// execution for orgmigrate: expanding root records into a record forest,
// flattening the forest into a dependency-ordered plan, and inserting the
// plan into target orgs with identifier remapping.
package migrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/logger"
	"github.com/dbsmedya/orgmigrate/internal/schema"
	"github.com/dbsmedya/orgmigrate/internal/soql"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

// Source is the read side of a migration: schema describes and record queries
// against the org records are pulled from.
type Source interface {
	Describe(ctx context.Context, objectType string) (*types.ObjectSchema, error)
	Query(ctx context.Context, soql string) ([]types.Record, error)
}

// Target is the write side of a migration: batched record inserts into one
// destination org.
type Target interface {
	Name() string
	Insert(ctx context.Context, objectType string, records []types.Record) ([]types.SaveResult, error)
}

// Session ties one migration run together: the source connection, the
// schema cache scoped to the run, and the run's log context. A Session is
// not safe for concurrent use; run one migration per Session.
type Session struct {
	source Source
	cache  *schema.Cache
	log    *logger.Logger
	runID  string
}

// NewSession creates a migration session over a source connection.
func NewSession(source Source, log *logger.Logger) *Session {
	if log == nil {
		log = logger.NewDefault()
	}
	runID := uuid.NewString()
	log = log.WithRun(runID)
	return &Session{
		source: source,
		cache:  schema.NewCache(source, log),
		log:    log,
		runID:  runID,
	}
}

// RunID returns the session's unique run identifier.
func (s *Session) RunID() string {
	return s.runID
}

// Cache returns the session's schema cache.
func (s *Session) Cache() *schema.Cache {
	return s.cache
}

// ResolveConfig derives the default relationship configuration for an object
// type and applies caller overrides field-by-field.
func (s *Session) ResolveConfig(ctx context.Context, objectType string, overrides []config.RelationshipOverride) ([]types.RelationshipConfig, error) {
	configs, err := schema.DefaultConfigFor(ctx, s.cache, objectType)
	if err != nil {
		return nil, err
	}

	for _, o := range overrides {
		applied := false
		for i := range configs {
			if configs[i].Field != o.Field {
				continue
			}
			if o.Action != "" {
				configs[i].Action = types.Action(o.Action)
			}
			if o.TargetObject != "" {
				configs[i].TargetObject = o.TargetObject
			}
			if o.ExternalIDField != "" {
				configs[i].ExternalIDField = o.ExternalIDField
			}
			applied = true
			break
		}
		if !applied {
			return nil, fmt.Errorf("relationship override refers to unknown field %q on %s", o.Field, objectType)
		}
	}

	return configs, nil
}

// FetchRoots pulls the root records selected by the migration config from
// the source, projecting createable fields plus the identifier.
func (s *Session) FetchRoots(ctx context.Context, mig *config.MigrationConfig) ([]types.Record, error) {
	objSchema, err := s.cache.Describe(ctx, mig.RootObject)
	if err != nil {
		return nil, err
	}
	fields := objSchema.QueryFieldNames()

	var query string
	if len(mig.RecordIDs) > 0 {
		query, err = soql.SelectByIDs(mig.RootObject, fields, mig.RecordIDs)
	} else {
		query, err = soql.SelectWhere(mig.RootObject, fields, mig.Where)
	}
	if err != nil {
		return nil, err
	}

	records, err := s.source.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch root %s records: %w", mig.RootObject, err)
	}

	s.log.Infof("Fetched %d root %s records", len(records), mig.RootObject)
	return records, nil
}
