// Package schema provides object schema caching and relationship discovery
// for orgmigrate.
package schema

import (
	"context"
	"fmt"

	"github.com/dbsmedya/orgmigrate/internal/logger"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

// Describer fetches structural metadata for one object type from the source.
type Describer interface {
	Describe(ctx context.Context, objectType string) (*types.ObjectSchema, error)
}

// FetchError is returned when the remote describe call fails. It is not
// retried; it aborts the operation that needed the schema.
type FetchError struct {
	ObjectType string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("schema fetch failed for %s: %v", e.ObjectType, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Cache memoizes per-object-type schemas for the lifetime of one migration
// session. It is not safe for use by concurrently-running sessions; each
// session owns its own Cache.
type Cache struct {
	describer Describer
	schemas   map[string]*types.ObjectSchema
	log       *logger.Logger
}

// NewCache creates a schema cache backed by the given describer.
func NewCache(describer Describer, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Cache{
		describer: describer,
		schemas:   make(map[string]*types.ObjectSchema),
		log:       log,
	}
}

// Describe returns the schema for an object type, issuing at most one remote
// describe call per type per session.
func (c *Cache) Describe(ctx context.Context, objectType string) (*types.ObjectSchema, error) {
	if s, ok := c.schemas[objectType]; ok {
		return s, nil
	}

	c.log.Debugf("Describing object type %q", objectType)
	s, err := c.describer.Describe(ctx, objectType)
	if err != nil {
		return nil, &FetchError{ObjectType: objectType, Err: err}
	}

	c.schemas[objectType] = s
	return s, nil
}

// Size returns the number of cached object schemas.
func (c *Cache) Size() int {
	return len(c.schemas)
}
