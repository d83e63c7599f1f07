package types

import (
	"github.com/elliotchance/orderedmap/v2"
)

// RemappingInstruction records one relationship value that must be rewritten
// once the referenced record's new identifier is known.
type RemappingInstruction struct {
	ObjectType   string // Object type of the referencing record
	Field        string // Reference field holding the value
	ReferencedID string // Original source identifier of the referenced record
	RecordIndex  int    // Index of the referencing record within its type's list
}

// PlanStats contains statistics about a built migration plan.
type PlanStats struct {
	TotalRecords int
	PerObject    map[string]int
}

// MigrationPlan is the flattened, insertion-ready form of a record forest.
// Records iterates object types in insertion order: every object type whose
// records have no remaining unresolved dependencies within the plan appears
// before the types that depend on it.
type MigrationPlan struct {
	Records    *orderedmap.OrderedMap[string, []Record]
	Remappings []RemappingInstruction
	Stats      PlanStats
}

// NewMigrationPlan returns an empty plan.
func NewMigrationPlan() *MigrationPlan {
	return &MigrationPlan{
		Records: orderedmap.NewOrderedMap[string, []Record](),
	}
}

// ObjectOrder returns the object types in insertion order.
func (p *MigrationPlan) ObjectOrder() []string {
	return p.Records.Keys()
}

// RecordsFor returns the cleaned records planned for one object type.
func (p *MigrationPlan) RecordsFor(objectType string) []Record {
	records, _ := p.Records.Get(objectType)
	return records
}

// Append adds one cleaned record to an object type's list and returns the
// index it occupies.
func (p *MigrationPlan) Append(objectType string, record Record) int {
	records, _ := p.Records.Get(objectType)
	records = append(records, record)
	p.Records.Set(objectType, records)
	return len(records) - 1
}
