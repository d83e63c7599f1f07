package types

// FieldTypeReference is the describe type of a foreign-key field.
const FieldTypeReference = "reference"

// Field describes one field of an object schema.
type Field struct {
	Name        string
	Label       string
	Type        string
	ReferenceTo []string // Target object types for reference fields
	Createable  bool
	Nillable    bool
}

// IsReference reports whether the field is a reference to at least one
// target object type.
func (f *Field) IsReference() bool {
	return f.Type == FieldTypeReference && len(f.ReferenceTo) > 0
}

// ChildRelationship describes one child relationship of an object schema.
type ChildRelationship struct {
	ChildObject      string // Child object type
	Field            string // Reference field on the child pointing back here
	RelationshipName string // May be empty in the describe payload
}

// ObjectSchema is the structural metadata of one object type.
// Immutable once fetched; cached per object type for the lifetime of one
// migration session.
type ObjectSchema struct {
	Name               string
	Label              string
	Fields             []Field
	ChildRelationships []ChildRelationship
}

// Field returns the schema's field with the given name, or nil.
func (s *ObjectSchema) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// QueryFieldNames returns the field projection used when fetching records
// for migration: every createable field plus the identifier field.
func (s *ObjectSchema) QueryFieldNames() []string {
	names := make([]string, 0, len(s.Fields)+1)
	names = append(names, IDField)
	for _, f := range s.Fields {
		if f.Createable && f.Name != IDField {
			names = append(names, f.Name)
		}
	}
	return names
}

// RelationshipField is a read-only projection of one reference field.
type RelationshipField struct {
	Name        string
	Label       string
	ReferenceTo []string
	Nillable    bool
	Createable  bool
}

// Action is the caller's decision for one relationship field.
type Action string

// Relationship actions.
const (
	ActionInclude       Action = "include"
	ActionSkip          Action = "skip"
	ActionMatchExternal Action = "matchByExternalId"
)

// RelationshipConfig is the per-field traversal decision supplied to the
// record graph builder.
type RelationshipConfig struct {
	Field           string
	Action          Action
	TargetObject    string // Disambiguates polymorphic references
	ExternalIDField string // Only for ActionMatchExternal
}
