// Package types contains shared domain types used across multiple packages
// to avoid import cycles.
package types

// Well-known record keys.
const (
	// IDField is the server-assigned identifier field present on every record.
	IDField = "Id"

	// AttributesKey is the metadata wrapper the REST API attaches to records.
	AttributesKey = "attributes"

	// SourceIDKey is the reserved internal key that carries a cleaned record's
	// original source-org identifier through planning and execution. It is
	// stripped before the record is transmitted to a target.
	SourceIDKey = "__sourceId"
)

// Record is one record's raw field map as returned by the source API.
type Record map[string]interface{}

// ID returns the record's identifier, or "" if absent or not a string.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// StringField returns the named field's value if it is a non-empty string.
func (r Record) StringField(name string) (string, bool) {
	s, ok := r[name].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RecordNode is one concrete record in the expanded record forest, annotated
// with its resolved relationship edges to related records.
type RecordNode struct {
	ObjectType string
	Fields     Record
	Edges      []RelationshipEdge
}

// ID returns the node's original source identifier.
func (n *RecordNode) ID() string {
	return n.Fields.ID()
}

// RelationshipEdge links one reference field to the related record node(s)
// that were fetched for it.
type RelationshipEdge struct {
	Field   string
	Related []*RecordNode
}
