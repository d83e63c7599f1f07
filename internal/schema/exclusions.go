package schema

// TerminalLeafObject is the object type whose records are never inserted by
// the migrator. RecordType identifiers differ across orgs and are resolved by
// the caller through a DeveloperName lookup instead of being created here.
const TerminalLeafObject = "RecordType"

// DefaultExcludedFields are owner/audit reference fields that default to the
// skip action when deriving a relationship configuration.
var DefaultExcludedFields = []string{
	"OwnerId",
	"CreatedById",
	"LastModifiedById",
}

// DefaultExcludedObjects are system object types that default to the skip
// action when any of a field's reference targets is one of them.
var DefaultExcludedObjects = []string{
	"User",
	"Group",
	"Profile",
	"UserRole",
	"Queue",
}

// SystemFields are always stripped from records before insertion. The
// destination either rejects them or assigns its own values.
var SystemFields = []string{
	"OwnerId",
	"CreatedById",
	"CreatedDate",
	"LastModifiedById",
	"LastModifiedDate",
	"SystemModstamp",
	"IsDeleted",
	"LastActivityDate",
	"LastViewedDate",
	"LastReferencedDate",
}

var (
	defaultExcludedFieldSet  = toSet(DefaultExcludedFields)
	defaultExcludedObjectSet = toSet(DefaultExcludedObjects)
	systemFieldSet           = toSet(SystemFields)
)

// IsDefaultExcludedField reports whether a field name is in the fixed
// default-excluded-fields set.
func IsDefaultExcludedField(name string) bool {
	return defaultExcludedFieldSet[name]
}

// IsDefaultExcludedObject reports whether an object type is in the fixed
// default-excluded-object-types set.
func IsDefaultExcludedObject(objectType string) bool {
	return defaultExcludedObjectSet[objectType]
}

// IsSystemField reports whether a field is stripped during record cleaning.
func IsSystemField(name string) bool {
	return systemFieldSet[name]
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
