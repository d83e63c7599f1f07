package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	assert.Equal(t, "001a", Record{"Id": "001a"}.ID())
	assert.Equal(t, "", Record{}.ID())
	assert.Equal(t, "", Record{"Id": 42}.ID())
}

func TestRecordStringField(t *testing.T) {
	r := Record{"AccountId": "001a", "Amount": 100.0, "Empty": ""}

	v, ok := r.StringField("AccountId")
	assert.True(t, ok)
	assert.Equal(t, "001a", v)

	_, ok = r.StringField("Amount")
	assert.False(t, ok)
	_, ok = r.StringField("Empty")
	assert.False(t, ok)
	_, ok = r.StringField("Missing")
	assert.False(t, ok)
}

func TestRecordClone(t *testing.T) {
	original := Record{"Id": "001a", "Name": "Acme"}
	clone := original.Clone()
	clone["Name"] = "Changed"

	assert.Equal(t, "Acme", original["Name"])
	assert.Equal(t, "Changed", clone["Name"])
}

func TestObjectSchemaQueryFieldNames(t *testing.T) {
	s := &ObjectSchema{
		Name: "Contact",
		Fields: []Field{
			{Name: "Id", Type: "id", Createable: false},
			{Name: "LastName", Type: "string", Createable: true},
			{Name: "CreatedDate", Type: "datetime", Createable: false},
			{Name: "AccountId", Type: "reference", ReferenceTo: []string{"Account"}, Createable: true},
		},
	}

	// Identifier first, then createable fields only.
	assert.Equal(t, []string{"Id", "LastName", "AccountId"}, s.QueryFieldNames())
}

func TestFieldIsReference(t *testing.T) {
	ref := Field{Name: "AccountId", Type: "reference", ReferenceTo: []string{"Account"}}
	assert.True(t, ref.IsReference())

	noTargets := Field{Name: "Odd", Type: "reference"}
	assert.False(t, noTargets.IsReference())

	plain := Field{Name: "Name", Type: "string"}
	assert.False(t, plain.IsReference())
}

func TestMigrationPlanAppend(t *testing.T) {
	plan := NewMigrationPlan()

	assert.Equal(t, 0, plan.Append("Account", Record{"Name": "A"}))
	assert.Equal(t, 1, plan.Append("Account", Record{"Name": "B"}))
	assert.Equal(t, 0, plan.Append("Contact", Record{"LastName": "C"}))

	assert.Equal(t, []string{"Account", "Contact"}, plan.ObjectOrder())
	require.Len(t, plan.RecordsFor("Account"), 2)
	assert.Empty(t, plan.RecordsFor("Case"))
}

func TestSaveResultErrorMessage(t *testing.T) {
	none := SaveResult{Success: false}
	assert.Equal(t, "Unknown error", none.ErrorMessage())

	one := SaveResult{Errors: []SaveError{{StatusCode: "DUPLICATE_VALUE", Message: "duplicate found"}}}
	assert.Equal(t, "DUPLICATE_VALUE: duplicate found", one.ErrorMessage())

	two := SaveResult{Errors: []SaveError{
		{Message: "first"},
		{StatusCode: "REQUIRED_FIELD_MISSING", Message: "second"},
	}}
	assert.Equal(t, "first; REQUIRED_FIELD_MISSING: second", two.ErrorMessage())
}

func TestMigrationResultFailed(t *testing.T) {
	assert.False(t, (&MigrationResult{TotalInserted: 3}).Failed())
	assert.True(t, (&MigrationResult{TotalFailed: 1}).Failed())
	assert.True(t, (&MigrationResult{Error: "boom"}).Failed())
}
