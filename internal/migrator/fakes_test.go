package migrator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dbsmedya/orgmigrate/internal/types"
)

// fakeSource is an in-memory source connection. Records are looked up by the
// quoted identifiers in the WHERE clause of the query.
type fakeSource struct {
	schemas       map[string]*types.ObjectSchema
	records       map[string]types.Record // id -> record
	objectOf      map[string]string       // id -> object type
	queries       []string
	describeCalls map[string]int
	failQueryIDs  map[string]bool
	pingErr       error
}

func newFakeSource(schemas ...*types.ObjectSchema) *fakeSource {
	f := &fakeSource{
		schemas:       make(map[string]*types.ObjectSchema),
		records:       make(map[string]types.Record),
		objectOf:      make(map[string]string),
		describeCalls: make(map[string]int),
		failQueryIDs:  make(map[string]bool),
	}
	for _, s := range schemas {
		f.schemas[s.Name] = s
	}
	return f
}

func (f *fakeSource) addRecord(objectType string, record types.Record) {
	id := record.ID()
	f.records[id] = record
	f.objectOf[id] = objectType
}

func (f *fakeSource) Describe(ctx context.Context, objectType string) (*types.ObjectSchema, error) {
	f.describeCalls[objectType]++
	s, ok := f.schemas[objectType]
	if !ok {
		return nil, fmt.Errorf("NOT_FOUND: no object type %s", objectType)
	}
	return s, nil
}

var quotedLiteralPattern = regexp.MustCompile(`'([^']*)'`)

func (f *fakeSource) Query(ctx context.Context, soql string) ([]types.Record, error) {
	f.queries = append(f.queries, soql)

	objectType := ""
	if parts := strings.SplitN(soql, " FROM ", 2); len(parts) == 2 {
		objectType = strings.Fields(parts[1])[0]
	}

	var out []types.Record
	for _, match := range quotedLiteralPattern.FindAllStringSubmatch(soql, -1) {
		id := match[1]
		if f.failQueryIDs[id] {
			return nil, fmt.Errorf("QUERY_TIMEOUT: fetch of %s failed", id)
		}
		record, ok := f.records[id]
		if !ok || f.objectOf[id] != objectType {
			continue
		}
		out = append(out, record.Clone())
	}
	return out, nil
}

func (f *fakeSource) Ping(ctx context.Context) error {
	return f.pingErr
}

// insertCall records one batch sent to a fake target.
type insertCall struct {
	objectType string
	records    []types.Record
}

// fakeTarget is an in-memory target connection assigning sequential ids.
type fakeTarget struct {
	name    string
	calls   []insertCall
	nextID  int
	pingErr error

	// failRecord makes individual records fail with the returned error.
	failRecord func(objectType string, index int) *types.SaveError
	// failBatch makes whole insert calls fail.
	failBatch func(objectType string, call int) error
}

func newFakeTarget(name string) *fakeTarget {
	return &fakeTarget{name: name}
}

func (f *fakeTarget) Name() string {
	return f.name
}

func (f *fakeTarget) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeTarget) Insert(ctx context.Context, objectType string, records []types.Record) ([]types.SaveResult, error) {
	call := len(f.calls)
	if f.failBatch != nil {
		if err := f.failBatch(objectType, call); err != nil {
			return nil, err
		}
	}

	copied := make([]types.Record, len(records))
	for i, r := range records {
		copied[i] = r.Clone()
	}
	f.calls = append(f.calls, insertCall{objectType: objectType, records: copied})

	results := make([]types.SaveResult, len(records))
	for i := range records {
		if f.failRecord != nil {
			if saveErr := f.failRecord(objectType, i); saveErr != nil {
				results[i] = types.SaveResult{Success: false, Errors: []types.SaveError{*saveErr}}
				continue
			}
		}
		f.nextID++
		results[i] = types.SaveResult{Success: true, ID: fmt.Sprintf("NEW%04d", f.nextID)}
	}
	return results, nil
}

// batchesFor returns the batches sent for one object type, in order.
func (f *fakeTarget) batchesFor(objectType string) []insertCall {
	var out []insertCall
	for _, c := range f.calls {
		if c.objectType == objectType {
			out = append(out, c)
		}
	}
	return out
}

// Test schemas shared across migrator tests.

func accountSchema() *types.ObjectSchema {
	return &types.ObjectSchema{
		Name: "Account",
		Fields: []types.Field{
			{Name: "Id", Type: "id", Createable: false},
			{Name: "Name", Type: "string", Createable: true},
			{Name: "ParentId", Type: "reference", ReferenceTo: []string{"Account"}, Createable: true, Nillable: true},
			{Name: "OwnerId", Type: "reference", ReferenceTo: []string{"User"}, Createable: true},
			{Name: "RecordTypeId", Type: "reference", ReferenceTo: []string{"RecordType"}, Createable: true, Nillable: true},
		},
	}
}

func contactSchema() *types.ObjectSchema {
	return &types.ObjectSchema{
		Name: "Contact",
		Fields: []types.Field{
			{Name: "Id", Type: "id", Createable: false},
			{Name: "LastName", Type: "string", Createable: true},
			{Name: "AccountId", Type: "reference", ReferenceTo: []string{"Account"}, Createable: true, Nillable: true},
			{Name: "ReportsToId", Type: "reference", ReferenceTo: []string{"Contact"}, Createable: true, Nillable: true},
		},
	}
}

func recordTypeSchema() *types.ObjectSchema {
	return &types.ObjectSchema{
		Name: "RecordType",
		Fields: []types.Field{
			{Name: "Id", Type: "id", Createable: false},
			{Name: "Name", Type: "string", Createable: true},
			{Name: "DeveloperName", Type: "string", Createable: true},
		},
	}
}
