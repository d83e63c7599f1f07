package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

func testConnection(t *testing.T, handler http.Handler) (*Connection, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conn := NewConnection(config.OrgConfig{
		Name:        "test-org",
		InstanceURL: server.URL,
		APIVersion:  "v59.0",
		AccessToken: "secret-token",
	})
	return conn, server
}

func TestPingSendsBearerToken(t *testing.T) {
	var gotPath, gotAuth string
	conn, _ := testConnection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, "/services/data/v59.0/limits", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestDescribeDecodesSchema(t *testing.T) {
	conn, _ := testConnection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/sobjects/Contact/describe", r.URL.Path)
		w.Write([]byte(`{
			"name": "Contact",
			"label": "Contact",
			"fields": [
				{"name": "Id", "label": "Contact ID", "type": "id", "createable": false},
				{"name": "AccountId", "label": "Account ID", "type": "reference",
				 "referenceTo": ["Account"], "createable": true, "nillable": true}
			],
			"childRelationships": [
				{"childSObject": "Case", "field": "ContactId", "relationshipName": "Cases"}
			]
		}`))
	}))

	s, err := conn.Describe(context.Background(), "Contact")
	require.NoError(t, err)

	assert.Equal(t, "Contact", s.Name)
	require.Len(t, s.Fields, 2)
	accountID := s.Field("AccountId")
	require.NotNil(t, accountID)
	assert.True(t, accountID.IsReference())
	assert.Equal(t, []string{"Account"}, accountID.ReferenceTo)

	require.Len(t, s.ChildRelationships, 1)
	assert.Equal(t, "Case", s.ChildRelationships[0].ChildObject)
	assert.Equal(t, "Cases", s.ChildRelationships[0].RelationshipName)
}

func TestQueryFollowsPagination(t *testing.T) {
	conn, _ := testConnection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/services/data/v59.0/query":
			assert.Equal(t, "SELECT Id FROM Account", r.URL.Query().Get("q"))
			w.Write([]byte(`{
				"done": false,
				"nextRecordsUrl": "/services/data/v59.0/query/01g-next",
				"records": [{"Id": "A1"}, {"Id": "A2"}]
			}`))
		case "/services/data/v59.0/query/01g-next":
			w.Write([]byte(`{"done": true, "records": [{"Id": "A3"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	records, err := conn.Query(context.Background(), "SELECT Id FROM Account")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "A1", records[0].ID())
	assert.Equal(t, "A3", records[2].ID())
}

func TestQueryAPIError(t *testing.T) {
	conn, _ := testConnection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`[{"errorCode": "MALFORMED_QUERY", "message": "unexpected token"}]`))
	}))

	_, err := conn.Query(context.Background(), "SELEC oops")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "test-org", apiErr.Org)
	assert.Contains(t, err.Error(), "MALFORMED_QUERY")
}

func TestInsertCompositeRequest(t *testing.T) {
	var gotBody struct {
		AllOrNone bool                     `json:"allOrNone"`
		Records   []map[string]interface{} `json:"records"`
	}
	conn, _ := testConnection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/services/data/v59.0/composite/sobjects", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`[
			{"id": "NEW001", "success": true, "errors": []},
			{"success": false, "errors": [
				{"statusCode": "REQUIRED_FIELD_MISSING", "message": "Required fields are missing", "fields": ["LastName"]}
			]}
		]`))
	}))

	records := []types.Record{
		{"Name": "Acme"},
		{"AccountId": "A1"},
	}
	results, err := conn.Insert(context.Background(), "Account", records)
	require.NoError(t, err)

	assert.False(t, gotBody.AllOrNone, "individual failures must not fail the batch")
	require.Len(t, gotBody.Records, 2)
	attrs, ok := gotBody.Records[0]["attributes"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Account", attrs["type"])

	// The caller's records are not mutated by the attribute injection.
	assert.NotContains(t, records[0], "attributes")

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "NEW001", results[0].ID)
	assert.False(t, results[1].Success)
	require.Len(t, results[1].Errors, 1)
	assert.Equal(t, "REQUIRED_FIELD_MISSING", results[1].Errors[0].StatusCode)
	assert.Equal(t, []string{"LastName"}, results[1].Errors[0].Fields)
}

func TestInsertEmptyBatch(t *testing.T) {
	conn, _ := testConnection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))

	results, err := conn.Insert(context.Background(), "Account", nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestAPIErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	apiErr := &APIError{Org: "test-org", StatusCode: 500, Body: string(long)}
	assert.Less(t, len(apiErr.Error()), 400)
	assert.Contains(t, apiErr.Error(), "...")
}
