// Package rest provides REST API connections to source and target orgs
// for orgmigrate.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

// Connection is an authenticated REST connection to one org.
type Connection struct {
	name        string
	instanceURL string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
}

// NewConnection creates a connection from an org configuration.
func NewConnection(cfg config.OrgConfig) *Connection {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}
	return &Connection{
		name:        cfg.Name,
		instanceURL: strings.TrimRight(cfg.InstanceURL, "/"),
		apiVersion:  apiVersion,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the configured org name.
func (c *Connection) Name() string {
	return c.name
}

// APIError is a non-2xx response from the org's REST API.
type APIError struct {
	Org        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("org %s returned HTTP %d: %s", e.Org, e.StatusCode, body)
}

func (c *Connection) baseURL() string {
	return fmt.Sprintf("%s/services/data/%s", c.instanceURL, c.apiVersion)
}

// doJSON issues a request with auth headers and decodes a JSON response into out.
func (c *Connection) doJSON(ctx context.Context, method, rawURL string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to org %s failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from org %s: %w", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Org: c.name, StatusCode: resp.StatusCode, Body: string(payload)}
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("failed to decode response from org %s: %w", c.name, err)
		}
	}
	return nil
}

// Ping verifies the connection is reachable and the token is valid.
// The limits endpoint is the cheapest authenticated call.
func (c *Connection) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, c.baseURL()+"/limits", nil, nil)
}

// describeResponse mirrors the relevant parts of the describe payload.
type describeResponse struct {
	Name               string                  `json:"name"`
	Label              string                  `json:"label"`
	Fields             []describeField         `json:"fields"`
	ChildRelationships []describeChildRelation `json:"childRelationships"`
}

type describeField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	ReferenceTo []string `json:"referenceTo"`
	Createable  bool     `json:"createable"`
	Nillable    bool     `json:"nillable"`
}

type describeChildRelation struct {
	ChildSObject     string `json:"childSObject"`
	Field            string `json:"field"`
	RelationshipName string `json:"relationshipName"`
}

// Describe fetches the structural metadata of one object type.
func (c *Connection) Describe(ctx context.Context, objectType string) (*types.ObjectSchema, error) {
	var payload describeResponse
	describeURL := fmt.Sprintf("%s/sobjects/%s/describe", c.baseURL(), url.PathEscape(objectType))
	if err := c.doJSON(ctx, http.MethodGet, describeURL, nil, &payload); err != nil {
		return nil, fmt.Errorf("describe %s: %w", objectType, err)
	}

	s := &types.ObjectSchema{
		Name:  payload.Name,
		Label: payload.Label,
	}
	for _, f := range payload.Fields {
		s.Fields = append(s.Fields, types.Field{
			Name:        f.Name,
			Label:       f.Label,
			Type:        f.Type,
			ReferenceTo: f.ReferenceTo,
			Createable:  f.Createable,
			Nillable:    f.Nillable,
		})
	}
	for _, r := range payload.ChildRelationships {
		s.ChildRelationships = append(s.ChildRelationships, types.ChildRelationship{
			ChildObject:      r.ChildSObject,
			Field:            r.Field,
			RelationshipName: r.RelationshipName,
		})
	}
	return s, nil
}

// queryResponse mirrors the query endpoint's paged payload.
type queryResponse struct {
	Done           bool           `json:"done"`
	NextRecordsURL string         `json:"nextRecordsUrl"`
	Records        []types.Record `json:"records"`
}

// Query executes a SOQL query and returns all records, following pagination.
func (c *Connection) Query(ctx context.Context, soql string) ([]types.Record, error) {
	queryURL := fmt.Sprintf("%s/query?q=%s", c.baseURL(), url.QueryEscape(soql))

	var all []types.Record
	for {
		var page queryResponse
		if err := c.doJSON(ctx, http.MethodGet, queryURL, nil, &page); err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
		all = append(all, page.Records...)

		if page.Done || page.NextRecordsURL == "" {
			return all, nil
		}
		queryURL = c.instanceURL + page.NextRecordsURL
	}
}

// compositeRequest is the body of a composite sobjects insert call.
type compositeRequest struct {
	AllOrNone bool           `json:"allOrNone"`
	Records   []types.Record `json:"records"`
}

type compositeResult struct {
	ID      string           `json:"id"`
	Success bool             `json:"success"`
	Errors  []compositeError `json:"errors"`
}

type compositeError struct {
	StatusCode string   `json:"statusCode"`
	Message    string   `json:"message"`
	Fields     []string `json:"fields"`
}

// Insert creates records of one object type via the composite sobjects
// endpoint and returns one SaveResult per input record, in order. The call
// uses allOrNone=false so individual record failures do not fail the batch.
// The caller is responsible for keeping batches within the API's record
// limit per call.
func (c *Connection) Insert(ctx context.Context, objectType string, records []types.Record) ([]types.SaveResult, error) {
	if len(records) == 0 {
		return nil, nil
	}

	body := compositeRequest{AllOrNone: false, Records: make([]types.Record, len(records))}
	for i, rec := range records {
		withAttrs := rec.Clone()
		withAttrs[types.AttributesKey] = map[string]string{"type": objectType}
		body.Records[i] = withAttrs
	}

	var results []compositeResult
	insertURL := c.baseURL() + "/composite/sobjects"
	if err := c.doJSON(ctx, http.MethodPost, insertURL, body, &results); err != nil {
		return nil, fmt.Errorf("insert of %d %s records failed: %w", len(records), objectType, err)
	}

	out := make([]types.SaveResult, len(results))
	for i, r := range results {
		sr := types.SaveResult{ID: r.ID, Success: r.Success}
		for _, e := range r.Errors {
			sr.Errors = append(sr.Errors, types.SaveError{
				StatusCode: e.StatusCode,
				Message:    e.Message,
				Fields:     e.Fields,
			})
		}
		out[i] = sr
	}
	return out, nil
}
