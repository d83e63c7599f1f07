package types

import "strings"

// SaveError is one error reported by the destination for a single record.
type SaveError struct {
	StatusCode string
	Message    string
	Fields     []string
}

// SaveResult is the per-record outcome of a bulk insert call.
type SaveResult struct {
	ID      string
	Success bool
	Errors  []SaveError
}

// ErrorMessage joins the result's error messages into one string.
// Returns "Unknown error" when the destination supplied none.
func (r SaveResult) ErrorMessage() string {
	if len(r.Errors) == 0 {
		return "Unknown error"
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.StatusCode != "" {
			msgs = append(msgs, e.StatusCode+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}
	return strings.Join(msgs, "; ")
}

// IdentifierMapping maps source-record identifiers to newly-assigned
// target-record identifiers. Scoped to one target connection's run.
type IdentifierMapping map[string]string

// ObjectResult is the per-object-type outcome of one execution.
type ObjectResult struct {
	ObjectType string
	Inserted   int
	Failed     int
	Errors     []string
	Aborted    bool // True when a batch-level failure cut this type short
}

// MigrationResult is the outcome of executing a plan against one target.
type MigrationResult struct {
	Target        string
	RunID         string
	Objects       []ObjectResult
	TotalInserted int
	TotalFailed   int
	IDMap         IdentifierMapping
	Error         string // Batch-level failure that aborted the run, if any
}

// Failed reports whether the run had any per-record failures or was aborted.
func (r *MigrationResult) Failed() bool {
	return r.TotalFailed > 0 || r.Error != ""
}
