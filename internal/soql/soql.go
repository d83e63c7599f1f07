// Package soql provides SOQL query building utilities for orgmigrate.
package soql

import (
	"fmt"
	"regexp"
	"strings"
)

// QuoteLiteral quotes a string literal for use in a SOQL WHERE clause.
// It escapes backslashes and single quotes.
// Example: "it's" -> "'it\\'s'"
func QuoteLiteral(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

// validIdentifierRegex matches valid API names for objects and fields.
// API names only contain alphanumeric characters and underscores.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name is a valid object or field API name.
// This is a defense-in-depth measure against query injection.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}

// SelectByID builds a query fetching a single record by identifier with the
// given field projection.
func SelectByID(objectType string, fields []string, id string) (string, error) {
	if err := validate(objectType, fields); err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE Id = %s",
		strings.Join(fields, ", "), objectType, QuoteLiteral(id)), nil
}

// SelectByIDs builds a query fetching records whose identifiers are in the
// given set.
func SelectByIDs(objectType string, fields []string, ids []string) (string, error) {
	if err := validate(objectType, fields); err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no ids given for %s query", objectType)
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = QuoteLiteral(id)
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE Id IN (%s)",
		strings.Join(fields, ", "), objectType, strings.Join(quoted, ", ")), nil
}

// SelectWhere builds a query with a caller-supplied WHERE clause.
// The clause is trusted configuration; object and field names are still checked.
func SelectWhere(objectType string, fields []string, where string) (string, error) {
	if err := validate(objectType, fields); err != nil {
		return "", err
	}
	if strings.TrimSpace(where) == "" {
		return fmt.Sprintf("SELECT %s FROM %s", strings.Join(fields, ", "), objectType), nil
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(fields, ", "), objectType, where), nil
}

func validate(objectType string, fields []string) error {
	if !IsValidIdentifier(objectType) {
		return &InvalidIdentifierError{Name: objectType}
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields given for %s query", objectType)
	}
	for _, f := range fields {
		if !IsValidIdentifier(f) {
			return &InvalidIdentifierError{Name: f}
		}
	}
	return nil
}
