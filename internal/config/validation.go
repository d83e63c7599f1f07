package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// validActions enumerates the accepted relationship actions.
var validActions = map[string]bool{
	"include":           true,
	"skip":              true,
	"matchByExternalId": true,
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, validateOrg("source", &c.Source)...)

	if len(c.Targets) == 0 {
		errs = append(errs, ValidationError{
			Field:   "targets",
			Message: "at least one target org must be defined",
		})
	}
	seen := make(map[string]bool)
	for i := range c.Targets {
		prefix := fmt.Sprintf("targets[%d]", i)
		errs = append(errs, validateOrg(prefix, &c.Targets[i])...)
		if seen[c.Targets[i].Name] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate target name %q", c.Targets[i].Name),
			})
		}
		seen[c.Targets[i].Name] = true
	}

	errs = append(errs, c.validateMigration()...)
	errs = append(errs, c.validateProcessing()...)
	errs = append(errs, c.validateLogging()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateOrg(prefix string, org *OrgConfig) ValidationErrors {
	var errs ValidationErrors

	if org.InstanceURL == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + ".instance_url",
			Message: "instance URL is required",
		})
	} else if !strings.HasPrefix(org.InstanceURL, "https://") && !strings.HasPrefix(org.InstanceURL, "http://") {
		errs = append(errs, ValidationError{
			Field:   prefix + ".instance_url",
			Message: "instance URL must start with http:// or https://",
		})
	}

	if org.AccessToken == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + ".access_token",
			Message: "access token is required (use ${ENV_VAR} to avoid committing secrets)",
		})
	}

	return errs
}

func (c *Config) validateMigration() ValidationErrors {
	var errs ValidationErrors

	if c.Migration.RootObject == "" {
		errs = append(errs, ValidationError{
			Field:   "migration.root_object",
			Message: "root object type is required",
		})
	}

	if len(c.Migration.RecordIDs) == 0 && c.Migration.Where == "" {
		errs = append(errs, ValidationError{
			Field:   "migration",
			Message: "either record_ids or where must be specified to select root records",
		})
	}

	for i, rel := range c.Migration.Relationships {
		prefix := fmt.Sprintf("migration.relationships[%d]", i)
		if rel.Field == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".field",
				Message: "field name is required",
			})
		}
		if !validActions[rel.Action] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".action",
				Message: fmt.Sprintf("invalid action %q (must be include, skip, or matchByExternalId)", rel.Action),
			})
		}
		if rel.Action == "matchByExternalId" && rel.ExternalIDField == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".external_id_field",
				Message: "external_id_field is required when action is matchByExternalId",
			})
		}
	}

	return errs
}

func (c *Config) validateProcessing() ValidationErrors {
	var errs ValidationErrors

	if c.Processing.BatchSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "processing.batch_size",
			Message: "batch size must be positive",
		})
	} else if c.Processing.BatchSize > MaxBatchSize {
		errs = append(errs, ValidationError{
			Field:   "processing.batch_size",
			Message: fmt.Sprintf("batch size must not exceed the bulk API limit of %d", MaxBatchSize),
		})
	}

	if c.Processing.SleepSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "processing.sleep_seconds",
			Message: "sleep seconds cannot be negative",
		})
	}

	return errs
}

func (c *Config) validateLogging() ValidationErrors {
	var errs ValidationErrors

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level %q", c.Logging.Level),
		})
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", c.Logging.Format),
		})
	}

	return errs
}
