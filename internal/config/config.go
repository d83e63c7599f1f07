// Package config provides configuration structures and loading for orgmigrate.
package config

// Config represents the complete application configuration.
type Config struct {
	Source     OrgConfig        `yaml:"source" mapstructure:"source"`
	Targets    []OrgConfig      `yaml:"targets" mapstructure:"targets"`
	Migration  MigrationConfig  `yaml:"migration" mapstructure:"migration"`
	Processing ProcessingConfig `yaml:"processing" mapstructure:"processing"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// OrgConfig represents a connection to one org's REST API.
type OrgConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	InstanceURL string `yaml:"instance_url" mapstructure:"instance_url"`
	APIVersion  string `yaml:"api_version" mapstructure:"api_version"`
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
}

// MigrationConfig describes one migration job: the root records to pull
// from the source org and how to treat each relationship field.
type MigrationConfig struct {
	RootObject    string                 `yaml:"root_object" mapstructure:"root_object"`
	RecordIDs     []string               `yaml:"record_ids" mapstructure:"record_ids"`
	Where         string                 `yaml:"where" mapstructure:"where"`
	Relationships []RelationshipOverride `yaml:"relationships" mapstructure:"relationships"`
}

// RelationshipOverride overrides the default action for one relationship
// field of the root object. Fields not listed keep their derived default.
type RelationshipOverride struct {
	Field           string `yaml:"field" mapstructure:"field"`
	Action          string `yaml:"action" mapstructure:"action"` // include, skip, matchByExternalId
	TargetObject    string `yaml:"target_object" mapstructure:"target_object"`
	ExternalIDField string `yaml:"external_id_field" mapstructure:"external_id_field"`
}

// ProcessingConfig represents batch processing settings.
type ProcessingConfig struct {
	BatchSize    int     `yaml:"batch_size" mapstructure:"batch_size"`
	SleepSeconds float64 `yaml:"sleep_seconds" mapstructure:"sleep_seconds"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// MaxBatchSize is the destination bulk API's per-call record limit.
const MaxBatchSize = 200

// DefaultAPIVersion is used when an org config does not specify one.
const DefaultAPIVersion = "v59.0"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: OrgConfig{
			APIVersion: DefaultAPIVersion,
		},
		Processing: ProcessingConfig{
			BatchSize:    MaxBatchSize,
			SleepSeconds: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}
