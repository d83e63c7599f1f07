package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	applyOrgDefaults(cfg)

	return cfg, nil
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	applyOrgDefaults(cfg)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable
// values. Tokens and instance URLs are the usual carriers of secrets, so
// substitution covers every org connection plus the log output path.
func substituteEnvVars(cfg *Config) {
	substituteOrg(&cfg.Source)
	for i := range cfg.Targets {
		substituteOrg(&cfg.Targets[i])
	}
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

func substituteOrg(org *OrgConfig) {
	org.InstanceURL = expandEnvVar(org.InstanceURL)
	org.AccessToken = expandEnvVar(org.AccessToken)
}

// applyOrgDefaults fills missing per-org values that have global defaults.
func applyOrgDefaults(cfg *Config) {
	if cfg.Source.APIVersion == "" {
		cfg.Source.APIVersion = DefaultAPIVersion
	}
	if cfg.Source.Name == "" {
		cfg.Source.Name = "source"
	}
	for i := range cfg.Targets {
		if cfg.Targets[i].APIVersion == "" {
			cfg.Targets[i].APIVersion = DefaultAPIVersion
		}
		if cfg.Targets[i].Name == "" {
			cfg.Targets[i].Name = fmt.Sprintf("target-%d", i+1)
		}
	}
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Target retrieves a target org configuration by name.
func (c *Config) Target(name string) (*OrgConfig, error) {
	for i := range c.Targets {
		if c.Targets[i].Name == name {
			return &c.Targets[i], nil
		}
	}
	return nil, fmt.Errorf("target %q not found in configuration", name)
}

// TargetNames returns the names of all configured target orgs.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		names = append(names, t.Name)
	}
	return names
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string, batchSize int, sleepSeconds float64) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if batchSize > 0 {
		c.Processing.BatchSize = batchSize
	}
	if sleepSeconds > 0 {
		c.Processing.SleepSeconds = sleepSeconds
	}
}
