package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.NotEmpty(t, validateCmd.Long)
	assert.NotNil(t, validateCmd.RunE)
}

func TestValidateIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "validate" {
			found = true
			break
		}
	}
	assert.True(t, found, "validate command should be added to root command")
}

func TestValidateCommandExample(t *testing.T) {
	assert.Contains(t, validateCmd.Long, "Example:")
	assert.Contains(t, validateCmd.Long, "orgmigrate validate")
}

func TestValidateCommandChecks(t *testing.T) {
	doc := validateCmd.Long
	assert.Contains(t, doc, "Checks performed")
	assert.Contains(t, doc, "org connection")
	assert.Contains(t, doc, "root object")
	assert.Contains(t, doc, "Batch size")
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orgmigrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunValidateValidConfig(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
		resetOutputWriter()
	}()

	cfgFile = writeTestConfig(t, `
source:
  instance_url: https://source.my.example.com
  access_token: tok
targets:
  - name: staging
    instance_url: https://staging.my.example.com
    access_token: tok
migration:
  root_object: Contact
  record_ids:
    - 003000000000001
`)

	var buf bytes.Buffer
	setOutputWriter(&buf)

	err := runValidate(validateCmd, []string{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Configuration is valid")
	assert.Contains(t, buf.String(), "Root object: Contact")
}

func TestRunValidateInvalidConfig(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
		resetOutputWriter()
	}()

	cfgFile = writeTestConfig(t, `
source:
  instance_url: https://source.my.example.com
  access_token: tok
targets: []
migration:
  root_object: ""
`)

	var buf bytes.Buffer
	setOutputWriter(&buf)

	err := runValidate(validateCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Validation failed")
	assert.Contains(t, buf.String(), "at least one target org")
}

func TestRunValidateMissingFile(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")

	err := runValidate(validateCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
