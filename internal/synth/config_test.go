package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-evolver/internal/helpers"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "evolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "stylesheet_version: \"3.0\"\nplaceholder: TODO\n"))
	require.NoError(t, err)

	assert.Equal(t, "3.0", config.StylesheetVersion)
	assert.Equal(t, "TODO", config.Placeholder)
	assert.Equal(t, "xml", config.OutputMethod, "unset keys keep defaults")
	assert.Equal(t, helpers.DefaultHref, config.HelpersHref)
	assert.True(t, config.Indent)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "output_method: pdf\nhelpers_href: \"\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OutputMethod (oneof)")
	assert.Contains(t, err.Error(), "HelpersHref (required)")

	_, err = LoadConfig(writeConfig(t, "indent: [\n"))
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}
