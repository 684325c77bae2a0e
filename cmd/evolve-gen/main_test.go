package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-evolver/internal/helpers"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var cli Command

	parser, err := kong.New(&cli, kong.Name("evolve-gen"))
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var logs bytes.Buffer
	err = ctx.Run(newApp(&logs, cli.Verbose))

	return logs.String(), err
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "xsl", "order.xsl")

	logs, err := execute(t, "generate", "testdata/order.yaml", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, logs, "stylesheet written")

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	xsl := string(data)
	assert.Contains(t, xsl, `<xsl:import href="evolution-helpers.xsl"/>`)
	assert.Contains(t, xsl, `match="/order"`)
	assert.Contains(t, xsl, `name="order-item-FC"`)
	assert.Contains(t, xsl, `match="/order/item"`)

	helper, err := os.ReadFile(filepath.Join(dir, "xsl", helpers.DefaultHref))
	require.NoError(t, err)
	assert.Equal(t, helpers.Stylesheet(), helper)
}

func TestGenerate_HelpersHref(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "order.xsl")

	_, err := execute(t, "generate", "testdata/order.yaml", "-o", out,
		"--helpers-href", "lib/helpers.xsl", "--helpers-mode", "regenerate")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<xsl:import href="lib/helpers.xsl"/>`)
	assert.FileExists(t, filepath.Join(dir, "lib", "helpers.xsl"))
}

func TestGenerate_Config(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "evolve.yaml")
	require.NoError(t, os.WriteFile(config, []byte("stylesheet_version: \"3.0\"\n"), 0o644))

	out := filepath.Join(dir, "order.xsl")
	_, err := execute(t, "-v", "generate", "testdata/order.yaml", "-o", out, "-c", config)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `version="3.0"`)
}

func TestCheck(t *testing.T) {
	logs, err := execute(t, "check", "testdata/order.yaml")
	require.NoError(t, err)
	assert.Contains(t, logs, "input is consistent")

	logs, err = execute(t, "check", "testdata/broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input document")
	assert.Contains(t, logs, "unknown_reference")
}
