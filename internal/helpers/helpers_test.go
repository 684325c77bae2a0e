package helpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylesheet_DefinesHelpers(t *testing.T) {
	text := string(Stylesheet())

	for _, name := range []string{CopyAttributes, CopyContent, DispatchContent} {
		assert.Contains(t, text, `<xsl:template name="`+name+`">`)
	}

	want := dedent.Dedent(`
		<xsl:template name="copy-attributes">
		  <xsl:param name="exclude" select="()"/>
		  <xsl:copy-of select="@*[not(name() = $exclude)]"/>
		</xsl:template>
	`)
	indented := "  " + strings.ReplaceAll(strings.TrimSpace(want), "\n", "\n  ")
	assert.Contains(t, text, indented)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("regenerate")
	require.NoError(t, err)
	assert.Equal(t, ModeRegenerate, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeReuse, m)

	_, err = ParseMode("sometimes")
	require.Error(t, err)
	assert.Equal(t, "reuse", ModeReuse.String())
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib", DefaultHref)

	written, err := Install(dir, "lib/"+DefaultHref, ModeReuse)
	require.NoError(t, err)
	assert.True(t, written)

	require.NoError(t, os.WriteFile(path, []byte("local edits"), 0o644))

	written, err = Install(dir, "lib/"+DefaultHref, ModeReuse)
	require.NoError(t, err)
	assert.False(t, written, "reuse keeps an existing copy")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "local edits", string(data))

	written, err = Install(dir, "lib/"+DefaultHref, ModeRegenerate)
	require.NoError(t, err)
	assert.True(t, written)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Stylesheet(), data)
}
