package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/baseline/internal/catalog"
)

func styleAliases(t *testing.T) map[string]string {
	t.Helper()
	c, err := catalog.LoadDefault()
	require.NoError(t, err)
	return c.StyleAliases()
}

func TestStyleHasSelector(t *testing.T) {
	src := []byte(".card:has(button){outline:1px solid #ddd;}\n")

	res, err := Style(src, styleAliases(t))
	require.NoError(t, err)

	require.Len(t, res.Occurrences, 1)
	occ := res.Occurrences[0]
	assert.Equal(t, ":has", occ.Token)
	assert.Equal(t, 1, occ.Line)
	assert.False(t, occ.Guarded, "no @supports( in file")
	assert.False(t, res.SupportsGuard)
}

func TestStyleDialogSelector(t *testing.T) {
	src := []byte("dialog::backdrop {\n  background: rgba(0, 0, 0, 0.4);\n}\n")

	res, err := Style(src, styleAliases(t))
	require.NoError(t, err)

	require.Len(t, res.Occurrences, 1)
	assert.Equal(t, "dialog", res.Occurrences[0].Token)
	assert.Contains(t, res.Occurrences[0].Snippet, "dialog::backdrop")
}

func TestStylePopoverDeclaration(t *testing.T) {
	src := []byte(".menu {\n  animation-name: popover-in;\n}\n")

	res, err := Style(src, styleAliases(t))
	require.NoError(t, err)

	require.Len(t, res.Occurrences, 1)
	occ := res.Occurrences[0]
	assert.Equal(t, "popover", occ.Token)
	assert.Equal(t, 2, occ.Line)
	assert.Equal(t, "animation-name: popover-in", occ.Snippet)
}

func TestStyleSupportsGuardIsFileScoped(t *testing.T) {
	src := []byte(`@supports(selector(:has(a))) {
  .grid:has(img) { display: grid; }
}
.card:has(button) { outline: none; }
`)
	res, err := Style(src, styleAliases(t))
	require.NoError(t, err)

	assert.True(t, res.SupportsGuard)
	require.NotEmpty(t, res.Occurrences)
	for _, occ := range res.Occurrences {
		assert.True(t, occ.Guarded, "softening applies to every hit in the file")
	}
}

func TestStyleNestedMediaRules(t *testing.T) {
	src := []byte(`@media (min-width: 600px) {
  .sidebar:has(nav) { width: 20rem; }
}
`)
	res, err := Style(src, styleAliases(t))
	require.NoError(t, err)

	require.Len(t, res.Occurrences, 1)
	assert.Equal(t, ":has", res.Occurrences[0].Token)
	assert.Equal(t, 2, res.Occurrences[0].Line)
}

func TestStyleNoMatches(t *testing.T) {
	res, err := Style([]byte("body { margin: 0; }\n"), styleAliases(t))
	require.NoError(t, err)
	assert.Empty(t, res.Occurrences)
}
