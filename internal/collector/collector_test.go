package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "src/app.ts")
	createFile(t, dir, "src/widget.tsx")
	createFile(t, dir, "src/legacy.js")
	createFile(t, dir, "styles/main.css")
	createFile(t, dir, "index.html")
	createFile(t, dir, "README.md")
	createFile(t, dir, "node_modules/pkg/index.js")
	createFile(t, dir, "dist/bundle.js")

	files, warnings, err := Collect(dir)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		"index.html",
		"src/app.ts",
		"src/legacy.js",
		"src/widget.tsx",
		"styles/main.css",
	}, paths)
}

func TestCollectKinds(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "a.mjs")
	createFile(t, dir, "b.css")
	createFile(t, dir, "c.htm")

	files, _, err := Collect(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	kinds := map[string]Kind{}
	for _, f := range files {
		kinds[f.Path] = f.Kind
	}
	assert.Equal(t, KindScript, kinds["a.mjs"])
	assert.Equal(t, KindStyle, kinds["b.css"])
	assert.Equal(t, KindMarkup, kinds["c.htm"])
}

func TestCollectMissingRoot(t *testing.T) {
	_, _, err := Collect(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectRootIsFile(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "plain.txt")

	_, _, err := Collect(filepath.Join(dir, "plain.txt"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectEmptyTree(t *testing.T) {
	files, warnings, err := Collect(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, warnings)
}

func createFile(t *testing.T, dir, path string) {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("// test\n"), 0o644))
}
