package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefault_Materializes(t *testing.T) {
	dir := t.TempDir()

	root, err := EnsureDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "default"), root)

	th, err := ResolveDir(root)
	require.NoError(t, err)

	assert.NotEmpty(t, th.StylesheetPath, "default theme ships a stylesheet")
	assert.NotEmpty(t, th.MarkupPaths, "default theme ships markup")

	content, err := th.Stylesheet()
	require.NoError(t, err)
	assert.Contains(t, content, "widget")
}

func TestEnsureDefault_PreservesUserEdits(t *testing.T) {
	dir := t.TempDir()

	root, err := EnsureDefault(dir)
	require.NoError(t, err)

	edited := "widget { opacity: 0.5; }"
	cssPath := filepath.Join(root, "theme.css")
	require.NoError(t, os.WriteFile(cssPath, []byte(edited), 0o644))

	_, err = EnsureDefault(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(cssPath)
	require.NoError(t, err)
	assert.Equal(t, edited, string(data))
}

func TestEnsureDefault_Idempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := EnsureDefault(dir)
	require.NoError(t, err)
	second, err := EnsureDefault(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
