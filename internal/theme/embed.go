package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultThemeName is the built-in theme materialized on first use.
const DefaultThemeName = "default"

//go:embed all:default
var embedded embed.FS

// EnsureDefault materializes the embedded default theme under
// themesDir if it is not already there, and returns its root. Existing
// files are left alone so user edits survive restarts.
func EnsureDefault(themesDir string) (string, error) {
	root := filepath.Join(themesDir, DefaultThemeName)

	err := fs.WalkDir(embedded, DefaultThemeName, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(themesDir, path)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if _, err := os.Stat(target); err == nil {
			return nil
		}
		data, err := embedded.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return "", fmt.Errorf("materializing default theme: %w", err)
	}

	return root, nil
}
