package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Stylesheet and markup file names a theme directory may carry.
const (
	stylesheetName = "theme.css"
	markupName     = "theme.xml"
	widgetsDirName = "widgets"
	assetsDirName  = "assets"
)

// importRegex matches @import "file.css"; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is one resolved theme directory. Missing parts stay empty; a
// theme with no stylesheet or no markup is still loadable.
type Theme struct {
	Name           string
	Root           string
	StylesheetPath string   // empty when theme.css is absent
	MarkupPaths    []string // theme.xml first, then widgets/ files sorted
	AssetRoot      string
	Manifest       Manifest
}

// ResolveDir inspects a theme directory and locates its parts. Only an
// unreadable root is an error; everything inside is optional.
func ResolveDir(root string) (*Theme, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("resolving theme: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resolving theme: %s is not a directory", root)
	}

	t := &Theme{
		Name:      filepath.Base(root),
		Root:      root,
		AssetRoot: root,
	}

	if path := filepath.Join(root, stylesheetName); fileExists(path) {
		t.StylesheetPath = path
	}
	if path := filepath.Join(root, markupName); fileExists(path) {
		t.MarkupPaths = append(t.MarkupPaths, path)
	}
	t.MarkupPaths = append(t.MarkupPaths, widgetFiles(filepath.Join(root, widgetsDirName))...)

	if assets := filepath.Join(root, assetsDirName); dirExists(assets) {
		t.AssetRoot = assets
	}

	t.Manifest = readManifest(root)
	if t.Manifest.Name != "" {
		t.Name = t.Manifest.Name
	}

	return t, nil
}

// widgetFiles lists markup files under a widgets directory in name
// order. A missing directory yields nothing.
func widgetFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".xml", ".milk":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}

// AssetPath resolves a name relative to the theme's asset root.
// Absolute paths pass through unchanged.
func (t *Theme) AssetPath(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(t.AssetRoot, name)
}

// Stylesheet reads the theme's stylesheet with @import statements
// inlined. A theme without one yields empty content.
func (t *Theme) Stylesheet() (string, error) {
	if t.StylesheetPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(t.StylesheetPath)
	if err != nil {
		return "", fmt.Errorf("reading stylesheet: %w", err)
	}
	return ProcessImports(string(data), filepath.Dir(t.StylesheetPath), nil), nil
}

// WatchDirs lists the directories a live-reload watcher should cover
// for this theme.
func (t *Theme) WatchDirs() []string {
	dirs := []string{t.Root}
	if w := filepath.Join(t.Root, widgetsDirName); dirExists(w) {
		dirs = append(dirs, w)
	}
	return dirs
}

// ProcessImports inlines @import statements, resolving relative paths
// against baseDir. The seen map prevents circular imports; pass nil to
// start fresh. Failed imports become comments so the stylesheet still
// parses.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		return "/* imported: " + importPath + " */\n" +
			ProcessImports(string(imported), filepath.Dir(fullPath), seen)
	})
}

// ListThemes names the theme directories under themesDir, sorted. The
// default theme is always included since it can be materialized on
// demand.
func ListThemes(themesDir string) ([]string, error) {
	seen := map[string]bool{DefaultThemeName: true}
	names := []string{DefaultThemeName}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return names, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !seen[entry.Name()] {
			seen[entry.Name()] = true
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
