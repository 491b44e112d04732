package theme

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Manager owns the active theme. Loading and reloading replace the
// resolved Theme wholesale; observers see each replacement in
// subscription order.
type Manager struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	themesDir string
	current   *Theme
	onChange  []func(*Theme)
}

// NewManager creates a manager rooted at themesDir. A nil logger falls
// back to slog.Default.
func NewManager(themesDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:    logger,
		themesDir: themesDir,
	}
}

// ThemesDir returns the directory themes are resolved under.
func (m *Manager) ThemesDir() string {
	return m.themesDir
}

// OnChange subscribes to theme replacements. Callbacks run
// synchronously during LoadTheme and Reload, after the new theme is
// installed.
func (m *Manager) OnChange(fn func(*Theme)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// LoadTheme resolves a theme by name and makes it current. An empty
// name loads the default theme, materializing it on first use. Loading
// a theme that does not exist is an error and the previous theme stays
// active.
func (m *Manager) LoadTheme(name string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	root := filepath.Join(m.themesDir, name)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if name != DefaultThemeName {
			return nil, fmt.Errorf("theme %q not found in %s", name, m.themesDir)
		}
		if _, err := EnsureDefault(m.themesDir); err != nil {
			return nil, err
		}
	}

	t, err := ResolveDir(root)
	if err != nil {
		return nil, err
	}

	m.install(t)
	m.logger.Info("theme loaded",
		"name", t.Name,
		"stylesheet", t.StylesheetPath != "",
		"markup_files", len(t.MarkupPaths))
	return t, nil
}

// Reload re-resolves the current theme's directory, picking up file
// additions and removals. Without a current theme it loads the
// default.
func (m *Manager) Reload() (*Theme, error) {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	if current == nil {
		return m.LoadTheme("")
	}

	t, err := ResolveDir(current.Root)
	if err != nil {
		return nil, err
	}

	m.install(t)
	m.logger.Debug("theme reloaded", "name", t.Name)
	return t, nil
}

// Current returns the active theme, nil before the first load.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// AvailableThemes lists loadable theme names, sorted.
func (m *Manager) AvailableThemes() ([]string, error) {
	return ListThemes(m.themesDir)
}

func (m *Manager) install(t *Theme) {
	m.mu.Lock()
	m.current = t
	subs := make([]func(*Theme), len(m.onChange))
	copy(subs, m.onChange)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
}
