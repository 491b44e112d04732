package theme

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest carries optional theme metadata from theme.yaml.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Version     string `yaml:"version"`
}

// readManifest loads theme.yaml or theme.yml from the theme root. A
// missing or malformed manifest yields the zero value; metadata is
// never load-bearing.
func readManifest(root string) Manifest {
	var m Manifest
	for _, name := range []string{"theme.yaml", "theme.yml"} {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Manifest{}
		}
		return m
	}
	return m
}
