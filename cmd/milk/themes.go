package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/milkwidget/milk/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List installed themes",
	Long: `List themes installed under the themes directory, with manifest
metadata where a theme carries a theme.yaml.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	dir := cfg.ThemesPath()
	names, err := theme.ListThemes(dir)
	if err != nil {
		return fmt.Errorf("listing themes in %s: %w", dir, err)
	}

	active := cfg.Theme.Name
	if active == "" {
		active = theme.DefaultThemeName
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		line := name
		if name == active {
			line += " (active)"
		}
		if t, err := theme.ResolveDir(filepath.Join(dir, name)); err == nil {
			if t.Manifest.Version != "" {
				line += " v" + t.Manifest.Version
			}
			if t.Manifest.Description != "" {
				line += " - " + t.Manifest.Description
			}
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
