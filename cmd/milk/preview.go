package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/milkwidget/milk/internal/css"
	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/render"
)

var previewOpts struct {
	stylesheet string
	width      int
	height     int
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render one markup file and print it",
	Long: `Parse a markup file, apply a stylesheet, and print the rendered
result once. No engine runs: metrics are absent and animations do not
advance.

When no stylesheet is given, a theme.css next to the markup file is
used if present.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewOpts.stylesheet, "stylesheet", "s", "",
		"Stylesheet to apply (default: theme.css next to the file)")
	previewCmd.Flags().IntVar(&previewOpts.width, "width", 0,
		"Canvas width in columns")
	previewCmd.Flags().IntVar(&previewOpts.height, "height", 0,
		"Canvas height in rows")
}

func runPreview(cmd *cobra.Command, args []string) error {
	path := args[0]
	tree, diags := markup.ParseFile(path)

	cssPath := previewOpts.stylesheet
	if cssPath == "" {
		candidate := filepath.Join(filepath.Dir(path), "theme.css")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			cssPath = candidate
		}
	}

	var table css.Table
	if cssPath != "" {
		parsed, cssDiags := css.ParseFile(cssPath)
		table = parsed
		diags.Extend(cssDiags)
	}

	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), d.String())
	}
	if diags.HasErrors() {
		return fmt.Errorf("%s has structural errors", path)
	}

	surface := render.NewSurface(previewOpts.width, previewOpts.height, render.Static{Table: table})
	fmt.Fprintln(cmd.OutOrStdout(), surface.Render(tree))
	return nil
}
