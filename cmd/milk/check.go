package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milkwidget/milk/internal/css"
	"github.com/milkwidget/milk/internal/diag"
	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/theme"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate markup and stylesheet files",
	Long: `Parse markup and stylesheet files and print their diagnostics.

The path may be a markup file, a stylesheet, or a theme directory, in
which case every file the theme resolves to is checked. The exit code
is non-zero when structural errors are found.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var diags diag.List
	checked := 0
	collect := func(p string) {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".xml":
			_, d := markup.ParseFile(p)
			diags.Extend(d)
			checked++
		case ".css":
			_, d := css.ParseFile(p)
			diags.Extend(d)
			checked++
		}
	}

	if info.IsDir() {
		t, err := theme.ResolveDir(path)
		if err != nil {
			return err
		}
		if t.StylesheetPath != "" {
			collect(t.StylesheetPath)
		}
		for _, p := range t.MarkupPaths {
			collect(p)
		}
	} else {
		collect(path)
	}

	if checked == 0 {
		return fmt.Errorf("nothing to check at %s", path)
	}

	out := cmd.OutOrStdout()
	for _, d := range diags {
		fmt.Fprintln(out, d.String())
	}
	if diags.HasErrors() {
		return fmt.Errorf("%d problem(s) in %d file(s)", len(diags), checked)
	}

	fmt.Fprintf(out, "checked %d file(s), no errors\n", checked)
	return nil
}
