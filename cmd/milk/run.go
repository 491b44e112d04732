package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milkwidget/milk/internal/diag"
	"github.com/milkwidget/milk/internal/engine"
	"github.com/milkwidget/milk/internal/tui"
)

var runOpts struct {
	fps     int
	noWatch bool
}

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run the widget engine with a live terminal preview",
	Long: `Run the widget engine and preview it in the terminal.

With no arguments the configured theme is loaded. Positional arguments
are loose markup (.xml) and stylesheet (.css) files to run instead of
a theme; changes to either are picked up live unless watching is
disabled.

Key bindings:
  r           Reload
  p/space     Pause or resume
  c           Copy the current frame to the clipboard
  d           Toggle diagnostics
  ?           Show help
  q           Quit`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runOpts.fps, "fps", 0,
		"Frames per second (default: from config)")
	runCmd.Flags().BoolVar(&runOpts.noWatch, "no-watch", false,
		"Disable live reload on file changes")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runOpts.fps > 0 {
		cfg.Engine.FPS = runOpts.fps
	}
	if runOpts.noWatch {
		cfg.Engine.Watch = false
	}

	eng := engine.New(cfg, logger)

	var diags diag.List
	var err error
	if len(args) > 0 {
		diags, err = eng.LoadFiles(args)
	} else {
		diags, err = eng.LoadTheme(cfg.Theme.Name)
	}
	if err != nil {
		return err
	}
	for _, d := range diags {
		logger.Warn("diagnostic", "detail", d.String())
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engineErr := make(chan error, 1)
	go func() {
		engineErr <- eng.Run(ctx)
	}()

	if err := tui.Run(tui.RunOptions{Config: cfg, Engine: eng}); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	cancel()
	return <-engineErr
}
