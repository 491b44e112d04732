// Package main provides the CLI entrypoint for milk.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/milkwidget/milk/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose   bool
		theme     string
		configDir string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "milk",
	Short: "Desktop widget engine for Linux",
	Long: `milk is a desktop widget engine.

Themes describe overlay panels in XML markup, style them with CSS-like
rules, and animate their properties; milk parses and styles them,
polls system metrics, and previews the result in the terminal,
reloading as the files change.

Running milk without a subcommand launches the live preview.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		var err error
		cfg, err = config.LoadConfig(configFilePath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyLogConfig()

		if globalOpts.theme != "" {
			cfg.Theme.Name = globalOpts.theme
		}

		return nil
	},
	// Default to the live preview when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalOpts.theme, "theme", "t", "",
		"Theme to load (default: from config)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.configDir, "config-dir", "c", "",
		"Directory holding config.toml (default: ~/.config/milk)")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
}

// configFilePath resolves the config file, honoring --config-dir.
func configFilePath() string {
	if globalOpts.configDir == "" {
		return ""
	}
	return filepath.Join(globalOpts.configDir, "config.toml")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// applyLogConfig re-levels the logger from the loaded config. The
// verbose flag always wins.
func applyLogConfig() {
	if globalOpts.verbose {
		return
	}

	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
