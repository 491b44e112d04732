// Package main is the entry point for the milkd widget daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/milkwidget/milk/internal/config"
	"github.com/milkwidget/milk/internal/engine"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	themeName := flag.String("theme", "", "Theme to load (default: from config)")
	configDir := flag.String("config-dir", "", "Directory holding config.toml (default: ~/.config/milk)")
	pollInterval := flag.String("poll-interval", "", "Metric poll interval override, e.g. 500ms")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("milkd version", version)
		os.Exit(0)
	}

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	configPath := ""
	if *configDir != "" {
		configPath = filepath.Join(*configDir, "config.toml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *themeName != "" {
		cfg.Theme.Name = *themeName
	}
	if *pollInterval != "" {
		cfg.Engine.PollInterval = *pollInterval
	}
	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Info("starting milkd", "version", version)

	eng := engine.New(cfg, logger)
	diags, err := eng.LoadTheme(cfg.Theme.Name)
	if err != nil {
		logger.Error("failed to load theme", "error", err)
		os.Exit(1)
	}
	for _, d := range diags {
		logger.Warn("diagnostic", "detail", d.String())
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := eng.Run(ctx); err != nil {
		logger.Error("engine stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("milkd stopped")
}
