// Package main is the entry point for the tmcview content viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/SephDB/aseforge/internal/config"
	"github.com/SephDB/aseforge/internal/logger"
	"github.com/SephDB/aseforge/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmcview [options] <file.tm|file.ts|file.ss>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Arg(0)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(viewer.Config{
		Title:      "tmcview - " + filepath.Base(path),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, path)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
