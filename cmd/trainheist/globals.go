package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/trainheist/internal/config"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"trainheist.hcl" type:"path" help:"HCL configuration file (defaults are used when it does not exist)"`
	LogLevel string `name:"log-level" help:"Log level: debug, info, warn, error (overrides config)"`
	LogFile  string `name:"log-file" help:"Write logs to this file (overrides config)"`
	NoColor  bool   `name:"no-color" help:"Disable colour output"`
}

func (g *Globals) applyColor() {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Game.LogLevel = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.Game.LogFile = g.LogFile
	}
	return cfg, nil
}

// newLogger opens the configured log file, falling back to w when none is
// set. The returned function closes the file.
func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, func(), error) {
	closeFn := func() {}
	if cfg.Game.LogFile != "" {
		f, err := os.OpenFile(cfg.Game.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() {
			if err := f.Close(); err != nil {
				log.Error("Failed to close log file", "error", err)
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	level, err := log.ParseLevel(cfg.Game.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger, closeFn, nil
}

// signalContext creates a context that is cancelled on interrupt signals
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
