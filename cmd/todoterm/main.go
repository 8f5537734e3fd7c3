package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/app"
	"github.com/kerem/todoterm/internal/model"
	"github.com/kerem/todoterm/internal/session"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	serverURL := flag.String("server", "", "backend base URL (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "todoterm: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "todoterm: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	sess := session.New(&session.KeyringStore{})
	if err := sess.Load(); err != nil {
		// A broken keyring means signing in again, not failing to start.
		logger.Warn("loading session", "error", err)
	}

	client := api.NewClient(
		cfg.Server.BaseURL,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
		sess,
		logger,
	)
	sess.Attach(client)

	logger.Info("starting", "server", cfg.Server.BaseURL, "logged_in", sess.LoggedIn())

	program := tea.NewProgram(
		app.New(sess, client, logger),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "todoterm: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a file-backed logger. The TUI owns stdout, so logs
// never go there; with no file configured everything is discarded.
func newLogger(cfg model.LogConfig) (*log.Logger, func(), error) {
	out := io.Writer(io.Discard)
	closeLog := func() {}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
	})

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	return logger, closeLog, nil
}
