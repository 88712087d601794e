package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timedesk/internal/auth"
	"github.com/sadopc/timedesk/internal/config"
	"github.com/sadopc/timedesk/internal/logger"
	"github.com/sadopc/timedesk/internal/notes"
	"github.com/sadopc/timedesk/internal/store"
	"github.com/sadopc/timedesk/internal/tracker"
	"github.com/sadopc/timedesk/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	dbPath := flag.String("db", "", "database path (overrides config)")
	logPath := flag.String("log", "", "log file path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logPath != "" {
		cfg.LogFile = *logPath
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
			return err
		}
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	tick, err := cfg.Tick()
	if err != nil {
		return err
	}

	log, logFile, err := logger.OpenFile(cfg.LogFile, level)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()
	log.Info("database opened", "path", cfg.DBPath)

	warnings := make(chan error, 16)
	t := tracker.Open(s,
		tracker.WithLogger(log),
		tracker.WithWarningHandler(func(err error) {
			select {
			case warnings <- err:
			default: // already logged
			}
		}),
	)
	defer func() {
		if err := t.Close(); err != nil {
			log.Error("flush on exit failed", "error", err)
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}()

	app := tui.NewApp(tui.Options{
		Tracker:       t,
		Auth:          auth.NewService(s, log),
		Notes:         notes.NewService(s, log),
		TickInterval:  tick,
		TopActivities: cfg.TopActivities,
		Warnings:      warnings,
		Log:           log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
