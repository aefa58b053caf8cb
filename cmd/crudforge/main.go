package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/crudforge/internal/app"
	"github.com/alexanderramin/crudforge/internal/cli"
	"github.com/alexanderramin/crudforge/internal/config"
	"github.com/alexanderramin/crudforge/internal/logging"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := cli.NewRootCmd(load).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load resolves configuration for the global flags and wires the services.
func load(opts cli.Options) (*cli.App, func() error, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.Offline {
		cfg.Offline = true
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}

	svc, err := app.New(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	log.Debug("services ready",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("db", cfg.DBPath),
		zap.Bool("offline", cfg.Offline),
	)

	a := &cli.App{
		Trees:     svc.Trees,
		Selection: svc.Selection,
		Edit:      svc.Edit,
		Sync:      svc.Sync,
		Serve:     svc.Serve,
		// Detect interactive terminal for the picker and edit form.
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	release := func() error {
		_ = log.Sync()
		return svc.Close()
	}
	return a, release, nil
}
