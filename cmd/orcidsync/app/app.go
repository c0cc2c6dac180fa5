// Package app provides the application context and dependency
// management for the orcidsync CLI. It centralizes configuration,
// logging, and pipeline construction for the subcommands.
package app

import (
	"os"

	"github.com/rs/zerolog"

	orcidsync "github.com/biopragmatics/orcidsync"
	"github.com/biopragmatics/orcidsync/pkg/errors"
	"github.com/biopragmatics/orcidsync/pkg/quickstatements"
	"github.com/biopragmatics/orcidsync/pkg/wikidata"
)

// App represents the orcidsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Pipeline builds a pipeline from the application configuration, with
// command-specific options appended.
func (a *App) Pipeline(extra ...orcidsync.Option) (*orcidsync.Pipeline, error) {
	if err := os.MkdirAll(a.config.DataDir, 0o755); err != nil {
		return nil, errors.WrapIO("mkdir", a.config.DataDir, err)
	}

	var execOpts []wikidata.ClientOption
	if a.config.Endpoint != "" {
		execOpts = append(execOpts, wikidata.WithEndpoint(a.config.Endpoint))
	}

	var submitOpts []quickstatements.ClientOption
	if a.config.QSUsername != "" || a.config.QSToken != "" {
		submitOpts = append(submitOpts, quickstatements.WithCredentials(a.config.QSUsername, a.config.QSToken))
	}

	opts := []orcidsync.Option{
		orcidsync.WithDataDir(a.config.DataDir),
		orcidsync.WithWorkers(a.config.Workers),
		orcidsync.WithDryRun(a.config.DryRun),
		orcidsync.WithQueryExecutor(wikidata.NewClient(execOpts...)),
		orcidsync.WithSubmitter(quickstatements.NewClient(submitOpts...)),
		orcidsync.WithLogger(a.logger),
	}
	opts = append(opts, extra...)

	return orcidsync.New(opts...)
}

// ExitOnError prints an error and exits with status 1. It is meant to
// be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
