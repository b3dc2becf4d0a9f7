// Package main implements the entry point for the TaskMart API server,
// a REST backend for users and their tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/taskmart-api/internal/platform/postgres"
)

// options holds the parsed command line flags.
type options struct {
	migrate string
	envFile string
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command and exit ("+strings.Join(postgres.MigrationCommands, "|")+")")
	fs.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// main is the entry point for the taskmart-api server.
func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := run(context.Background(), opts); err != nil {
		log.Fatalf("taskmart-api: %v", err)
	}
}

// run loads configuration, sets up logging and either executes a migration
// command or serves HTTP until shutdown.
func run(ctx context.Context, opts options) error {
	cfg, err := loadAppConfig(opts.envFile)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	logger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"driver", cfg.Database.Driver)

	if opts.migrate != "" {
		return handleMigrations(ctx, cfg, opts.migrate, logger)
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app := newApplication(cfg, logger, db)
	if err := app.Run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		return err
	}
	return nil
}
