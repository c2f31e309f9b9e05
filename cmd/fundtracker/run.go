package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/mfalcone/fund-tracker/internal/config"
	"github.com/mfalcone/fund-tracker/internal/database"
	"github.com/mfalcone/fund-tracker/internal/ratelimit"
	"github.com/mfalcone/fund-tracker/internal/runner"
	"github.com/mfalcone/fund-tracker/internal/scraper"
)

const defaultOutputFile = "ETFs.csv"

// Exit statuses beyond the stock subcommands ones, so schedulers can tell a
// non-trading day from a genuine failure.
const (
	exitCannotFindDate subcommands.ExitStatus = 3
	exitDateMismatch   subcommands.ExitStatus = 4
)

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "scrape today's fund changes and export the report" }
func (*runCmd) Usage() string {
	return `run <manifest.csv> [` + defaultOutputFile + `]

  Scrapes today's dollar change for every fund in the manifest, records them
  in the database, and writes the trailing-window report.

  Exit status: 0 on success, 2 on usage error, 3 when the source page never
  showed its price date, 4 when the source date is not today.
`
}

func (*runCmd) SetFlags(_ *flag.FlagSet) {}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Not enough arguments given, expected a fund manifest\n%s", c.Usage())
		return subcommands.ExitUsageError
	}
	manifestPath := f.Arg(0)
	outputPath := defaultOutputFile
	if f.NArg() > 1 {
		outputPath = f.Arg(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Open(cfg.Database.Path, cfg.Database.MigrationsPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	limiter := ratelimit.New(cfg.Source.RequestDelay)
	source := scraper.NewFidelity(cfg.Source, limiter, logger)

	if err := runner.New(cfg, db, source, logger).Run(ctx, manifestPath, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var findErr *scraper.CannotFindDateError
		if errors.As(err, &findErr) {
			return exitCannotFindDate
		}
		var dateErr *scraper.DifferentDateError
		if errors.As(err, &dateErr) {
			return exitDateMismatch
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
