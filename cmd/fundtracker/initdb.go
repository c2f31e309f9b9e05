package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/mfalcone/fund-tracker/internal/config"
	"github.com/mfalcone/fund-tracker/internal/database"
)

type initDBCmd struct{}

func (*initDBCmd) Name() string     { return "initdb" }
func (*initDBCmd) Synopsis() string { return "destructively recreate the database schema" }
func (*initDBCmd) Usage() string {
	return `initdb

  Drops all tables and recreates the schema. Existing history is lost;
  normal runs never do this.
`
}

func (*initDBCmd) SetFlags(_ *flag.FlagSet) {}

func (c *initDBCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if err := db.Reset(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Database initialized at %s\n", cfg.Database.Path)
	return subcommands.ExitSuccess
}
