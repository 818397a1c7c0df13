package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gatekeeper/config"
	logs "gatekeeper/internal/infra/log"
	"gatekeeper/internal/infra/persistence/migration"
	"gatekeeper/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"gorm.io/gorm"
)

// Supported subcommands:
// - migrate: Apply or revert the embedded schema
// - seed:    Create the demo users
// - unseed:  Remove the demo users

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	unseedCmd := flag.NewFlagSet("unseed", flag.ExitOnError)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:], migrateCmd, seedCmd, unseedCmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, name string, args []string, migrateCmd, seedCmd, unseedCmd *flag.FlagSet) error {
	switch name {
	case "migrate":
		if err := migrateCmd.Parse(args); err != nil {
			return errors.WithStack(err)
		}
		direction := migration.Up
		if migrateCmd.NArg() > 0 {
			direction = migration.Direction(migrateCmd.Arg(0))
		}

		return withDB(func(db *gorm.DB, _ *config.Config, logger *slog.Logger) error {
			return migration.Run(ctx, db, direction, logger)
		})
	case "seed":
		if err := seedCmd.Parse(args); err != nil {
			return errors.WithStack(err)
		}

		return withDB(func(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
			authService, err := newAuthService(db, cfg, logger)
			if err != nil {
				return err
			}

			return seed(ctx, authService, logger)
		})
	case "unseed":
		if err := unseedCmd.Parse(args); err != nil {
			return errors.WithStack(err)
		}

		return withDB(func(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
			return unseed(ctx, postgres.NewUserRepository(db, cfg), logger)
		})
	case "help", "-h", "--help":
		printUsage()

		return nil
	default:
		printUsage()

		return errors.Errorf("unknown subcommand %q", name)
	}
}

// withDB loads configuration and opens the database for a single command.
func withDB(fn func(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return errors.Wrap(err, "failed to connect to PostgreSQL")
	}
	db = postgres.Configure(db, logger, cfg)

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	defer sqlDB.Close()

	return fn(db, cfg, logger)
}

func printUsage() {
	fmt.Println("Usage: dbtool <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [up|down]  Apply or revert the schema (default: up)")
	fmt.Println("  seed               Create the demo users")
	fmt.Println("  unseed             Remove the demo users")
}
