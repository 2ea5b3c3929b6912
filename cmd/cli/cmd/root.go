// Package cmd provides the CLI commands for planquote.
package cmd

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Simplici0/planquote/internal/catalog"
	"github.com/Simplici0/planquote/internal/config"
	"github.com/Simplici0/planquote/internal/db"
	"github.com/Simplici0/planquote/internal/logging"
	"github.com/Simplici0/planquote/internal/quotes"
)

// app is the state shared by every subcommand once the root has opened the database.
type app struct {
	cfg           config.Config
	log           zerolog.Logger
	db            *sql.DB
	dbPath        string
	migrationsDir string
	verbose       bool
}

func (a *app) catalog() *catalog.Store { return catalog.New(a.db) }

func (a *app) quotes() *quotes.Store { return quotes.New(a.db) }

// close releases the database. Cobra skips post-run hooks when a command
// fails, so this runs from execute instead.
func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Execute runs the CLI
func Execute() error {
	return execute(newRootCmd(config.Load()))
}

func execute(rootCmd *cobra.Command, a *app) error {
	err := rootCmd.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = fmt.Errorf("close database: %w", cerr)
	}
	return err
}

func newRootCmd(cfg config.Config) (*cobra.Command, *app) {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "planquote",
		Short: "Price device and plan combinations",
		Long: `planquote computes the monthly bill for a handset on a rate plan.

It shares its database with the admin server, so figures printed here
match what the storefront and the admin preview show.

Examples:
  planquote migrate
  planquote import products.json
  planquote calculate --device galaxy-s25-256 --plan 5g-premium --contract public-subsidy --months 24
  planquote quotes verify 0b6f9c1e-...`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := a.cfg.LogLevel
			if a.verbose {
				level = "debug"
			}
			a.log = logging.New(logging.Config{Level: level, Pretty: true, Output: cmd.ErrOrStderr()})
			for _, w := range a.cfg.Warnings {
				a.log.Debug().Msg(w)
			}

			database, err := db.Open(cmd.Context(), a.dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			a.db = database
			a.log.Debug().Str("path", a.dbPath).Msg("database opened")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", cfg.DBPath, "sqlite database path")
	rootCmd.PersistentFlags().StringVar(&a.migrationsDir, "migrations", cfg.MigrationsDir, "directory holding goose migrations")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newSeedCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newCalculateCmd(a))
	rootCmd.AddCommand(newQuotesCmd(a))

	return rootCmd, a
}
