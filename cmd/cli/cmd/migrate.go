package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/planquote/internal/migrations"
	"github.com/Simplici0/planquote/internal/seed"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migrations.Up(cmd.Context(), a.db, a.migrationsDir); err != nil {
				return err
			}
			version, err := migrations.Version(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			a.log.Info().Int64("version", version).Msg("migrations applied")
			fmt.Fprintf(cmd.OutOrStdout(), "database at version %d\n", version)
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the admin user, default settings and sample catalog",
		Long: `Insert the admin user (from ADMIN_EMAIL/ADMIN_PASSWORD), the default
pricing settings and one sample device, plan and subsidy.

Existing rows are left untouched, so running seed twice is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := seed.Run(cmd.Context(), a.db, seed.Config{
				AdminEmail:    a.cfg.AdminEmail,
				AdminPassword: a.cfg.AdminPassword,
			})
			if err != nil {
				return err
			}
			a.log.Info().Int("inserts", stats.Inserts).Msg("seed complete")
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows\n", stats.Inserts)
			return nil
		},
	}
}
