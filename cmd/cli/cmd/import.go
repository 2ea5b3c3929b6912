package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/planquote/internal/catalog"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <products.json>",
		Short: "Load devices, plans and subsidies from a products.json file",
		Long: `Load a products.json document into the catalog.

Records are upserted by id in a single transaction. If any record is
rejected nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open catalog file: %w", err)
			}
			defer f.Close()

			doc, err := catalog.DecodeDocument(f)
			if err != nil {
				return err
			}
			stats, err := a.catalog().Import(cmd.Context(), doc)
			if err != nil {
				return err
			}

			a.log.Info().
				Int("devices", stats.Devices).
				Int("plans", stats.Plans).
				Int("subsidies", stats.Subsidies).
				Bool("settings", stats.Settings).
				Msg("catalog imported")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d devices, %d plans, %d subsidies\n",
				stats.Devices, stats.Plans, stats.Subsidies)
			return nil
		},
	}
}
