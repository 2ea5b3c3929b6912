package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Simplici0/planquote/internal/quotes"
)

// errQuoteMismatch is returned by quotes verify so scripts see a non-zero exit.
var errQuoteMismatch = errors.New("stored quote does not match recalculation")

func newQuotesCmd(a *app) *cobra.Command {
	quotesCmd := &cobra.Command{
		Use:   "quotes",
		Short: "Inspect saved quotes",
	}

	quotesCmd.AddCommand(&cobra.Command{
		Use:   "list [query]",
		Short: "List saved quotes, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			items, err := a.quotes().List(cmd.Context(), query)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tTITLE\tDEVICE\tPLAN\tTOTAL")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					it.ID, humanize.Time(it.CreatedAt), it.Title, it.DeviceID, it.PlanID, quotes.Won(it.Total))
			}
			return w.Flush()
		},
	})

	quotesCmd.AddCommand(&cobra.Command{
		Use:   "verify <id>",
		Short: "Recalculate a saved quote and compare it with the stored result",
		Long: `Recalculate a saved quote from its stored input and settings.

Exits non-zero when the recalculated result differs from the stored one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.quotes().Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if v.Matches {
				fmt.Fprintf(out, "quote %s reproduces: %s per month\n", v.QuoteID, quotes.Won(v.Stored.TotalMonthlyFee))
				return nil
			}
			fmt.Fprintf(out, "quote %s differs: stored %s, recalculated %s\n",
				v.QuoteID, quotes.Won(v.Stored.TotalMonthlyFee), quotes.Won(v.Recomputed.TotalMonthlyFee))
			return errQuoteMismatch
		},
	})

	return quotesCmd
}
