package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Simplici0/planquote/internal/catalog"
	"github.com/Simplici0/planquote/internal/pricing"
	"github.com/Simplici0/planquote/internal/quotes"
)

type calculateOptions struct {
	sel   catalog.Selection
	join  string
	terms string
	save  bool
	title string
	notes string
}

func newCalculateCmd(a *app) *cobra.Command {
	opts := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute the monthly bill for a device on a plan",
		Long: `Compute the monthly bill for a catalog device on a catalog plan using the
stored pricing settings.

Examples:
  planquote calculate --device galaxy-s25-256 --plan 5g-premium --contract public-subsidy --months 24
  planquote calculate --device galaxy-s25-256 --plan 5g-premium --contract selective-contract --months 0 --bundle
  planquote calculate --device galaxy-s25-256 --plan 5g-premium --contract public-subsidy --months 36 --save --title "walk-in"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sel.JoinType = pricing.JoinType(opts.join)
			opts.sel.ContractType = pricing.ContractType(opts.terms)
			return runCalculate(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sel.DeviceID, "device", "", "device id [REQUIRED]")
	cmd.Flags().StringVar(&opts.sel.PlanID, "plan", "", "plan id [REQUIRED]")
	cmd.Flags().StringVar(&opts.join, "join", string(pricing.JoinDeviceChange), "join type (device-change, number-port, new-signup)")
	cmd.Flags().StringVar(&opts.terms, "contract", string(pricing.ContractPublicSubsidy), "contract type (public-subsidy, selective-contract)")
	cmd.Flags().IntVar(&opts.sel.InstallmentMonths, "months", 24, "installment months (0 for lump sum, 12, 24, 36)")
	cmd.Flags().BoolVar(&opts.sel.BundleDiscount, "bundle", false, "apply the bundle discount")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the result as a quote")
	cmd.Flags().StringVar(&opts.title, "title", "", "quote title when --save is set")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "quote notes when --save is set")

	_ = cmd.MarkFlagRequired("device")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runCalculate(cmd *cobra.Command, a *app, opts *calculateOptions) error {
	ctx := cmd.Context()
	store := a.catalog()

	input, err := store.Resolve(ctx, opts.sel)
	if err != nil {
		return err
	}
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return err
	}

	if !opts.save {
		result, err := pricing.Calculate(input, settings)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), input, result)
	}

	q, err := a.quotes().Create(ctx, opts.title, opts.notes, input, settings)
	if err != nil {
		return err
	}
	a.log.Info().Str("quote_id", q.ID).Msg("quote saved")
	if err := printResult(cmd.OutOrStdout(), input, q.Result); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nsaved quote %s\n", q.ID)
	return err
}

func printResult(out io.Writer, in pricing.CalculationInput, res pricing.CalculationResult) error {
	b := res.Breakdown
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "%s %s %s / %s\t\n", in.Device.Brand, in.Device.Model, in.Device.Storage, in.Plan.Name)
	fmt.Fprintf(w, "%s, %s, %d months\t\n", res.Contract.JoinTypeLabel, res.Contract.ContractTypeLabel, res.Contract.InstallmentMonths)
	fmt.Fprintln(w, "\t")
	fmt.Fprintf(w, "device price\t%s\t\n", quotes.Won(b.DevicePrice))
	fmt.Fprintf(w, "subsidy\t-%s\t\n", quotes.Won(b.AppliedSubsidy))
	fmt.Fprintf(w, "device net price\t%s\t\n", quotes.Won(b.DeviceNetPrice))
	fmt.Fprintf(w, "installment interest\t%s\t\n", quotes.Won(b.InstallmentInterest))
	fmt.Fprintf(w, "plan base price\t%s\t\n", quotes.Won(b.PlanBasePrice))
	fmt.Fprintf(w, "selective discount\t-%s\t\n", quotes.Won(b.SelectiveDiscount))
	fmt.Fprintf(w, "bundle discount\t-%s\t\n", quotes.Won(b.BundleDiscount))
	fmt.Fprintln(w, "\t")
	fmt.Fprintf(w, "monthly device\t%s\t\n", quotes.Won(res.MonthlyDeviceFee))
	fmt.Fprintf(w, "monthly plan\t%s\t\n", quotes.Won(res.MonthlyPlanFee))
	fmt.Fprintf(w, "total monthly\t%s\t\n", quotes.Won(res.TotalMonthlyFee))
	if b.VATIncluded {
		fmt.Fprintf(w, "VAT included\t%s\t\n", quotes.Won(b.VATPortion))
	}

	return w.Flush()
}
