package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/models"
)

func currenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List supported currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tSYMBOL\tNAME\tDECIMALS")
			for _, c := range models.Currencies() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.Code, c.Symbol, c.DisplayName, c.DecimalPlaces)
			}
			return tw.Flush()
		},
	}
}
