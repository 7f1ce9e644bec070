package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/message"
)

// history: inspect splits recorded with split --record. With the default
// in-memory database this only sees splits from the same process.
func historyCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show or delete recorded splits",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded splits, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := getApp().history.ListHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSHARED\tTOTAL\tTITLE")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					item.ID,
					item.SharedAt.Format(time.DateTime),
					message.FormatAmount(item.Split.TotalAmount, item.Split.Currency),
					item.Title,
				)
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum entries (0 for all)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a recorded split and who it was shared with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := getApp().history.GetHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			split := item.Split
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, message.Combined(split.Participants, split.PaymentDetails, split.Currency, split.TotalAmount, split.Note))
			fmt.Fprintln(out)
			for _, shared := range item.SharedTo {
				fmt.Fprintf(out, "shared with %s via %s at %s\n",
					shared.Participant.DisplayName(), shared.Channel, shared.SharedAt.Format(time.DateTime))
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getApp().history.DeleteHistory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
