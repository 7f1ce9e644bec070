package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/validation"
)

// validate <kind> <value>: run one validator and print the outcome.
func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "validate <iban|card|phone|email|amount> <value>",
		Short:     "Check an IBAN, card, phone, email or amount",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"iban", "card", "phone", "email", "amount"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var res validation.Result
			switch strings.ToLower(args[0]) {
			case "iban":
				res = validation.PaymentDetails(args[1], models.PaymentIBAN)
			case "card":
				res = validation.PaymentDetails(args[1], models.PaymentCard)
			case "phone":
				res = validation.Phone(args[1])
			case "email":
				res = validation.Email(args[1])
			case "amount":
				_, res = validation.AmountString(args[1])
			default:
				return fmt.Errorf("unknown kind %q", args[0])
			}

			if !res.IsValid {
				return fmt.Errorf("%s (%s)", res.ErrorMessage, res.Kind)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
