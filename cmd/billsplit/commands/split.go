package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/contacts"
	"github.com/mmynk/billsplit/internal/message"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/service"
)

var errInvalidForm = errors.New("split is not ready to share")

type splitFlags struct {
	total        string
	currency     string
	mode         string
	paymentType  string
	payment      string
	note         string
	people       int
	excludeMe    bool
	participants []string
	picks        []string
	channel      string
	summary      bool
	record       bool
}

// participantArg is one --participant value: name=contact[=amount].
type participantArg struct {
	name    string
	contact string
	amount  string
}

func parseParticipant(raw string) (participantArg, error) {
	parts := strings.Split(raw, "=")
	switch len(parts) {
	case 1:
		return participantArg{contact: strings.TrimSpace(parts[0])}, nil
	case 2:
		return participantArg{name: strings.TrimSpace(parts[0]), contact: strings.TrimSpace(parts[1])}, nil
	case 3:
		return participantArg{
			name:    strings.TrimSpace(parts[0]),
			contact: strings.TrimSpace(parts[1]),
			amount:  strings.TrimSpace(parts[2]),
		}, nil
	default:
		return participantArg{}, fmt.Errorf("participant %q: want name=contact[=amount]", raw)
	}
}

func parseChannel(raw string) models.ShareChannel {
	return models.ShareChannel(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_")))
}

// split: fill in the form, validate, then print each payment request.
func splitCmd(getApp func() *app) *cobra.Command {
	var f splitFlags

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a bill and print every payment request",
		Example: `  billsplit split --total 100 --payment GB82WEST12345698765432 \
    -P Alice=+995555123456 -P Bob=bob@example.com -P +995555654321`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, getApp(), f)
		},
	}

	cmd.Flags().StringVar(&f.total, "total", "", "bill total")
	cmd.Flags().StringVar(&f.currency, "currency", "", "currency code (default from config)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "equal or manual (manual when any participant has an amount)")
	cmd.Flags().StringVar(&f.paymentType, "payment-type", "iban", "iban or card")
	cmd.Flags().StringVar(&f.payment, "payment", "", "IBAN or card number to pay into")
	cmd.Flags().StringVar(&f.note, "note", "", "note added to every message")
	cmd.Flags().IntVar(&f.people, "people", 0, "people splitting the bill (default: participants, plus you)")
	cmd.Flags().BoolVar(&f.excludeMe, "exclude-me", false, "you are not paying a share")
	cmd.Flags().StringArrayVarP(&f.participants, "participant", "P", nil, "participant as name=contact[=amount]; repeatable")
	cmd.Flags().StringArrayVar(&f.picks, "pick", nil, "add the first contact matching this search; repeatable")
	cmd.Flags().StringVar(&f.channel, "channel", "", "channel for every participant (default: first available)")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "also print the combined summary")
	cmd.Flags().BoolVar(&f.record, "record", false, "record the split in history when done")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

func runSplit(cmd *cobra.Command, a *app, f splitFlags) error {
	ctx := cmd.Context()
	svc := a.split

	parsed := make([]participantArg, 0, len(f.participants))
	manual := false
	for _, raw := range f.participants {
		pa, err := parseParticipant(raw)
		if err != nil {
			return err
		}
		manual = manual || pa.amount != ""
		parsed = append(parsed, pa)
	}

	mode := models.SplitEqual
	switch strings.ToLower(f.mode) {
	case "":
		if manual {
			mode = models.SplitManual
		}
	case "equal":
	case "manual":
		mode = models.SplitManual
	default:
		return fmt.Errorf("unknown mode %q: want equal or manual", f.mode)
	}

	if f.currency != "" {
		if _, ok := models.LookupCurrency(models.CurrencyCode(strings.ToUpper(f.currency))); !ok {
			return fmt.Errorf("unsupported currency %q", f.currency)
		}
		svc.SetCurrency(strings.ToUpper(f.currency))
	}
	svc.SetSplitMode(mode)
	svc.SetPaymentType(models.PaymentType(strings.ToUpper(f.paymentType)))
	svc.SetPaymentValue(f.payment)
	svc.SetNote(f.note)
	svc.SetIncludeYourself(!f.excludeMe)

	for _, pa := range parsed {
		add := svc.AddPhoneParticipant
		if strings.Contains(pa.contact, "@") {
			add = svc.AddEmailParticipant
		}
		p, res := add(pa.contact, pa.name)
		if !res.IsValid {
			return fmt.Errorf("participant %q: %s", pa.contact, res.ErrorMessage)
		}
		if pa.amount != "" {
			res, err := svc.SetParticipantAmount(p.ID, pa.amount)
			if err != nil {
				return err
			}
			if !res.IsValid {
				return fmt.Errorf("amount for %q: %s", pa.contact, res.ErrorMessage)
			}
		}
	}

	if len(f.picks) > 0 {
		selections := make([]contacts.Selection, 0, len(f.picks))
		for _, query := range f.picks {
			found, err := a.contacts.Search(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to search contacts: %w", err)
			}
			if len(found) == 0 {
				return fmt.Errorf("no contact matches %q", query)
			}
			sel, ok := contacts.DefaultSelection(found[0])
			if !ok {
				return fmt.Errorf("contact %q has no phone or email", found[0].Name)
			}
			selections = append(selections, sel)
		}
		svc.AddContacts(selections)
	}

	people := f.people
	if people == 0 {
		people = len(a.store.Current().Participants)
		if !f.excludeMe {
			people++
		}
	}
	svc.SetNumberOfPeople(people)

	if res := svc.SetTotalAmount(f.total); !res.IsValid {
		return fmt.Errorf("total: %s", res.ErrorMessage)
	}

	if errs := svc.Proceed(); !errs.Valid() {
		printFormErrors(cmd.ErrOrStderr(), errs)
		return errInvalidForm
	}

	calc := svc.Recalculate()
	split := a.store.Current()
	if calc.Discrepancy != nil && !calc.Discrepancy.Balanced() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: amounts add up to %s, total is %s\n",
			message.FormatAmount(calc.Discrepancy.Calculated, split.Currency),
			message.FormatAmount(calc.Discrepancy.Intended, split.Currency))
	}
	if calc.Preview.YourShare.IsPositive() {
		fmt.Fprintf(cmd.ErrOrStderr(), "your share: %s\n", message.FormatAmount(calc.Preview.YourShare, split.Currency))
	}

	review := a.review.Load()
	for _, p := range review.Split.Participants {
		channel := parseChannel(f.channel)
		if f.channel == "" {
			channel = review.Channels[p.ID][0]
		}
		if err := a.review.ShareToParticipant(ctx, p.ID, channel); err != nil {
			return err
		}
	}

	if f.summary {
		if err := a.review.CopyAll(ctx); err != nil {
			return err
		}
	}

	if f.record {
		item, err := a.review.Finish(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %s (%s)\n", item.ID, item.Title)
	}

	return nil
}

func printFormErrors(w io.Writer, errs service.FormErrors) {
	for _, field := range []struct {
		name    string
		message string
	}{
		{"payment", errs.Payment.ErrorMessage},
		{"total", errs.Total.ErrorMessage},
		{"recipients", errs.Recipients.ErrorMessage},
	} {
		if field.message != "" {
			fmt.Fprintf(w, "%s: %s\n", field.name, field.message)
		}
	}
}
