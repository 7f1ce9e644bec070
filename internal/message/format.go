package message

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// FormatMoney renders amount with exactly currency.DecimalPlaces fraction
// digits and comma thousands separators, e.g. 1234.5 -> "1,234.50".
// Amounts are rounded half-up to the currency's precision first.
func FormatMoney(amount decimal.Decimal, currency models.Currency) string {
	fixed := amount.StringFixed(currency.DecimalPlaces)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i:]
	}
	return sign + groupThousands(intPart) + frac
}

// FormatAmount renders "<money> <symbol>", the form used in per-participant
// messages.
func FormatAmount(amount decimal.Decimal, currency models.Currency) string {
	return FormatMoney(amount, currency) + " " + currency.Symbol
}

// formatTotal renders "<symbol><money>". The combined summary puts the
// symbol first for the bill total only.
func formatTotal(amount decimal.Decimal, currency models.Currency) string {
	return currency.Symbol + FormatMoney(amount, currency)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
