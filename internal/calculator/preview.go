package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// Preview is the per-head figure shown while the user is still configuring
// the split, before any participant has been added.
type Preview struct {
	PerPerson          decimal.Decimal
	YourShare          decimal.Decimal // zero when the user is not part of the split
	RequiredRecipients int             // people who must receive a request
}

// PreviewSplit computes the per-person amount for a headcount.
//
// Algorithm:
// - total is rounded half-up to the currency's decimal places
// - per person = rounded / people, truncated toward zero
// - the user's own share is the per-person amount when included, else zero
// - required recipients = people, minus one when the user is included
func PreviewSplit(total decimal.Decimal, numberOfPeople int, includeYourself bool, currency models.Currency) Preview {
	if numberOfPeople < 1 {
		return Preview{PerPerson: decimal.Zero, YourShare: decimal.Zero}
	}

	rounded := total.Round(currency.DecimalPlaces)
	perPerson, _ := rounded.QuoRem(decimal.NewFromInt(int64(numberOfPeople)), currency.DecimalPlaces)

	p := Preview{
		PerPerson:          perPerson,
		YourShare:          decimal.Zero,
		RequiredRecipients: numberOfPeople,
	}
	if includeYourself {
		p.YourShare = perPerson
		p.RequiredRecipients = numberOfPeople - 1
	}
	return p
}

// Discrepancy compares a MANUAL split's sum with the intended total.
type Discrepancy struct {
	Intended   decimal.Decimal
	Calculated decimal.Decimal

	// Difference is Intended - Calculated. Positive means amounts are
	// still missing; negative means participants were asked for too much.
	Difference decimal.Decimal
}

// Balanced reports whether the amounts add up to the intended total.
func (d Discrepancy) Balanced() bool {
	return d.Difference.IsZero()
}

// Reconcile compares result against the intended total, both rounded to the
// currency's decimal places. It never changes any amount.
func Reconcile(intended decimal.Decimal, result SplitResult, currency models.Currency) Discrepancy {
	want := intended.Round(currency.DecimalPlaces)
	got := result.TotalCalculated.Round(currency.DecimalPlaces)
	return Discrepancy{
		Intended:   want,
		Calculated: got,
		Difference: want.Sub(got),
	}
}
