package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// SplitResult is the output of a split calculation. It is not persisted.
type SplitResult struct {
	// Participants in input order with Amount populated.
	Participants []models.Participant

	// TotalCalculated is the rounded total in EQUAL mode, or the sum of the
	// given amounts in MANUAL mode.
	TotalCalculated decimal.Decimal

	// AdjustmentApplied is the remainder added to the first participant.
	AdjustmentApplied decimal.Decimal

	// HasRoundingAdjustment is true when AdjustmentApplied is non-zero.
	HasRoundingAdjustment bool
}

// Calculate computes each participant's share of total.
//
// EQUAL mode rounds total half-up to the currency's decimal places, divides
// it by the participant count truncating toward zero, and gives the whole
// remainder to the participant at index 0. The amounts therefore always sum
// to the rounded total exactly.
//
// MANUAL mode keeps the amounts already set on the participants and only sums
// them; comparing the sum against the intended total is left to the caller
// (see Reconcile).
//
// The input slice is never modified.
func Calculate(total decimal.Decimal, participants []models.Participant, mode models.SplitMode, currency models.Currency) SplitResult {
	if len(participants) == 0 {
		return SplitResult{
			Participants:      []models.Participant{},
			TotalCalculated:   decimal.Zero,
			AdjustmentApplied: decimal.Zero,
		}
	}

	if mode == models.SplitManual {
		return calculateManual(participants)
	}
	return calculateEqual(total, participants, currency.DecimalPlaces)
}

func calculateEqual(total decimal.Decimal, participants []models.Participant, places int32) SplitResult {
	rounded := total.Round(places)
	count := decimal.NewFromInt(int64(len(participants)))

	// QuoRem truncates the quotient toward zero at the given precision and
	// returns the exact remainder: rounded == base*count + remainder.
	base, remainder := rounded.QuoRem(count, places)

	out := make([]models.Participant, len(participants))
	for i, p := range participants {
		amount := base
		if i == 0 {
			amount = base.Add(remainder)
		}
		out[i] = p.WithAmount(amount)
	}

	return SplitResult{
		Participants:          out,
		TotalCalculated:       rounded,
		AdjustmentApplied:     remainder,
		HasRoundingAdjustment: !remainder.IsZero(),
	}
}

func calculateManual(participants []models.Participant) SplitResult {
	out := make([]models.Participant, len(participants))
	copy(out, participants)

	return SplitResult{
		Participants:      out,
		TotalCalculated:   Sum(out),
		AdjustmentApplied: decimal.Zero,
	}
}

// Sum returns the sum of the participants' amounts.
func Sum(participants []models.Participant) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range participants {
		sum = sum.Add(p.Amount)
	}
	return sum
}
