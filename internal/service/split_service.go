// Package service translates user intents into calculator, validator and
// state-store calls. UI layers call these methods and render the snapshots
// the store publishes.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/contacts"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/state"
	"github.com/mmynk/billsplit/internal/validation"
)

var (
	// ErrParticipantNotFound is returned for an ID that is not in the split.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrNothingToShare is returned when a share needs participants and
	// there are none.
	ErrNothingToShare = errors.New("nothing to share")
)

const (
	msgTotalRequired     = "Please enter a valid total amount"
	msgRecipientRequired = "Please add at least one recipient to send the request"
	msgAmountNegative    = "Amount cannot be negative"
)

// FormErrors holds the field-level outcome of Proceed.
type FormErrors struct {
	Payment    validation.Result
	Total      validation.Result
	Recipients validation.Result
}

// Valid reports whether every field passed.
func (f FormErrors) Valid() bool {
	return f.Payment.IsValid && f.Total.IsValid && f.Recipients.IsValid
}

// Calculation is the figure set shown on the create-split form.
type Calculation struct {
	Mode    models.SplitMode
	Preview calculator.Preview
	Result  calculator.SplitResult

	// Discrepancy is set in MANUAL mode only.
	Discrepancy *calculator.Discrepancy
}

// SplitService implements the create-split flow.
type SplitService struct {
	store   *state.Store
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu         sync.Mutex
	totalInput validation.Result
}

// NewSplitService creates a SplitService on top of store. m may be nil.
func NewSplitService(store *state.Store, m *metrics.Metrics, logger *slog.Logger) *SplitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SplitService{
		store:      store,
		metrics:    m,
		logger:     logger,
		totalInput: validation.Valid,
	}
}

// SetCurrency changes the currency and recalculates, since the number of
// decimal places may change.
func (s *SplitService) SetCurrency(code string) {
	s.store.UpdateCurrency(models.CurrencyFromCode(code))
	s.Recalculate()
}

// SetTotalAmount parses raw input. A valid amount is stored and the split is
// recalculated; an invalid one leaves the stored total untouched and the
// result is returned for display.
func (s *SplitService) SetTotalAmount(raw string) validation.Result {
	amount, result := validation.AmountString(raw)

	s.mu.Lock()
	s.totalInput = result
	s.mu.Unlock()

	if !result.IsValid {
		s.metrics.IncrementValidationFailure("total", result.Kind.String())
		return result
	}

	s.store.UpdateTotalAmount(amount)
	s.Recalculate()
	return result
}

// SetPaymentType changes the destination type.
func (s *SplitService) SetPaymentType(paymentType models.PaymentType) {
	s.store.UpdatePaymentType(paymentType)
}

// SetPaymentValue stores the destination as typed. It is validated on
// Proceed.
func (s *SplitService) SetPaymentValue(value string) {
	s.store.UpdatePaymentValue(value)
}

func (s *SplitService) SetSplitMode(mode models.SplitMode) {
	s.store.UpdateSplitMode(mode)
	s.Recalculate()
}

func (s *SplitService) SetNote(note string) {
	s.store.UpdateNote(note)
}

func (s *SplitService) SetNumberOfPeople(n int) {
	s.store.UpdateNumberOfPeople(n)
	s.Recalculate()
}

func (s *SplitService) SetIncludeYourself(include bool) {
	s.store.UpdateIncludeYourself(include)
	s.Recalculate()
}

// AddPhoneParticipant validates phone and adds a manually entered
// participant.
func (s *SplitService) AddPhoneParticipant(phone, name string) (models.Participant, validation.Result) {
	return s.addManual(phone, name, models.ContactPhone)
}

// AddEmailParticipant validates email and adds a manually entered
// participant.
func (s *SplitService) AddEmailParticipant(email, name string) (models.Participant, validation.Result) {
	return s.addManual(email, name, models.ContactEmail)
}

// addManual trims value before validating it, so what is checked is what
// gets stored.
func (s *SplitService) addManual(value, name string, method models.ContactMethod) (models.Participant, validation.Result) {
	value = strings.TrimSpace(value)
	result := validation.Contact(value, method)
	if !result.IsValid {
		s.metrics.IncrementValidationFailure(strings.ToLower(string(method)), result.Kind.String())
		return models.Participant{}, result
	}

	p := models.NewParticipant(strings.TrimSpace(name), value, method)
	s.store.AddParticipant(p)
	s.Recalculate()
	return p, result
}

// AddContacts adds the picked contacts in selection order.
func (s *SplitService) AddContacts(selections []contacts.Selection) []models.Participant {
	if len(selections) == 0 {
		return nil
	}

	added := make([]models.Participant, 0, len(selections))
	for _, sel := range selections {
		added = append(added, contacts.ToParticipant(sel))
	}

	s.store.AddParticipants(added)
	s.Recalculate()
	return added
}

// RemoveParticipant drops a participant and recalculates.
func (s *SplitService) RemoveParticipant(id string) error {
	if _, ok := s.store.Current().Participant(id); !ok {
		return fmt.Errorf("remove %s: %w", id, ErrParticipantNotFound)
	}
	s.store.RemoveParticipant(id)
	s.Recalculate()
	return nil
}

// SetParticipantAmount sets a MANUAL amount from raw input. Blank input
// clears the amount to zero.
func (s *SplitService) SetParticipantAmount(id, raw string) (validation.Result, error) {
	if _, ok := s.store.Current().Participant(id); !ok {
		return validation.Valid, fmt.Errorf("set amount for %s: %w", id, ErrParticipantNotFound)
	}

	amount := decimal.Zero
	if strings.TrimSpace(raw) != "" {
		parsed, result := validation.AmountString(raw)
		if result.Kind == validation.KindNonNumeric {
			s.metrics.IncrementValidationFailure("participant_amount", result.Kind.String())
			return result, nil
		}
		if parsed.IsNegative() {
			result = validation.Result{Kind: validation.KindOutOfRange, ErrorMessage: msgAmountNegative}
			s.metrics.IncrementValidationFailure("participant_amount", result.Kind.String())
			return result, nil
		}
		amount = parsed
	}

	s.store.UpdateParticipantAmount(id, amount)
	s.Recalculate()
	return validation.Valid, nil
}

// Preview returns the per-person figures for the current headcount.
func (s *SplitService) Preview() calculator.Preview {
	split := s.store.Current()
	return calculator.PreviewSplit(split.TotalAmount, split.NumberOfPeople, split.IncludeYourself, split.Currency)
}

// Recalculate refreshes derived amounts. In EQUAL mode with a positive total
// the participants' amounts are replaced with the calculated shares. In
// MANUAL mode amounts are left alone and the sum is reconciled against the
// total.
func (s *SplitService) Recalculate() Calculation {
	var calc Calculation

	s.store.Update("recalculate", func(split models.BillSplit) models.BillSplit {
		calc = calculate(split)
		if calc.Mode == models.SplitEqual && split.TotalAmount.IsPositive() && len(split.Participants) > 0 {
			return split.WithParticipants(calc.Result.Participants)
		}
		return split
	})

	s.metrics.ObserveCalculation(string(calc.Mode), calc.Result.HasRoundingAdjustment)
	s.logger.Debug("split recalculated",
		"mode", calc.Mode,
		"total_calculated", calc.Result.TotalCalculated.String(),
		"adjustment", calc.Result.AdjustmentApplied.String(),
	)
	return calc
}

func calculate(split models.BillSplit) Calculation {
	calc := Calculation{
		Mode:    split.SplitMode,
		Preview: calculator.PreviewSplit(split.TotalAmount, split.NumberOfPeople, split.IncludeYourself, split.Currency),
		Result:  calculator.Calculate(split.TotalAmount, split.Participants, split.SplitMode, split.Currency),
	}
	if split.SplitMode == models.SplitManual {
		d := calculator.Reconcile(split.TotalAmount, calc.Result, split.Currency)
		calc.Discrepancy = &d
	}
	return calc
}

// Proceed validates the form before moving on to review. On success in
// EQUAL mode the final shares are written to the store.
func (s *SplitService) Proceed() FormErrors {
	split := s.store.Current()

	s.mu.Lock()
	totalInput := s.totalInput
	s.mu.Unlock()

	errs := FormErrors{
		Payment:    validation.PaymentDetails(split.PaymentDetails.Value, split.PaymentDetails.Type),
		Total:      validation.Valid,
		Recipients: validation.Valid,
	}

	if total := validation.Amount(split.TotalAmount); !totalInput.IsValid || !total.IsValid {
		kind := total.Kind
		if !totalInput.IsValid {
			kind = totalInput.Kind
		}
		errs.Total = validation.Result{Kind: kind, ErrorMessage: msgTotalRequired}
	}

	preview := calculator.PreviewSplit(split.TotalAmount, split.NumberOfPeople, split.IncludeYourself, split.Currency)
	if preview.RequiredRecipients > 0 && len(split.Participants) == 0 {
		errs.Recipients = validation.Result{Kind: validation.KindEmpty, ErrorMessage: msgRecipientRequired}
	}

	for field, r := range map[string]validation.Result{
		"payment":    errs.Payment,
		"total":      errs.Total,
		"recipients": errs.Recipients,
	} {
		if !r.IsValid {
			s.metrics.IncrementValidationFailure(field, r.Kind.String())
		}
	}

	if !errs.Valid() {
		s.logger.Info("split form rejected",
			"payment", errs.Payment.ErrorMessage,
			"total", errs.Total.ErrorMessage,
			"recipients", errs.Recipients.ErrorMessage,
		)
		return errs
	}

	s.Recalculate()
	return errs
}
