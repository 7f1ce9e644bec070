package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType is the kind of payment destination.
type PaymentType string

const (
	PaymentIBAN PaymentType = "IBAN"
	PaymentCard PaymentType = "CARD"
)

// Label returns the name shown to message recipients ("IBAN" or "Card").
func (t PaymentType) Label() string {
	if t == PaymentCard {
		return "Card"
	}
	return "IBAN"
}

// ContactMethod is how a participant is reached.
type ContactMethod string

const (
	ContactPhone ContactMethod = "PHONE"
	ContactEmail ContactMethod = "EMAIL"
)

// SplitMode selects how the total is divided.
type SplitMode string

const (
	// SplitEqual divides the total evenly; the rounding remainder goes to
	// the first participant in the list.
	SplitEqual SplitMode = "EQUAL"

	// SplitManual keeps the amounts entered by the user.
	SplitManual SplitMode = "MANUAL"
)

// ShareChannel is a delivery mechanism for a rendered payment request.
type ShareChannel string

const (
	ChannelWhatsApp   ShareChannel = "WHATSAPP"
	ChannelViber      ShareChannel = "VIBER"
	ChannelSMS        ShareChannel = "SMS"
	ChannelEmail      ShareChannel = "EMAIL"
	ChannelShareSheet ShareChannel = "SHARE_SHEET"
	ChannelCopy       ShareChannel = "COPY"
)

// PaymentDetails is the destination participants are asked to pay into.
type PaymentDetails struct {
	// Type is IBAN or CARD.
	Type PaymentType

	// Value is the raw destination as entered. Syntax is validated
	// separately and the value is never normalized here.
	Value string
}

// Participant is one person a share of the bill is requested from.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// Name is the display name. May be blank for manually entered contacts.
	Name string

	// ContactValue is the phone number or email address.
	ContactValue string

	// ContactMethod says whether ContactValue is a phone number or an email.
	ContactMethod ContactMethod

	// Amount is this participant's share. Zero while unconfigured.
	Amount decimal.Decimal

	// AvatarURI is an optional picture reference; empty when absent.
	AvatarURI string

	// IsFromContacts records that the participant was picked from the
	// device contact book rather than typed in.
	IsFromContacts bool

	// IsYourself marks the participant representing the user.
	IsYourself bool
}

// NewParticipant creates a participant with a fresh ID and a zero amount.
func NewParticipant(name, contactValue string, method ContactMethod) Participant {
	return Participant{
		ID:            uuid.New().String(),
		Name:          name,
		ContactValue:  contactValue,
		ContactMethod: method,
		Amount:        decimal.Zero,
	}
}

// DisplayName returns Name, or ContactValue when the name is blank.
func (p Participant) DisplayName() string {
	if isBlank(p.Name) {
		return p.ContactValue
	}
	return p.Name
}

// WithAmount returns a copy of p with Amount replaced.
func (p Participant) WithAmount(amount decimal.Decimal) Participant {
	p.Amount = amount
	return p
}

// BillSplit is the complete state of one split being built.
//
// BillSplit is a value type: every With* helper returns a new value and
// never writes to the receiver or to its participant slice.
type BillSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// Currency of TotalAmount and every participant amount.
	Currency Currency

	// TotalAmount is the bill total, never negative.
	TotalAmount decimal.Decimal

	// PaymentDetails is where participants should pay.
	PaymentDetails PaymentDetails

	// Participants in insertion order. Order matters: in EQUAL mode the
	// participant at index 0 absorbs the rounding remainder.
	Participants []Participant

	// SplitMode is EQUAL or MANUAL.
	SplitMode SplitMode

	// Note is an optional free-text note added to messages.
	Note string

	// CreatedAt is when the split flow began.
	CreatedAt time.Time

	// IncludeYourself says whether the user pays a share too.
	IncludeYourself bool

	// NumberOfPeople is the total headcount, including the user when
	// IncludeYourself is set. Always at least 1.
	NumberOfPeople int
}

// NewBillSplit returns a split with the defaults used when a new flow begins.
func NewBillSplit() BillSplit {
	return BillSplit{
		ID:              uuid.New().String(),
		Currency:        currencies[DefaultCurrency],
		TotalAmount:     decimal.Zero,
		PaymentDetails:  PaymentDetails{Type: PaymentIBAN},
		SplitMode:       SplitEqual,
		CreatedAt:       time.Now(),
		IncludeYourself: true,
		NumberOfPeople:  2,
	}
}

// Clone returns a deep copy of s.
func (s BillSplit) Clone() BillSplit {
	s.Participants = cloneParticipants(s.Participants)
	return s
}

// WithCurrency returns a copy of s using currency.
func (s BillSplit) WithCurrency(currency Currency) BillSplit {
	out := s.Clone()
	out.Currency = currency
	return out
}

// WithTotalAmount returns a copy of s with the given total.
func (s BillSplit) WithTotalAmount(total decimal.Decimal) BillSplit {
	out := s.Clone()
	out.TotalAmount = total
	return out
}

// WithPaymentDetails returns a copy of s with details replaced.
func (s BillSplit) WithPaymentDetails(details PaymentDetails) BillSplit {
	out := s.Clone()
	out.PaymentDetails = details
	return out
}

// WithSplitMode returns a copy of s using mode.
func (s BillSplit) WithSplitMode(mode SplitMode) BillSplit {
	out := s.Clone()
	out.SplitMode = mode
	return out
}

// WithNote returns a copy of s with note replaced.
func (s BillSplit) WithNote(note string) BillSplit {
	out := s.Clone()
	out.Note = note
	return out
}

// WithNumberOfPeople returns a copy of s with the headcount replaced.
// Counts below 1 are raised to 1.
func (s BillSplit) WithNumberOfPeople(n int) BillSplit {
	if n < 1 {
		n = 1
	}
	out := s.Clone()
	out.NumberOfPeople = n
	return out
}

// WithIncludeYourself returns a copy of s with the flag replaced.
func (s BillSplit) WithIncludeYourself(include bool) BillSplit {
	out := s.Clone()
	out.IncludeYourself = include
	return out
}

// WithParticipants returns a copy of s whose participant list is a copy of
// participants.
func (s BillSplit) WithParticipants(participants []Participant) BillSplit {
	out := s
	out.Participants = cloneParticipants(participants)
	return out
}

// Participant returns the participant with the given ID.
func (s BillSplit) Participant(id string) (Participant, bool) {
	for _, p := range s.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

func cloneParticipants(in []Participant) []Participant {
	if in == nil {
		return nil
	}
	out := make([]Participant, len(in))
	copy(out, in)
	return out
}
