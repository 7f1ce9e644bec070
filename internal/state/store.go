// Package state holds the single in-progress BillSplit shared by every screen.
//
// Store is a single-writer broadcast register. Each mutation swaps in a new
// immutable BillSplit and publishes it to all subscribers. Readers only ever
// see fully constructed values.
package state

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/models"
)

// Snapshot is one published value of the split. Version increases by one
// with every mutation.
type Snapshot struct {
	Version uint64
	Split   models.BillSplit
}

// Store owns the live BillSplit for one split-creation flow.
type Store struct {
	mu      sync.Mutex
	current Snapshot
	subs    map[uint64]*Subscription
	nextSub uint64

	newSplit func() models.BillSplit
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics records mutations and subscriber counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithDefaults replaces the factory used for the initial value and on Reset.
func WithDefaults(newSplit func() models.BillSplit) Option {
	return func(s *Store) { s.newSplit = newSplit }
}

// New creates a store holding a fresh default split.
func New(opts ...Option) *Store {
	s := &Store{
		subs:     make(map[uint64]*Subscription),
		newSplit: models.NewBillSplit,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = Snapshot{Version: 1, Split: s.newSplit()}
	return s
}

// Current returns the latest split. The returned value is a copy; nothing
// the store does later will change it.
func (s *Store) Current() models.BillSplit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Split.Clone()
}

// Snapshot returns the latest split together with its version.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Version: s.current.Version, Split: s.current.Split.Clone()}
}

// UpdateCurrency sets the split currency.
func (s *Store) UpdateCurrency(currency models.Currency) {
	s.apply("update_currency", func(b models.BillSplit) models.BillSplit {
		return b.WithCurrency(currency)
	})
}

// UpdateTotalAmount sets the bill total.
func (s *Store) UpdateTotalAmount(total decimal.Decimal) {
	s.apply("update_total_amount", func(b models.BillSplit) models.BillSplit {
		return b.WithTotalAmount(total)
	})
}

// UpdatePaymentDetails replaces the payment destination.
func (s *Store) UpdatePaymentDetails(details models.PaymentDetails) {
	s.apply("update_payment_details", func(b models.BillSplit) models.BillSplit {
		return b.WithPaymentDetails(details)
	})
}

// UpdatePaymentType changes the destination type, keeping the value.
func (s *Store) UpdatePaymentType(paymentType models.PaymentType) {
	s.apply("update_payment_type", func(b models.BillSplit) models.BillSplit {
		details := b.PaymentDetails
		details.Type = paymentType
		return b.WithPaymentDetails(details)
	})
}

// UpdatePaymentValue changes the destination value, keeping the type.
func (s *Store) UpdatePaymentValue(value string) {
	s.apply("update_payment_value", func(b models.BillSplit) models.BillSplit {
		details := b.PaymentDetails
		details.Value = value
		return b.WithPaymentDetails(details)
	})
}

// UpdateSplitMode switches between EQUAL and MANUAL.
func (s *Store) UpdateSplitMode(mode models.SplitMode) {
	s.apply("update_split_mode", func(b models.BillSplit) models.BillSplit {
		return b.WithSplitMode(mode)
	})
}

// UpdateNote replaces the note.
func (s *Store) UpdateNote(note string) {
	s.apply("update_note", func(b models.BillSplit) models.BillSplit {
		return b.WithNote(note)
	})
}

// UpdateNumberOfPeople sets the headcount (minimum 1).
func (s *Store) UpdateNumberOfPeople(n int) {
	s.apply("update_number_of_people", func(b models.BillSplit) models.BillSplit {
		return b.WithNumberOfPeople(n)
	})
}

// UpdateIncludeYourself sets whether the user pays a share.
func (s *Store) UpdateIncludeYourself(include bool) {
	s.apply("update_include_yourself", func(b models.BillSplit) models.BillSplit {
		return b.WithIncludeYourself(include)
	})
}

// AddParticipant appends p to the end of the participant list.
func (s *Store) AddParticipant(p models.Participant) {
	s.apply("add_participant", func(b models.BillSplit) models.BillSplit {
		return b.WithParticipants(append(b.Participants, p))
	})
}

// AddParticipants appends ps, in order, to the end of the participant list.
func (s *Store) AddParticipants(ps []models.Participant) {
	s.apply("add_participants", func(b models.BillSplit) models.BillSplit {
		return b.WithParticipants(append(b.Participants, ps...))
	})
}

// RemoveParticipant drops the participant with the given ID. Unknown IDs
// leave the list unchanged.
func (s *Store) RemoveParticipant(id string) {
	s.apply("remove_participant", func(b models.BillSplit) models.BillSplit {
		kept := make([]models.Participant, 0, len(b.Participants))
		for _, p := range b.Participants {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		return b.WithParticipants(kept)
	})
}

// UpdateParticipant replaces the participant whose ID matches p.ID.
func (s *Store) UpdateParticipant(p models.Participant) {
	s.apply("update_participant", func(b models.BillSplit) models.BillSplit {
		return b.WithParticipants(replace(b.Participants, p.ID, func(models.Participant) models.Participant {
			return p
		}))
	})
}

// UpdateParticipantAmount sets one participant's amount.
func (s *Store) UpdateParticipantAmount(id string, amount decimal.Decimal) {
	s.apply("update_participant_amount", func(b models.BillSplit) models.BillSplit {
		return b.WithParticipants(replace(b.Participants, id, func(old models.Participant) models.Participant {
			return old.WithAmount(amount)
		}))
	})
}

// UpdateParticipants replaces the whole participant list.
func (s *Store) UpdateParticipants(ps []models.Participant) {
	s.apply("update_participants", func(b models.BillSplit) models.BillSplit {
		return b.WithParticipants(ps)
	})
}

// Reset discards the split and starts over with defaults.
func (s *Store) Reset() {
	s.apply("reset", func(models.BillSplit) models.BillSplit {
		return s.newSplit()
	})
}

// Update applies fn as one atomic mutation named op. fn sees the latest
// value and must return a new one without modifying its argument; it must
// not call back into the store.
func (s *Store) Update(op string, fn func(models.BillSplit) models.BillSplit) {
	s.apply(op, fn)
}

// apply runs one mutation as a single replace-whole-value step and
// publishes the result. fn must not modify its argument.
func (s *Store) apply(op string, fn func(models.BillSplit) models.BillSplit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Snapshot{Version: s.current.Version + 1, Split: fn(s.current.Split)}
	s.current = next
	for _, sub := range s.subs {
		sub.offer(next)
	}

	s.metrics.IncrementStoreMutation(op)
	s.logger.Debug("split state updated",
		"op", op,
		"version", next.Version,
		"participants", len(next.Split.Participants),
		"subscribers", len(s.subs),
	)
}

// replace returns a copy of ps where the participant with id is passed
// through fn.
func replace(ps []models.Participant, id string, fn func(models.Participant) models.Participant) []models.Participant {
	out := make([]models.Participant, len(ps))
	for i, p := range ps {
		if p.ID == id {
			p = fn(p)
		}
		out[i] = p
	}
	return out
}
