package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/billsplit/internal/message"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/share"
	"github.com/mmynk/billsplit/internal/state"
	"github.com/mmynk/billsplit/internal/storage"
)

// ErrChannelUnavailable is returned when a participant cannot be reached on
// the requested channel.
var ErrChannelUnavailable = errors.New("share channel not available for participant")

// Review is everything the review screen shows.
type Review struct {
	Split models.BillSplit

	// Messages and Channels are keyed by participant ID.
	Messages map[string]string
	Channels map[string][]models.ShareChannel
}

// ReviewService implements the review-and-share flow.
type ReviewService struct {
	store      *state.Store
	dispatcher share.Dispatcher
	presence   share.AppPresence
	history    storage.HistoryStore
	opts       message.Options
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.Mutex
	shared []models.SharedParticipant
}

// ReviewOption configures a ReviewService.
type ReviewOption func(*ReviewService)

// WithHistory records finished splits in h.
func WithHistory(h storage.HistoryStore) ReviewOption {
	return func(s *ReviewService) { s.history = h }
}

// WithMessageOptions sets greeting and footer for per-participant messages.
func WithMessageOptions(opts message.Options) ReviewOption {
	return func(s *ReviewService) { s.opts = opts }
}

// WithReviewLogger sets the logger.
func WithReviewLogger(logger *slog.Logger) ReviewOption {
	return func(s *ReviewService) { s.logger = logger }
}

// NewReviewService creates a ReviewService. presence may be nil, in which
// case no messenger apps are offered.
func NewReviewService(store *state.Store, dispatcher share.Dispatcher, presence share.AppPresence, opts ...ReviewOption) *ReviewService {
	s := &ReviewService{
		store:      store,
		dispatcher: dispatcher,
		presence:   presence,
		opts:       message.DefaultOptions,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presence == nil {
		s.presence = share.StaticPresence{}
	}
	return s
}

// Load renders messages and channel choices for the current split.
func (s *ReviewService) Load() Review {
	split := s.store.Current()

	channels := make(map[string][]models.ShareChannel, len(split.Participants))
	for _, p := range split.Participants {
		channels[p.ID] = share.AvailableChannels(p, s.presence)
	}

	return Review{
		Split:    split,
		Messages: message.ForSplit(split, s.opts),
		Channels: channels,
	}
}

// ShareToParticipant sends one participant their message on channel.
func (s *ReviewService) ShareToParticipant(ctx context.Context, participantID string, channel models.ShareChannel) error {
	split := s.store.Current()

	p, ok := split.Participant(participantID)
	if !ok {
		return fmt.Errorf("share to %s: %w", participantID, ErrParticipantNotFound)
	}
	if !share.Supports(p, s.presence, channel) {
		return fmt.Errorf("share to %s via %s: %w", participantID, channel, ErrChannelUnavailable)
	}

	req := share.Request{
		ParticipantID: p.ID,
		Message:       message.Full(p, split.PaymentDetails, split.Currency, split.Note, s.opts),
		Channel:       channel,
	}
	if direct(channel) {
		req.Destination = p.ContactValue
	}

	if err := s.dispatcher.Dispatch(middleware.WithSplitID(ctx, split.ID), req); err != nil {
		return fmt.Errorf("failed to share with %s: %w", p.DisplayName(), err)
	}

	s.record(models.SharedParticipant{Participant: p, Channel: channel, SharedAt: s.now()})
	return nil
}

// ShareAll hands the combined digest to the share sheet.
func (s *ReviewService) ShareAll(ctx context.Context) error {
	return s.shareCombined(ctx, models.ChannelShareSheet)
}

// CopyAll puts the combined digest on the clipboard.
func (s *ReviewService) CopyAll(ctx context.Context) error {
	return s.shareCombined(ctx, models.ChannelCopy)
}

func (s *ReviewService) shareCombined(ctx context.Context, channel models.ShareChannel) error {
	split := s.store.Current()
	if len(split.Participants) == 0 {
		return ErrNothingToShare
	}

	req := share.Request{
		Message: message.Combined(split.Participants, split.PaymentDetails, split.Currency, split.TotalAmount, split.Note),
		Channel: channel,
	}
	if err := s.dispatcher.Dispatch(middleware.WithSplitID(ctx, split.ID), req); err != nil {
		return fmt.Errorf("failed to share summary: %w", err)
	}
	return nil
}

// ShareGroup sends the combined digest, restricted to participants reached
// by method, to all of them at once: one SMS to every phone number or one
// email to every address.
func (s *ReviewService) ShareGroup(ctx context.Context, method models.ContactMethod) error {
	split := s.store.Current()

	var recipients []models.Participant
	var destinations []string
	for _, p := range split.Participants {
		if p.ContactMethod == method {
			recipients = append(recipients, p)
			destinations = append(destinations, p.ContactValue)
		}
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no %s recipients: %w", strings.ToLower(string(method)), ErrNothingToShare)
	}

	channel := models.ChannelSMS
	separator := ";"
	if method == models.ContactEmail {
		channel = models.ChannelEmail
		separator = ","
	}

	req := share.Request{
		Message:     message.CombinedFor(method, split.Participants, split.PaymentDetails, split.Currency, split.TotalAmount, split.Note),
		Destination: strings.Join(destinations, separator),
		Channel:     channel,
	}
	if err := s.dispatcher.Dispatch(middleware.WithSplitID(ctx, split.ID), req); err != nil {
		return fmt.Errorf("failed to share with %s recipients: %w", strings.ToLower(string(method)), err)
	}

	at := s.now()
	for _, p := range recipients {
		s.record(models.SharedParticipant{Participant: p, Channel: channel, SharedAt: at})
	}
	return nil
}

// Finish closes the flow. When a history store is configured the split and
// the shares made are saved first; if saving fails the split is kept so the
// caller can retry. On success the store is reset to a fresh split.
func (s *ReviewService) Finish(ctx context.Context) (*models.HistoryItem, error) {
	split := s.store.Current()

	s.mu.Lock()
	shared := append([]models.SharedParticipant(nil), s.shared...)
	s.mu.Unlock()

	var item *models.HistoryItem
	if s.history != nil {
		item = &models.HistoryItem{Split: split, SharedAt: s.now(), SharedTo: shared}
		if err := s.history.SaveHistory(ctx, item); err != nil {
			s.logger.Warn("failed to record split history", "split_id", split.ID, "error", err)
			return nil, fmt.Errorf("failed to record history: %w", err)
		}
	}

	s.mu.Lock()
	s.shared = nil
	s.mu.Unlock()

	s.store.Reset()
	s.logger.Info("split finished",
		"split_id", split.ID,
		"participants", len(split.Participants),
		"shares", len(shared),
	)
	return item, nil
}

// Shared returns the shares made since the flow started.
func (s *ReviewService) Shared() []models.SharedParticipant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SharedParticipant(nil), s.shared...)
}

func (s *ReviewService) record(sp models.SharedParticipant) {
	s.mu.Lock()
	s.shared = append(s.shared, sp)
	s.mu.Unlock()
}

// direct reports whether channel addresses the participant's contact value.
func direct(channel models.ShareChannel) bool {
	switch channel {
	case models.ChannelSMS, models.ChannelEmail, models.ChannelWhatsApp, models.ChannelViber:
		return true
	}
	return false
}
