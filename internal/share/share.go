// Package share hands finished messages to an outbound channel.
//
// The core never talks to a messaging app itself. A Dispatcher receives a
// fully rendered message plus its destination and channel, and the host
// decides what delivery means (an intent, a clipboard, a terminal).
package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrUnknownChannel is returned for a channel outside the closed set.
var ErrUnknownChannel = errors.New("unknown share channel")

// Request is one outbound message.
type Request struct {
	// ParticipantID is empty for messages addressed to the whole group.
	ParticipantID string

	// Message is the rendered text.
	Message string

	// Destination is the phone number or email, empty for share-sheet and
	// clipboard delivery of a combined digest.
	Destination string

	Channel models.ShareChannel
}

// Dispatcher delivers a Request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, req Request) error

func (f DispatcherFunc) Dispatch(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// AppPresence reports whether the app behind a channel is available.
type AppPresence interface {
	Installed(channel models.ShareChannel) bool
}

// StaticPresence is an AppPresence with fixed answers. Channels that need no
// third-party app are always reported as installed.
type StaticPresence struct {
	WhatsApp bool
	Viber    bool
}

func (p StaticPresence) Installed(channel models.ShareChannel) bool {
	switch channel {
	case models.ChannelWhatsApp:
		return p.WhatsApp
	case models.ChannelViber:
		return p.Viber
	default:
		return true
	}
}

// AvailableChannels lists the channels usable for p, in display order.
// Phone participants get SMS and any installed messengers; email
// participants get EMAIL. Everyone gets the share sheet and copy.
func AvailableChannels(p models.Participant, presence AppPresence) []models.ShareChannel {
	channels := make([]models.ShareChannel, 0, 5)

	switch p.ContactMethod {
	case models.ContactPhone:
		channels = append(channels, models.ChannelSMS)
		for _, messenger := range []models.ShareChannel{models.ChannelWhatsApp, models.ChannelViber} {
			if presence != nil && presence.Installed(messenger) {
				channels = append(channels, messenger)
			}
		}
	case models.ContactEmail:
		channels = append(channels, models.ChannelEmail)
	}

	return append(channels, models.ChannelShareSheet, models.ChannelCopy)
}

// Supports reports whether channel is one of the channels available for p.
func Supports(p models.Participant, presence AppPresence, channel models.ShareChannel) bool {
	for _, c := range AvailableChannels(p, presence) {
		if c == channel {
			return true
		}
	}
	return false
}

// WriterDispatcher prints each request to an io.Writer.
type WriterDispatcher struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterDispatcher returns a dispatcher writing to w.
func NewWriterDispatcher(w io.Writer) *WriterDispatcher {
	return &WriterDispatcher{w: w}
}

func (d *WriterDispatcher) Dispatch(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !known(req.Channel) {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, req.Channel)
	}

	header := "── " + string(req.Channel)
	if req.Destination != "" {
		header += " → " + req.Destination
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := fmt.Fprintf(d.w, "%s\n%s\n\n", header, req.Message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func known(channel models.ShareChannel) bool {
	switch channel {
	case models.ChannelWhatsApp, models.ChannelViber, models.ChannelSMS,
		models.ChannelEmail, models.ChannelShareSheet, models.ChannelCopy:
		return true
	}
	return false
}
