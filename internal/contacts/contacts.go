// Package contacts adapts a device contact book into split participants.
package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mmynk/billsplit/internal/models"
)

// Source provides contact-book entries.
type Source interface {
	// List returns every contact that has at least one phone number or email.
	List(ctx context.Context) ([]models.PhoneContact, error)

	// Search returns the contacts matching query. A blank query lists all.
	Search(ctx context.Context, query string) ([]models.PhoneContact, error)
}

// Selection is the contact detail chosen for one picked contact.
type Selection struct {
	Contact models.PhoneContact
	Value   string
	Method  models.ContactMethod
}

// Filter returns the contacts matching query. Names and emails match
// case-insensitively; phone numbers match on the raw query.
func Filter(all []models.PhoneContact, query string) []models.PhoneContact {
	if strings.TrimSpace(query) == "" {
		return append([]models.PhoneContact(nil), all...)
	}

	lower := strings.ToLower(query)
	out := make([]models.PhoneContact, 0, len(all))
	for _, c := range all {
		if matches(c, query, lower) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c models.PhoneContact, raw, lower string) bool {
	if strings.Contains(strings.ToLower(c.Name), lower) {
		return true
	}
	for _, phone := range c.PhoneNumbers {
		if strings.Contains(phone, raw) {
			return true
		}
	}
	for _, email := range c.Emails {
		if strings.Contains(strings.ToLower(email), lower) {
			return true
		}
	}
	return false
}

// DefaultSelection picks the first phone number, or the first email when the
// contact has no phone. ok is false for a contact with neither.
func DefaultSelection(c models.PhoneContact) (sel Selection, ok bool) {
	switch {
	case len(c.PhoneNumbers) > 0:
		return Selection{Contact: c, Value: c.PhoneNumbers[0], Method: models.ContactPhone}, true
	case len(c.Emails) > 0:
		return Selection{Contact: c, Value: c.Emails[0], Method: models.ContactEmail}, true
	default:
		return Selection{}, false
	}
}

// ToParticipant builds the participant for a picked contact.
func ToParticipant(sel Selection) models.Participant {
	p := models.NewParticipant(sel.Contact.Name, sel.Value, sel.Method)
	p.AvatarURI = sel.Contact.AvatarURI
	p.IsFromContacts = true
	return p
}

// StaticSource serves a fixed, in-memory contact list.
type StaticSource struct {
	mu       sync.RWMutex
	contacts []models.PhoneContact
}

// NewStaticSource returns a source over contacts. Entries without any phone
// number or email are dropped.
func NewStaticSource(contacts ...models.PhoneContact) *StaticSource {
	s := &StaticSource{}
	s.Replace(contacts)
	return s
}

// Replace swaps the served contact list.
func (s *StaticSource) Replace(contacts []models.PhoneContact) {
	reachable := make([]models.PhoneContact, 0, len(contacts))
	for _, c := range contacts {
		if len(c.PhoneNumbers) > 0 || len(c.Emails) > 0 {
			reachable = append(reachable, c)
		}
	}

	s.mu.Lock()
	s.contacts = reachable
	s.mu.Unlock()
}

func (s *StaticSource) List(ctx context.Context) ([]models.PhoneContact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PhoneContact(nil), s.contacts...), nil
}

func (s *StaticSource) Search(ctx context.Context, query string) ([]models.PhoneContact, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, query), nil
}

// ReadJSON decodes a contact list exported as a JSON array of objects with
// id, name, phoneNumbers, emails and avatarUri.
func ReadJSON(r io.Reader) ([]models.PhoneContact, error) {
	var raw []struct {
		ID           string   `json:"id"`
		Name         string   `json:"name"`
		PhoneNumbers []string `json:"phoneNumbers"`
		Emails       []string `json:"emails"`
		AvatarURI    string   `json:"avatarUri"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}

	out := make([]models.PhoneContact, 0, len(raw))
	for _, c := range raw {
		out = append(out, models.PhoneContact{
			ID:           c.ID,
			Name:         c.Name,
			PhoneNumbers: c.PhoneNumbers,
			Emails:       c.Emails,
			AvatarURI:    c.AvatarURI,
		})
	}
	return out, nil
}
