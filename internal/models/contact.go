package models

import "strings"

// PhoneContact is an entry of the device contact book, as delivered by the
// contact source collaborator.
type PhoneContact struct {
	// ID is the contact-book identifier.
	ID string

	// Name is the contact's display name.
	Name string

	// PhoneNumbers lists every phone number stored for the contact.
	PhoneNumbers []string

	// Emails lists every email address stored for the contact.
	Emails []string

	// AvatarURI is an optional picture reference; empty when absent.
	AvatarURI string
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
