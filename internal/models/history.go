package models

import "time"

// HistoryItem records a split after it has been shared.
type HistoryItem struct {
	// ID is the unique identifier for the history entry (UUID format).
	ID string

	// Title is a short label such as "Split with Alice, Bob". Generated
	// from the participants when empty.
	Title string

	// Split is the snapshot that was shared.
	Split BillSplit

	// SharedAt is when the split flow was finished.
	SharedAt time.Time

	// SharedTo lists every request sent, in the order they were sent.
	SharedTo []SharedParticipant
}

// SharedParticipant records one payment request delivered to a participant.
type SharedParticipant struct {
	// Participant is the recipient as it was at share time.
	Participant Participant

	// Channel is how the request was delivered.
	Channel ShareChannel

	// SharedAt is when the request was handed to the dispatcher.
	SharedAt time.Time
}
