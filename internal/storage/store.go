// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrSplitNotFound is returned when no history entry has the requested ID.
var ErrSplitNotFound = errors.New("split not found")

// HistoryStore defines the interface for share-history operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type HistoryStore interface {
	// SaveHistory persists a finished split. item.ID, item.Title and
	// item.SharedAt are populated by the store when empty.
	SaveHistory(ctx context.Context, item *models.HistoryItem) error

	// GetHistory retrieves an entry by its ID.
	// Returns an error wrapping ErrSplitNotFound if there is none.
	GetHistory(ctx context.Context, id string) (*models.HistoryItem, error)

	// ListHistory returns the most recently shared entries first.
	// A limit of zero or less returns everything.
	ListHistory(ctx context.Context, limit int) ([]*models.HistoryItem, error)

	// DeleteHistory removes an entry.
	// Returns an error wrapping ErrSplitNotFound if there is none.
	DeleteHistory(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
