package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

// SaveHistory persists a finished split with its participants and shares.
func (s *SQLiteStore) SaveHistory(ctx context.Context, item *models.HistoryItem) error {
	// Generate fields if not set
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.SharedAt.IsZero() {
		item.SharedAt = time.Now()
	}
	if item.Title == "" {
		names := make([]string, 0, len(item.Split.Participants))
		for _, p := range item.Split.Participants {
			names = append(names, p.DisplayName())
		}
		item.Title = generateTitle(names)
	}

	split := item.Split
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var note interface{} = nil
	if split.Note != "" {
		note = split.Note
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (id, title, split_id, currency, total, payment_type, payment_value,
		 split_mode, note, include_yourself, number_of_people, created_at, shared_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, split.ID, string(split.Currency.Code), split.TotalAmount.String(),
		string(split.PaymentDetails.Type), split.PaymentDetails.Value, string(split.SplitMode),
		note, split.IncludeYourself, split.NumberOfPeople,
		split.CreatedAt.UnixMilli(), item.SharedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}

	for i, p := range split.Participants {
		var avatar interface{} = nil
		if p.AvatarURI != "" {
			avatar = p.AvatarURI
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO history_participants (history_id, position, id, name, contact_value,
			 contact_method, amount, avatar_uri, is_from_contacts, is_yourself)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, i, p.ID, p.Name, p.ContactValue, string(p.ContactMethod),
			p.Amount.String(), avatar, p.IsFromContacts, p.IsYourself,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, shared := range item.SharedTo {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO history_shares (history_id, position, participant_id, channel, shared_at)
			 VALUES (?, ?, ?, ?, ?)`,
			item.ID, i, shared.Participant.ID, string(shared.Channel), shared.SharedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetHistory retrieves a history entry by ID, including participants and
// shares.
func (s *SQLiteStore) GetHistory(ctx context.Context, id string) (*models.HistoryItem, error) {
	item, err := scanHistory(s.db.QueryRowContext(ctx, selectHistory+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history %s: %w", id, storage.ErrSplitNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	if err := s.loadChildren(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListHistory returns entries newest first.
func (s *SQLiteStore) ListHistory(ctx context.Context, limit int) ([]*models.HistoryItem, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		selectHistory+" ORDER BY shared_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	var items []*models.HistoryItem
	for rows.Next() {
		item, err := scanHistory(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	// Children are loaded after the cursor is closed; the pool has a
	// single connection.
	for _, item := range items {
		if err := s.loadChildren(ctx, item); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// DeleteHistory removes an entry. Participants and shares cascade.
func (s *SQLiteStore) DeleteHistory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("history %s: %w", id, storage.ErrSplitNotFound)
	}

	return nil
}

const selectHistory = `SELECT id, title, split_id, currency, total, payment_type, payment_value,
	split_mode, note, include_yourself, number_of_people, created_at, shared_at FROM history`

type scanner interface {
	Scan(dest ...any) error
}

func scanHistory(row scanner) (*models.HistoryItem, error) {
	var (
		item                models.HistoryItem
		currency, total     string
		paymentType, mode   string
		note                sql.NullString
		createdAt, sharedAt int64
	)

	err := row.Scan(&item.ID, &item.Title, &item.Split.ID, &currency, &total,
		&paymentType, &item.Split.PaymentDetails.Value, &mode, &note,
		&item.Split.IncludeYourself, &item.Split.NumberOfPeople, &createdAt, &sharedAt)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total %q: %w", total, err)
	}

	item.Split.Currency = models.CurrencyFromCode(currency)
	item.Split.TotalAmount = amount
	item.Split.PaymentDetails.Type = models.PaymentType(paymentType)
	item.Split.SplitMode = models.SplitMode(mode)
	if note.Valid {
		item.Split.Note = note.String
	}
	item.Split.CreatedAt = time.UnixMilli(createdAt)
	item.SharedAt = time.UnixMilli(sharedAt)

	return &item, nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, item *models.HistoryItem) error {
	participants, err := s.loadParticipants(ctx, item.ID)
	if err != nil {
		return err
	}
	item.Split = item.Split.WithParticipants(participants)

	shares, err := s.loadShares(ctx, item.ID, participants)
	if err != nil {
		return err
	}
	item.SharedTo = shares
	return nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, historyID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, contact_value, contact_method, amount, avatar_uri, is_from_contacts, is_yourself
		 FROM history_participants WHERE history_id = ? ORDER BY position`,
		historyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var (
			p              models.Participant
			method, amount string
			avatar         sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.ContactValue, &method, &amount, &avatar,
			&p.IsFromContacts, &p.IsYourself); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.ContactMethod = models.ContactMethod(method)
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		if avatar.Valid {
			p.AvatarURI = avatar.String
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, historyID string, participants []models.Participant) ([]models.SharedParticipant, error) {
	byID := make(map[string]models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT participant_id, channel, shared_at
		 FROM history_shares WHERE history_id = ? ORDER BY position`,
		historyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	shares := []models.SharedParticipant{}
	for rows.Next() {
		var (
			participantID, channel string
			sharedAt               int64
		)
		if err := rows.Scan(&participantID, &channel, &sharedAt); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}

		p, ok := byID[participantID]
		if !ok {
			p = models.Participant{ID: participantID}
		}
		shares = append(shares, models.SharedParticipant{
			Participant: p,
			Channel:     models.ShareChannel(channel),
			SharedAt:    time.UnixMilli(sharedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}
