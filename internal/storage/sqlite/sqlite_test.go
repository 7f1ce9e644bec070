package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

func newHistoryItem(names ...string) *models.HistoryItem {
	participants := make([]models.Participant, 0, len(names))
	for i, name := range names {
		p := models.NewParticipant(name, "+99555512345"+string(rune('0'+i)), models.ContactPhone)
		p.Amount = decimal.RequireFromString("33.33")
		participants = append(participants, p)
	}

	split := models.NewBillSplit().
		WithCurrency(models.CurrencyFromCode("GEL")).
		WithTotalAmount(decimal.RequireFromString("99.99")).
		WithPaymentDetails(models.PaymentDetails{Type: models.PaymentIBAN, Value: "GB82WEST12345698765432"}).
		WithParticipants(participants)

	shared := make([]models.SharedParticipant, 0, len(participants))
	for _, p := range participants {
		shared = append(shared, models.SharedParticipant{
			Participant: p,
			Channel:     models.ChannelSMS,
			SharedAt:    time.Now(),
		})
	}

	return &models.HistoryItem{Split: split, SharedTo: shared}
}

func TestSQLiteStore(t *testing.T) {
	store, err := New("")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("SaveHistory generates ID, title and timestamp", func(t *testing.T) {
		item := newHistoryItem("Alice", "Bob")

		if err := store.SaveHistory(ctx, item); err != nil {
			t.Fatalf("SaveHistory failed: %v", err)
		}

		if item.ID == "" {
			t.Error("Expected history ID to be generated")
		}
		if item.Title != "Split with Alice, Bob" {
			t.Errorf("Unexpected title: %s", item.Title)
		}
		if item.SharedAt.IsZero() {
			t.Error("Expected SharedAt to be set")
		}
	})

	t.Run("GetHistory retrieves complete entry", func(t *testing.T) {
		original := newHistoryItem("Charlie", "Diana", "Eve")
		original.Split = original.Split.WithNote("Team lunch")
		original.Split.Participants[1].AvatarURI = "content://avatars/7"
		original.Split.Participants[1].IsFromContacts = true
		original.SharedTo[2].Channel = models.ChannelWhatsApp

		if err := store.SaveHistory(ctx, original); err != nil {
			t.Fatalf("SaveHistory failed: %v", err)
		}

		got, err := store.GetHistory(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}

		if got.Split.ID != original.Split.ID {
			t.Errorf("Split ID mismatch: got %s, want %s", got.Split.ID, original.Split.ID)
		}
		if got.Split.Currency.Code != models.GEL {
			t.Errorf("Currency mismatch: got %s", got.Split.Currency.Code)
		}
		if !got.Split.TotalAmount.Equal(original.Split.TotalAmount) {
			t.Errorf("Total mismatch: got %s, want %s", got.Split.TotalAmount, original.Split.TotalAmount)
		}
		if got.Split.PaymentDetails != original.Split.PaymentDetails {
			t.Errorf("Payment details mismatch: got %+v", got.Split.PaymentDetails)
		}
		if got.Split.Note != "Team lunch" {
			t.Errorf("Note mismatch: got %q", got.Split.Note)
		}
		if len(got.Split.Participants) != 3 {
			t.Fatalf("Participants count mismatch: got %d, want 3", len(got.Split.Participants))
		}

		for i, p := range got.Split.Participants {
			want := original.Split.Participants[i]
			if p.ID != want.ID || p.Name != want.Name {
				t.Errorf("Participant %d mismatch: got %s/%s, want %s/%s", i, p.ID, p.Name, want.ID, want.Name)
			}
			if p.Amount.StringFixed(2) != "33.33" {
				t.Errorf("Participant %d amount: got %s", i, p.Amount)
			}
		}
		if got.Split.Participants[1].AvatarURI != "content://avatars/7" || !got.Split.Participants[1].IsFromContacts {
			t.Errorf("Contact fields not preserved: %+v", got.Split.Participants[1])
		}

		if len(got.SharedTo) != 3 {
			t.Fatalf("Shares count mismatch: got %d, want 3", len(got.SharedTo))
		}
		if got.SharedTo[2].Channel != models.ChannelWhatsApp {
			t.Errorf("Share channel mismatch: got %s", got.SharedTo[2].Channel)
		}
		if got.SharedTo[0].Participant.Name != "Charlie" {
			t.Errorf("Share participant not resolved: %+v", got.SharedTo[0].Participant)
		}
	})

	t.Run("GetHistory returns ErrSplitNotFound", func(t *testing.T) {
		_, err := store.GetHistory(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrSplitNotFound) {
			t.Errorf("Expected ErrSplitNotFound, got %v", err)
		}
	})

	t.Run("ListHistory is newest first and honours limit", func(t *testing.T) {
		older := newHistoryItem("Old")
		older.SharedAt = time.Now().Add(-time.Hour)
		newer := newHistoryItem("New")
		newer.SharedAt = time.Now().Add(time.Hour)

		for _, item := range []*models.HistoryItem{older, newer} {
			if err := store.SaveHistory(ctx, item); err != nil {
				t.Fatalf("SaveHistory failed: %v", err)
			}
		}

		latest, err := store.ListHistory(ctx, 1)
		if err != nil {
			t.Fatalf("ListHistory failed: %v", err)
		}
		if len(latest) != 1 || latest[0].ID != newer.ID {
			t.Fatalf("Expected newest entry first, got %+v", latest)
		}
		if len(latest[0].Split.Participants) != 1 {
			t.Errorf("Expected participants to be loaded")
		}

		all, err := store.ListHistory(ctx, 0)
		if err != nil {
			t.Fatalf("ListHistory failed: %v", err)
		}
		if len(all) < 4 {
			t.Errorf("Expected every entry, got %d", len(all))
		}
		if all[len(all)-1].ID != older.ID {
			t.Errorf("Expected oldest entry last")
		}
	})

	t.Run("DeleteHistory removes entry", func(t *testing.T) {
		item := newHistoryItem("Frank")
		if err := store.SaveHistory(ctx, item); err != nil {
			t.Fatalf("SaveHistory failed: %v", err)
		}

		if err := store.DeleteHistory(ctx, item.ID); err != nil {
			t.Fatalf("DeleteHistory failed: %v", err)
		}
		if _, err := store.GetHistory(ctx, item.ID); !errors.Is(err, storage.ErrSplitNotFound) {
			t.Errorf("Expected entry to be gone, got %v", err)
		}
		if err := store.DeleteHistory(ctx, item.ID); !errors.Is(err, storage.ErrSplitNotFound) {
			t.Errorf("Expected ErrSplitNotFound on second delete, got %v", err)
		}
	})

	t.Run("Saved split with no participants", func(t *testing.T) {
		item := &models.HistoryItem{Split: models.NewBillSplit()}
		if err := store.SaveHistory(ctx, item); err != nil {
			t.Fatalf("SaveHistory failed: %v", err)
		}

		got, err := store.GetHistory(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(got.Split.Participants) != 0 || len(got.SharedTo) != 0 {
			t.Errorf("Expected empty lists, got %+v", got)
		}
	})
}

func TestSQLiteStore_FilePersists(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "billsplit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "history.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	item := newHistoryItem("Alice")
	if err := store.SaveHistory(ctx, item); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}
	store.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetHistory(ctx, item.ID); err != nil {
		t.Errorf("Expected entry after reopen, got %v", err)
	}
}

func TestSQLiteStore_MemoryDoesNotOutliveClose(t *testing.T) {
	ctx := context.Background()

	store, err := New("")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	item := newHistoryItem("Alice")
	if err := store.SaveHistory(ctx, item); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}
	store.Close()

	fresh, err := New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer fresh.Close()

	if _, err := fresh.GetHistory(ctx, item.ID); !errors.Is(err, storage.ErrSplitNotFound) {
		t.Errorf("Expected ErrSplitNotFound from a new in-memory store, got %v", err)
	}
}

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		participants []string
		want         string
	}{
		{[]string{}, "Split"},
		{[]string{"Alice"}, "Split with Alice"},
		{[]string{"Alice", "Bob"}, "Split with Alice, Bob"},
		{[]string{"Alice", "Bob", "Charlie"}, "Split with Alice, Bob, Charlie"},
		{[]string{"Alice", "Bob", "Charlie", "Diana"}, "Split with Alice, Bob and 2 others"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.participants, ","), func(t *testing.T) {
			if got := generateTitle(tt.participants); got != tt.want {
				t.Errorf("generateTitle(%v) = %q, want %q", tt.participants, got, tt.want)
			}
		})
	}
}
