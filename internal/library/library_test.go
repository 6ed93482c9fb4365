package library

import (
	"context"
	"errors"
	"testing"

	"github.com/lysn-labs/lysn-cli/internal/models"
)

// stubAPI scripts listing and delete outcomes.
type stubAPI struct {
	listings    [][]models.AudioRecord
	listErr     error
	deleteErr   error
	listCalls   int
	deleteCalls []string
}

func (s *stubAPI) ListAudios(ctx context.Context) ([]models.AudioRecord, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.listings) == 0 {
		return nil, nil
	}
	listing := s.listings[0]
	if len(s.listings) > 1 {
		s.listings = s.listings[1:]
	}
	return listing, nil
}

func (s *stubAPI) DeleteAudio(ctx context.Context, audioID string) error {
	s.deleteCalls = append(s.deleteCalls, audioID)
	return s.deleteErr
}

// stubCache records mirror writes.
type stubCache struct {
	stored     []models.AudioRecord
	replaceErr error
}

func (s *stubCache) ReplaceAll(records []models.AudioRecord) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.stored = records
	return nil
}

func (s *stubCache) Records() ([]models.AudioRecord, error) {
	return s.stored, nil
}

func listing(ids ...string) []models.AudioRecord {
	records := make([]models.AudioRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, models.AudioRecord{AudioID: id, Filename: id + ".pdf"})
	}
	return records
}

func TestManager(t *testing.T) {
	ctx := context.Background()

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Stores Listing And Mirrors To Cache", func(t *testing.T) {
			cache := &stubCache{}
			m := NewManager(&stubAPI{listings: [][]models.AudioRecord{listing("a", "b")}}, cache)

			if err := m.Refresh(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := len(m.Records()); got != 2 {
				t.Errorf("expected 2 records, got %d", got)
			}
			if len(cache.stored) != 2 {
				t.Errorf("expected cache mirrored, got %d rows", len(cache.stored))
			}
		})

		t.Run("Keeps Previous Listing On Fetch Error", func(t *testing.T) {
			api := &stubAPI{listings: [][]models.AudioRecord{listing("a")}}
			m := NewManager(api, nil)
			m.Refresh(ctx)

			api.listErr = errors.New("network down")
			if err := m.Refresh(ctx); err == nil {
				t.Fatal("expected error")
			}
			if got := len(m.Records()); got != 1 {
				t.Errorf("expected previous listing kept, got %d records", got)
			}
		})
	})

	t.Run("LoadCached", func(t *testing.T) {
		cache := &stubCache{stored: listing("offline")}
		m := NewManager(&stubAPI{}, cache)

		if err := m.LoadCached(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := len(m.Records()); got != 1 {
			t.Errorf("expected cached record, got %d", got)
		}
	})

	t.Run("Filter", func(t *testing.T) {
		m := NewManager(&stubAPI{listings: [][]models.AudioRecord{{
			{AudioID: "1", Filename: "Quarterly Report.pdf"},
			{AudioID: "2", Filename: "notes.pdf"},
			{AudioID: "3", Title: "Annual Report"},
		}}}, nil)
		m.Refresh(ctx)

		if got := len(m.Filter("")); got != 3 {
			t.Errorf("expected all records for empty query, got %d", got)
		}
		if got := len(m.Filter("report")); got != 2 {
			t.Errorf("expected 2 matches case-insensitively, got %d", got)
		}
		if got := len(m.Filter("zzz")); got != 0 {
			t.Errorf("expected no matches, got %d", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Requires Confirmation", func(t *testing.T) {
			api := &stubAPI{listings: [][]models.AudioRecord{listing("a", "b")}}
			m := NewManager(api, nil)
			m.Refresh(ctx)

			m.RequestDelete("a")
			if !m.PendingDelete("a") {
				t.Error("expected item pending confirmation")
			}
			if len(api.deleteCalls) != 0 {
				t.Error("expected no server call before confirmation")
			}

			m.CancelDelete("a")
			if m.PendingDelete("a") {
				t.Error("expected confirmation withdrawn")
			}
		})

		t.Run("Confirm Deletes Then Refetches", func(t *testing.T) {
			api := &stubAPI{listings: [][]models.AudioRecord{listing("a", "b"), listing("b")}}
			m := NewManager(api, nil)
			m.Refresh(ctx)

			m.RequestDelete("a")
			if err := m.ConfirmDelete(ctx, "a"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(api.deleteCalls) != 1 || api.deleteCalls[0] != "a" {
				t.Errorf("expected delete for a, got %v", api.deleteCalls)
			}
			if api.listCalls != 2 {
				t.Errorf("expected re-fetch after delete, got %d list calls", api.listCalls)
			}

			records := m.Records()
			if len(records) != 1 || records[0].AudioID != "b" {
				t.Errorf("expected authoritative listing, got %v", records)
			}
			if m.PendingDelete("a") || m.Deleting("a") {
				t.Error("expected delete state cleared")
			}
		})

		t.Run("Failure Clears In-Flight Flag", func(t *testing.T) {
			api := &stubAPI{listings: [][]models.AudioRecord{listing("a")}, deleteErr: errors.New("denied")}
			m := NewManager(api, nil)
			m.Refresh(ctx)

			if err := m.ConfirmDelete(ctx, "a"); err == nil {
				t.Fatal("expected error")
			}
			if m.Deleting("a") {
				t.Error("expected in-flight flag cleared on failure")
			}
			if got := len(m.Records()); got != 1 {
				t.Errorf("expected listing untouched, got %d", got)
			}
		})
	})
}
