package repositories

import (
	"errors"
	"testing"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

func setupRepo(t *testing.T) *AudioRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewAudioRepository(db)
}

func record(audioID, filename string) models.AudioRecord {
	return models.AudioRecord{
		AudioID:   audioID,
		Filename:  filename,
		CreatedAt: "2026-08-30T12:00:00Z",
	}
}

func TestAudioRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repo := setupRepo(t)

		audio := models.NewCachedAudio(0, record("srv-1", "report.pdf"))
		if err := repo.Create(audio); err != nil {
			t.Fatalf("failed to create audio: %v", err)
		}
		if audio.ID() == "" {
			t.Error("expected generated id")
		}

		got, err := repo.Get(audio.ID())
		if err != nil {
			t.Fatalf("failed to get audio: %v", err)
		}
		if got.AudioID() != "srv-1" || got.Filename() != "report.pdf" {
			t.Errorf("unexpected row: %s / %s", got.AudioID(), got.Filename())
		}
		if got.Sequence() == 0 {
			t.Error("expected assigned sequence")
		}
	})

	t.Run("GetByAudioID", func(t *testing.T) {
		repo := setupRepo(t)

		audio := models.NewCachedAudio(0, record("srv-2", "notes.pdf"))
		if err := repo.Create(audio); err != nil {
			t.Fatalf("failed to create audio: %v", err)
		}

		got, err := repo.GetByAudioID("srv-2")
		if err != nil {
			t.Fatalf("failed to get by audio id: %v", err)
		}
		if got.ID() != audio.ID() {
			t.Errorf("expected same row, got %s", got.ID())
		}

		_, err = repo.GetByAudioID("missing")
		if !errors.Is(err, shared.ErrAudioNotFound) {
			t.Errorf("expected ErrAudioNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := setupRepo(t)

		audio := models.NewCachedAudio(0, record("srv-3", "draft.pdf"))
		if err := repo.Create(audio); err != nil {
			t.Fatalf("failed to create audio: %v", err)
		}

		updated := models.RestoreCachedAudio(
			audio.ID(), audio.Sequence(), audio.AudioID(),
			"final.pdf", audio.ServerAt(),
			audio.CreatedAt(), audio.UpdatedAt(), nil,
		)
		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update audio: %v", err)
		}

		got, err := repo.Get(audio.ID())
		if err != nil {
			t.Fatalf("failed to get audio: %v", err)
		}
		if got.Filename() != "final.pdf" {
			t.Errorf("expected renamed file, got %s", got.Filename())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Soft Deletes", func(t *testing.T) {
			repo := setupRepo(t)

			audio := models.NewCachedAudio(0, record("srv-4", "gone.pdf"))
			if err := repo.Create(audio); err != nil {
				t.Fatalf("failed to create audio: %v", err)
			}

			if err := repo.Delete(audio.ID()); err != nil {
				t.Fatalf("failed to delete audio: %v", err)
			}

			if _, err := repo.Get(audio.ID()); err == nil {
				t.Error("expected deleted row hidden from Get")
			}
			if err := repo.Delete(audio.ID()); err == nil {
				t.Error("expected second delete to fail")
			}
		})

		t.Run("By Server Identifier", func(t *testing.T) {
			repo := setupRepo(t)

			audio := models.NewCachedAudio(0, record("srv-5", "bye.pdf"))
			if err := repo.Create(audio); err != nil {
				t.Fatalf("failed to create audio: %v", err)
			}

			if err := repo.DeleteByAudioID("srv-5"); err != nil {
				t.Fatalf("failed to delete by audio id: %v", err)
			}
			if _, err := repo.GetByAudioID("srv-5"); err == nil {
				t.Error("expected row hidden after delete")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		repo := setupRepo(t)

		for _, r := range []models.AudioRecord{record("l1", "a.pdf"), record("l2", "b.pdf"), record("l3", "a.pdf")} {
			if err := repo.Create(models.NewCachedAudio(0, r)); err != nil {
				t.Fatalf("failed to create audio: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(all))
		}
		if all[0].AudioID() != "l1" || all[2].AudioID() != "l3" {
			t.Error("expected sequence ordering")
		}

		filtered, err := repo.List(map[string]any{"filename": "a.pdf"})
		if err != nil {
			t.Fatalf("failed to list filtered: %v", err)
		}
		if len(filtered) != 2 {
			t.Errorf("expected 2 rows for filename filter, got %d", len(filtered))
		}
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		repo := setupRepo(t)

		initial := []models.AudioRecord{record("r1", "one.pdf"), record("r2", "two.pdf")}
		if err := repo.ReplaceAll(initial); err != nil {
			t.Fatalf("failed to seed mirror: %v", err)
		}

		// r2 pruned, r1 renamed, r3 inserted
		next := []models.AudioRecord{record("r1", "one-renamed.pdf"), record("r3", "three.pdf")}
		if err := repo.ReplaceAll(next); err != nil {
			t.Fatalf("failed to replace mirror: %v", err)
		}

		records, err := repo.Records()
		if err != nil {
			t.Fatalf("failed to read records: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 live rows, got %d", len(records))
		}

		byID := map[string]models.AudioRecord{}
		for _, r := range records {
			byID[r.AudioID] = r
		}
		if _, ok := byID["r2"]; ok {
			t.Error("expected r2 pruned")
		}
		if got := byID["r1"].Filename; got != "one-renamed.pdf" {
			t.Errorf("expected r1 refreshed, got %s", got)
		}
		if _, ok := byID["r3"]; !ok {
			t.Error("expected r3 inserted")
		}

		t.Run("Resurrects Pruned Rows", func(t *testing.T) {
			repo := setupRepo(t)

			if err := repo.ReplaceAll([]models.AudioRecord{record("a1", "doc.pdf")}); err != nil {
				t.Fatalf("failed to seed mirror: %v", err)
			}
			if err := repo.ReplaceAll(nil); err != nil {
				t.Fatalf("failed to clear mirror: %v", err)
			}
			if err := repo.ReplaceAll([]models.AudioRecord{record("a1", "doc-v2.pdf")}); err != nil {
				t.Fatalf("re-sync after clear failed: %v", err)
			}

			records, err := repo.Records()
			if err != nil {
				t.Fatalf("failed to read records: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("expected 1 live row, got %d", len(records))
			}
			if records[0].AudioID != "a1" || records[0].Filename != "doc-v2.pdf" {
				t.Errorf("expected a1 restored with fresh filename, got %+v", records[0])
			}
		})
	})
}
