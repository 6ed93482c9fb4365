package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lysn-labs/lysn-cli/internal/models"
)

// stubDownloader writes a fixed payload per audio and can fail selected IDs.
type stubDownloader struct {
	mu       sync.Mutex
	payload  string
	failIDs  map[string]bool
	listErr  error
	records  []models.AudioRecord
	servedID []string
}

func (s *stubDownloader) ListAudios(ctx context.Context) ([]models.AudioRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.records, nil
}

func (s *stubDownloader) DownloadAudio(ctx context.Context, audioID string, w io.Writer) (int64, error) {
	s.mu.Lock()
	s.servedID = append(s.servedID, audioID)
	fail := s.failIDs[audioID]
	s.mu.Unlock()

	if fail {
		return 0, errors.New("stream unavailable")
	}
	n, err := io.WriteString(w, s.payload)
	return int64(n), err
}

func (s *stubDownloader) served() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.servedID)
}

func libraryOf(n int) []models.AudioRecord {
	records := make([]models.AudioRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.AudioRecord{
			AudioID:  fmt.Sprintf("aud-%d", i),
			Filename: fmt.Sprintf("doc-%d.pdf", i),
		})
	}
	return records
}

func TestDownloadEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveOne", func(t *testing.T) {
		t.Run("Writes File", func(t *testing.T) {
			api := &stubDownloader{payload: "audio-bytes"}
			engine := NewDownloadEngine(api)
			path := filepath.Join(t.TempDir(), "out", "doc.mp3")

			res, err := engine.SaveOne(ctx, models.AudioRecord{AudioID: "a1", Filename: "doc.pdf"}, path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if res.Bytes != int64(len("audio-bytes")) {
				t.Errorf("expected byte count, got %d", res.Bytes)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected output file: %v", err)
			}
			if string(data) != "audio-bytes" {
				t.Errorf("unexpected file content: %s", data)
			}
		})

		t.Run("Removes Partial File On Failure", func(t *testing.T) {
			api := &stubDownloader{failIDs: map[string]bool{"bad": true}}
			engine := NewDownloadEngine(api)
			path := filepath.Join(t.TempDir(), "bad.mp3")

			_, err := engine.SaveOne(ctx, models.AudioRecord{AudioID: "bad"}, path)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Error("expected partial file removed")
			}
		})
	})

	t.Run("BulkSave", func(t *testing.T) {
		t.Run("Saves Everything", func(t *testing.T) {
			api := &stubDownloader{payload: "x"}
			engine := NewDownloadEngine(api)
			dir := t.TempDir()

			prog := make(chan ProgressUpdate, 100)
			result, err := engine.BulkSave(ctx, prog, libraryOf(7), BulkSaveOpts{
				OutputDir:  dir,
				NumWorkers: 3,
				RateLimit:  1000,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result.TotalAudios != 7 || result.SuccessfulSaves != 7 || result.FailedSaves != 0 {
				t.Errorf("unexpected totals: %+v", result)
			}
			if result.TotalBytes != 7 {
				t.Errorf("expected 7 bytes total, got %d", result.TotalBytes)
			}
			if api.served() != 7 {
				t.Errorf("expected 7 downloads, got %d", api.served())
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("failed to read output dir: %v", err)
			}
			if len(entries) != 7 {
				t.Errorf("expected 7 files, got %d", len(entries))
			}
		})

		t.Run("Partial Failures Counted", func(t *testing.T) {
			api := &stubDownloader{payload: "x", failIDs: map[string]bool{"aud-1": true, "aud-3": true}}
			engine := NewDownloadEngine(api)

			result, err := engine.BulkSave(ctx, nil, libraryOf(5), BulkSaveOpts{
				OutputDir:  t.TempDir(),
				NumWorkers: 2,
				RateLimit:  1000,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result.SuccessfulSaves != 3 || result.FailedSaves != 2 {
				t.Errorf("expected 3 ok / 2 failed, got %d / %d", result.SuccessfulSaves, result.FailedSaves)
			}

			failed := 0
			for _, res := range result.Results {
				if !res.Success {
					failed++
					if res.Error == nil {
						t.Error("expected error recorded on failure")
					}
				}
			}
			if failed != 2 {
				t.Errorf("expected 2 failed results, got %d", failed)
			}
		})

		t.Run("Reports Progress", func(t *testing.T) {
			api := &stubDownloader{payload: "x"}
			engine := NewDownloadEngine(api)

			prog := make(chan ProgressUpdate, 100)
			_, err := engine.BulkSave(ctx, prog, libraryOf(3), BulkSaveOpts{
				OutputDir:  t.TempDir(),
				NumWorkers: 1,
				RateLimit:  1000,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			close(prog)

			var phases []Phase
			for update := range prog {
				phases = append(phases, update.Phase)
			}
			if len(phases) == 0 {
				t.Fatal("expected progress updates")
			}
			for _, p := range phases {
				if p != SaveAudio {
					t.Errorf("unexpected phase %v", p)
				}
			}
		})

		t.Run("Nil Client Refused", func(t *testing.T) {
			engine := NewDownloadEngine(nil)

			if _, err := engine.BulkSave(ctx, nil, libraryOf(1), BulkSaveOpts{OutputDir: t.TempDir()}); err == nil {
				t.Error("expected error for nil client")
			}
		})
	})

	t.Run("SaveAll", func(t *testing.T) {
		t.Run("Fetches Listing Then Saves", func(t *testing.T) {
			api := &stubDownloader{payload: "x", records: libraryOf(4)}
			engine := NewDownloadEngine(api)

			result, err := engine.SaveAll(ctx, nil, BulkSaveOpts{
				OutputDir:  t.TempDir(),
				NumWorkers: 2,
				RateLimit:  1000,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.TotalAudios != 4 || result.SuccessfulSaves != 4 {
				t.Errorf("unexpected totals: %+v", result)
			}
		})

		t.Run("Listing Failure Propagates", func(t *testing.T) {
			api := &stubDownloader{listErr: errors.New("unauthorized")}
			engine := NewDownloadEngine(api)

			if _, err := engine.SaveAll(ctx, nil, BulkSaveOpts{OutputDir: t.TempDir()}); err == nil {
				t.Error("expected listing error")
			}
		})
	})

	t.Run("Output Names", func(t *testing.T) {
		cases := []struct {
			record models.AudioRecord
			want   string
		}{
			{models.AudioRecord{AudioID: "a", Filename: "report.pdf"}, "report.mp3"},
			{models.AudioRecord{AudioID: "b", Title: "Chapter One"}, "Chapter One.mp3"},
			{models.AudioRecord{AudioID: "c"}, "c.mp3"},
		}

		for _, tc := range cases {
			if got := outputName(tc.record); got != tc.want {
				t.Errorf("outputName(%s) = %s, want %s", tc.record.AudioID, got, tc.want)
			}
		}
	})
}
