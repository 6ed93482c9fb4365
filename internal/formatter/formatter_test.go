package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lysn-labs/lysn-cli/internal/models"
)

func sampleRecords() []models.AudioRecord {
	return []models.AudioRecord{
		{AudioID: "a1", Filename: "report.pdf", URL: "https://cdn.example/a1.mp3", CreatedAt: "2026-08-01"},
		{AudioID: "a2", Title: "Chapter Two", AudioURL: "https://cdn.example/a2.mp3"},
	}
}

func TestFormatter(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("expected parseable CSV, got %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(rows))
		}
		if rows[0][0] != "AudioID" {
			t.Errorf("unexpected header: %v", rows[0])
		}
		if rows[1][1] != "report.pdf" {
			t.Errorf("expected display title in CSV, got %s", rows[1][1])
		}
		if rows[2][2] != "https://cdn.example/a2.mp3" {
			t.Errorf("expected resolved stream URL, got %s", rows[2][2])
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleRecords(), "My Library")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := string(data)
		if !strings.Contains(out, "# My Library") {
			t.Error("expected custom title heading")
		}
		if !strings.Contains(out, "**Audios**: 2") {
			t.Error("expected audio count")
		}
		if !strings.Contains(out, "[report.pdf](https://cdn.example/a1.mp3) (2026-08-01)") {
			t.Errorf("expected linked entry with date, got:\n%s", out)
		}
		if !strings.Contains(out, "[Chapter Two](https://cdn.example/a2.mp3)") {
			t.Error("expected title fallback entry")
		}
	})

	t.Run("Markdown Default Title", func(t *testing.T) {
		data, err := ExportToMarkdown(nil, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "# Audio Library") {
			t.Error("expected default heading")
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, err := ExportToText(sampleRecords())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := string(data)
		if !strings.Contains(out, "Audios: 2") {
			t.Error("expected count line")
		}
		if !strings.Contains(out, "1. report.pdf") || !strings.Contains(out, "2. Chapter Two") {
			t.Errorf("expected numbered entries, got:\n%s", out)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleRecords())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var parsed []models.AudioRecord
		if err := json.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(parsed) != 2 || parsed[0].AudioID != "a1" {
			t.Errorf("unexpected round trip: %v", parsed)
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		t.Run("Writes Requested Format", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "library.csv")

			got, err := WriteExport(sampleRecords(), "csv", path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != path {
				t.Errorf("expected returned path %s, got %s", path, got)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected written file: %v", err)
			}
			if !strings.HasPrefix(string(data), "AudioID,") {
				t.Errorf("unexpected file content: %s", data)
			}
		})

		t.Run("Defaults To JSON", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "library.json")

			if _, err := WriteExport(sampleRecords(), "", path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			data, _ := os.ReadFile(path)
			var parsed []models.AudioRecord
			if err := json.Unmarshal(data, &parsed); err != nil {
				t.Errorf("expected JSON default, got %v", err)
			}
		})

		t.Run("Rejects Unknown Format", func(t *testing.T) {
			if _, err := WriteExport(sampleRecords(), "yaml", filepath.Join(t.TempDir(), "x")); err == nil {
				t.Error("expected error for unsupported format")
			}
		})
	})
}
