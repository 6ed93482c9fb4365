package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lysn-labs/lysn-cli/internal/shared"
)

func TestAudio(t *testing.T) {
	t.Run("ListAudios", func(t *testing.T) {
		t.Run("Returns Records In Server Order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/audio/list" {
					t.Errorf("expected path '/audio/list', got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"audios": []map[string]string{
						{"audio_id": "a1", "filename": "report.pdf", "created_at": "2026-08-01T10:00:00Z"},
						{"audio_id": "a2", "filename": "notes.pdf", "created_at": "2026-08-02T10:00:00Z"},
					},
				})
			}))
			defer server.Close()

			c := testClient(server.URL)
			records, err := c.ListAudios(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}
			if records[0].AudioID != "a1" || records[1].AudioID != "a2" {
				t.Error("expected server ordering to be preserved")
			}
		})

		t.Run("Requires Session", func(t *testing.T) {
			c := NewClient("", nil, 0)
			_, err := c.ListAudios(context.Background())
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("AudioURL", func(t *testing.T) {
		c := NewClient("http://lysn.example.com", nil, 0)
		want := "http://lysn.example.com/audio/a1"
		if got := c.AudioURL("a1"); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("DeleteAudio", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/audio/delete" {
				t.Errorf("expected path '/audio/delete', got %s", r.URL.Path)
			}
			r.ParseForm()
			if r.PostForm.Get("audio_id") != "a1" {
				t.Errorf("expected audio_id field, got %q", r.PostForm.Get("audio_id"))
			}
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		c := testClient(server.URL)
		if err := c.DeleteAudio(context.Background(), "a1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("DownloadAudio", func(t *testing.T) {
		t.Run("Streams Body", func(t *testing.T) {
			payload := []byte("mp3-bytes")
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/audio/a1" {
					t.Errorf("expected path '/audio/a1', got %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "audio/mpeg")
				w.Write(payload)
			}))
			defer server.Close()

			c := testClient(server.URL)
			var buf bytes.Buffer
			n, err := c.DownloadAudio(context.Background(), "a1", &buf)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if n != int64(len(payload)) {
				t.Errorf("expected %d bytes, got %d", len(payload), n)
			}
			if !bytes.Equal(buf.Bytes(), payload) {
				t.Error("expected body to be copied verbatim")
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "File not found", http.StatusNotFound)
			}))
			defer server.Close()

			c := testClient(server.URL)
			_, err := c.DownloadAudio(context.Background(), "missing", &bytes.Buffer{})
			if !errors.Is(err, shared.ErrAudioNotFound) {
				t.Errorf("expected ErrAudioNotFound, got %v", err)
			}
		})
	})
}
