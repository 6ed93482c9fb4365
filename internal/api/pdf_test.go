package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lysn-labs/lysn-cli/internal/shared"
)

func TestUploadPDF(t *testing.T) {
	t.Run("Submits Multipart Form", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/pdf/upload" {
				t.Errorf("expected path '/pdf/upload', got %s", r.URL.Path)
			}

			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("failed to parse multipart form: %v", err)
			}
			if r.PostFormValue("token") != "test_token" {
				t.Errorf("expected token field, got %q", r.PostFormValue("token"))
			}

			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("expected file part: %v", err)
			}
			defer file.Close()

			if header.Filename != "report.pdf" {
				t.Errorf("expected filename 'report.pdf', got %q", header.Filename)
			}
			body, _ := io.ReadAll(file)
			if string(body) != "%PDF-1.4 fake" {
				t.Errorf("unexpected file contents: %q", body)
			}

			json.NewEncoder(w).Encode(map[string]string{"audio_id": "a9"})
		}))
		defer server.Close()

		c := testClient(server.URL)
		result, err := c.UploadPDF(context.Background(), "/tmp/report.pdf", strings.NewReader("%PDF-1.4 fake"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.AudioID != "a9" {
			t.Errorf("expected audio_id 'a9', got %q", result.AudioID)
		}
	})

	t.Run("Rejects Non-PDF Filename", func(t *testing.T) {
		c := testClient("http://unused.example.com")
		_, err := c.UploadPDF(context.Background(), "notes.txt", strings.NewReader("text"))
		if !errors.Is(err, shared.ErrNotPDF) {
			t.Errorf("expected ErrNotPDF, got %v", err)
		}
	})

	t.Run("Surfaces Backend Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Audio for this file already exists"})
		}))
		defer server.Close()

		c := testClient(server.URL)
		_, err := c.UploadPDF(context.Background(), "dup.pdf", strings.NewReader("%PDF"))
		if err == nil {
			t.Fatal("expected error")
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if !strings.Contains(apiErr.Message, "already exists") {
			t.Errorf("expected backend message to pass through, got %q", apiErr.Message)
		}
	})

	t.Run("Requires Session", func(t *testing.T) {
		c := NewClient("", nil, 0)
		_, err := c.UploadPDF(context.Background(), "report.pdf", strings.NewReader("%PDF"))
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
