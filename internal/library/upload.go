package library

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lysn-labs/lysn-cli/internal/api"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// Phase tracks where an upload is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseUploading:
		return "uploading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Sender is the slice of the API surface uploads need.
type Sender interface {
	UploadPDF(ctx context.Context, filename string, r io.Reader) (*api.UploadResult, error)
}

// Uploader stages one PDF at a time and submits it. Staging a second
// file replaces the first. Safe for concurrent use.
type Uploader struct {
	mu      sync.Mutex
	api     Sender
	phase   Phase
	staged  string
	errMsg  string
	audioID string
}

func NewUploader(api Sender) *Uploader {
	return &Uploader{api: api}
}

func (u *Uploader) Phase() Phase {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.phase
}

// Staged returns the path of the staged file, empty when nothing is
// staged.
func (u *Uploader) Staged() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.staged
}

func (u *Uploader) Err() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.errMsg
}

// AudioID returns the identifier of the last successful upload.
func (u *Uploader) AudioID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.audioID
}

// Stage selects a file for upload, replacing any earlier selection and
// clearing a previous error. Non-PDF files are rejected immediately.
func (u *Uploader) Stage(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return shared.ErrNotPDF
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.phase == PhaseUploading {
		return shared.ErrInFlight
	}
	u.staged = path
	u.phase = PhaseIdle
	u.errMsg = ""
	return nil
}

// Submit uploads the staged file. Duplicate uploads ("already exists"
// from the server) clear the selection and return to idle so a fresh
// file can be chosen; other failures keep the selection for a retry.
func (u *Uploader) Submit(ctx context.Context) error {
	u.mu.Lock()
	if u.phase == PhaseUploading {
		u.mu.Unlock()
		return shared.ErrInFlight
	}
	path := u.staged
	if path == "" {
		u.mu.Unlock()
		return shared.ErrMissingArgument
	}
	u.phase = PhaseUploading
	u.errMsg = ""
	u.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		u.fail(err.Error(), false)
		return err
	}
	defer f.Close()

	result, err := u.api.UploadPDF(ctx, filepath.Base(path), f)
	if err != nil {
		duplicate := strings.Contains(strings.ToLower(err.Error()), "already exists")
		u.fail(err.Error(), duplicate)
		return err
	}

	u.mu.Lock()
	u.phase = PhaseSuccess
	u.audioID = result.AudioID
	u.mu.Unlock()
	return nil
}

func (u *Uploader) fail(msg string, clearStaged bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.errMsg = msg
	if clearStaged {
		u.phase = PhaseIdle
		u.staged = ""
	} else {
		u.phase = PhaseError
	}
}

// Reset returns to idle after a success or error, dropping the staged
// file.
func (u *Uploader) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.phase == PhaseUploading {
		return
	}
	u.phase = PhaseIdle
	u.staged = ""
	u.errMsg = ""
}
