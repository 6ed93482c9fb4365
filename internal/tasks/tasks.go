// package tasks implements long-running library operations against the Lysn API.
//
// The core abstraction is DownloadEngine, which saves generated audio files to
// disk, singly or in rate-limited bulk. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// Downloader is the slice of the API surface the engine needs.
type Downloader interface {
	ListAudios(ctx context.Context) ([]models.AudioRecord, error)
	DownloadAudio(ctx context.Context, audioID string, w io.Writer) (int64, error)
}

// AudioSaveJob is one audio queued for download.
type AudioSaveJob struct {
	Record models.AudioRecord
	Path   string
}

// AudioSaveResult captures one download outcome.
type AudioSaveResult struct {
	AudioID string
	Title   string
	Path    string
	Bytes   int64
	Success bool
	Error   error
}

// BulkSaveResult summarizes a bulk save run.
type BulkSaveResult struct {
	TotalAudios     int
	SuccessfulSaves int
	FailedSaves     int
	TotalBytes      int64
	OutputDirectory string
	Results         []AudioSaveResult
}

// DownloadEngine saves audio files from the Lysn API to the local disk.
type DownloadEngine struct {
	api Downloader
}

// NewDownloadEngine creates a DownloadEngine backed by the given client.
func NewDownloadEngine(api Downloader) *DownloadEngine {
	return &DownloadEngine{api: api}
}

// SaveOne downloads a single audio to path. The partial file is removed
// when the download fails midway.
func (e *DownloadEngine) SaveOne(ctx context.Context, record models.AudioRecord, path string) (*AudioSaveResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := e.api.DownloadAudio(ctx, record.AudioID, f)
	closeErr := f.Close()
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to download %s: %w", record.AudioID, err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to flush output file: %w", closeErr)
	}

	return &AudioSaveResult{
		AudioID: record.AudioID,
		Title:   record.DisplayTitle(),
		Path:    path,
		Bytes:   n,
		Success: true,
	}, nil
}

// sendProgress delivers an update without blocking the operation.
func (e *DownloadEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// outputName derives a disk filename for a record, falling back to the
// audio ID when no title is known.
func outputName(record models.AudioRecord) string {
	name := record.DisplayTitle()
	if name == "" {
		name = record.AudioID
	}
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	return name + ".mp3"
}
