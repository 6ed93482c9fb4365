package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
	"golang.org/x/time/rate"
)

// BulkSaveOpts contains configuration for bulk audio downloads.
type BulkSaveOpts struct {
	OutputDir  string  // Base output directory (default: lysn_audio_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// BulkSave downloads multiple audios concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern so a whole library can be saved
// without hammering the backend. It respects the configured rate limit and
// handles partial failures gracefully, reporting each outcome in the result.
func (e *DownloadEngine) BulkSave(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	records []models.AudioRecord,
	opts BulkSaveOpts,
) (*BulkSaveResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("lysn_audio_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkSaveResult{
		TotalAudios:     len(records),
		OutputDirectory: opts.OutputDir,
		Results:         make([]AudioSaveResult, 0, len(records)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan AudioSaveJob, len(records))
	results := make(chan AudioSaveResult, len(records))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.saveWorker(ctx, &wg, limiter, jobs, results)
	}

	go func() {
		for i, record := range records {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			jobs <- AudioSaveJob{
				Record: record,
				Path:   filepath.Join(opts.OutputDir, outputName(record)),
			}

			e.sendProgress(prog, savingAudioUpdate(i+1, len(records), record.DisplayTitle()))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulSaves++
			result.TotalBytes += res.Bytes
			e.sendProgress(prog, saveCompletedUpdate(completed, len(records), res.Title, res.Bytes))
		} else {
			result.FailedSaves++
			e.sendProgress(prog, saveFailedUpdate(completed, len(records), res.Title, res.Error))
		}
	}

	return result, nil
}

// SaveAll fetches the current listing and bulk-saves everything in it.
func (e *DownloadEngine) SaveAll(ctx context.Context, prog chan<- ProgressUpdate, opts BulkSaveOpts) (*BulkSaveResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(prog, fetchingLibraryUpdate())
	records, err := e.api.ListAudios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio list: %w", err)
	}

	return e.BulkSave(ctx, prog, records, opts)
}

// saveWorker is a worker goroutine that downloads audios from the jobs channel.
func (e *DownloadEngine) saveWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan AudioSaveJob,
	results chan<- AudioSaveResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		res, err := e.SaveOne(ctx, job.Record, job.Path)
		if err != nil {
			results <- AudioSaveResult{
				AudioID: job.Record.AudioID,
				Title:   job.Record.DisplayTitle(),
				Path:    job.Path,
				Success: false,
				Error:   err,
			}
			continue
		}
		results <- *res
	}
}
