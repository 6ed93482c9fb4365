package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lysn-labs/lysn-cli/internal/formatter"
	"github.com/lysn-labs/lysn-cli/internal/library"
	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
	"github.com/lysn-labs/lysn-cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AudioList prints the audio library, from the API or the local cache.
func (r *Runner) AudioList(ctx context.Context, cmd *cli.Command) error {
	var manager *library.Manager

	if cmd.Bool("cached") {
		repo, closeDB, err := r.openCache(cmd.String("config"))
		if err != nil {
			return err
		}
		defer closeDB()

		manager = library.NewManager(r.api, repo)
		if err := manager.LoadCached(); err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}
		r.logger.Infof("loaded %d audios from cache", len(manager.Records()))
	} else {
		if !r.api.Authenticated() {
			return shared.ErrNotAuthenticated
		}

		manager = library.NewManager(r.api, nil)
		if err := manager.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to fetch library: %w", err)
		}
	}

	records := manager.Records()
	if filter := cmd.String("filter"); filter != "" {
		records = manager.Filter(filter)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("No audios in your library.\n")
	}

	r.writePlain("Audios: %d\n\n", len(records))
	for i, record := range records {
		r.writePlain("%d. %s\n", i+1, record.DisplayTitle())
		r.writePlain("   ID: %s\n", record.AudioID)
		if record.CreatedAt != "" {
			r.writePlain("   Created: %s\n", record.CreatedAt)
		}
	}
	return nil
}

// AudioURL prints the stream URL for one audio.
func (r *Runner) AudioURL(ctx context.Context, cmd *cli.Command) error {
	audioID := cmd.StringArg("id")
	if audioID == "" {
		return fmt.Errorf("%w: audio id", shared.ErrMissingArgument)
	}

	return r.writePlain("%s\n", r.api.AudioURL(audioID))
}

// AudioDelete removes an audio after confirmation.
func (r *Runner) AudioDelete(ctx context.Context, cmd *cli.Command) error {
	audioID := cmd.StringArg("id")
	if audioID == "" {
		return fmt.Errorf("%w: audio id", shared.ErrMissingArgument)
	}
	if !r.api.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	if !cmd.Bool("yes") {
		answer, err := r.prompt(fmt.Sprintf("Delete audio %s? [y/N]", audioID))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return r.writePlain("Cancelled.\n")
		}
	}

	manager := library.NewManager(r.api, nil)
	if err := manager.ConfirmDelete(ctx, audioID); err != nil {
		return fmt.Errorf("failed to delete audio: %w", err)
	}

	r.logger.Infof("deleted audio %s", audioID)
	r.writePlain("✓ Audio deleted\n")
	r.writePlain("Remaining audios: %d\n", len(manager.Records()))
	return nil
}

// AudioSave downloads one audio, or the whole library with --all.
func (r *Runner) AudioSave(ctx context.Context, cmd *cli.Command) error {
	if !r.api.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	if cmd.Bool("all") {
		return r.saveAll(ctx, cmd)
	}

	audioID := cmd.StringArg("id")
	if audioID == "" {
		return fmt.Errorf("%w: audio id (or --all)", shared.ErrMissingArgument)
	}

	manager := library.NewManager(r.api, nil)
	if err := manager.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fetch library: %w", err)
	}

	var record models.AudioRecord
	found := false
	for _, candidate := range manager.Records() {
		if candidate.AudioID == audioID {
			record = candidate
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", shared.ErrAudioNotFound, audioID)
	}

	output := cmd.String("output")
	if output == "" {
		output = strings.TrimSuffix(record.DisplayTitle(), filepath.Ext(record.DisplayTitle())) + ".mp3"
	}

	result, err := r.engine.SaveOne(ctx, record, output)
	if err != nil {
		return err
	}

	r.logger.Infof("saved %s (%d bytes)", result.Path, result.Bytes)
	return r.writePlain("✓ Saved %s (%d bytes)\n", result.Path, result.Bytes)
}

// saveAll bulk-downloads the library with progress reporting.
func (r *Runner) saveAll(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.BulkSaveOpts{
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate-limit"),
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = r.config.Export.Workers
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.Export.RateLimit
	}

	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
		close(done)
	}()

	result, err := r.engine.SaveAll(ctx, prog, opts)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ Saved %d/%d audios to %s (%d bytes)",
		result.SuccessfulSaves, result.TotalAudios, result.OutputDirectory, result.TotalBytes)
	if result.FailedSaves > 0 {
		r.writePlain("⚠ %d downloads failed\n", result.FailedSaves)
	}
	return nil
}

// AudioExport writes the library listing to a file in the chosen format.
func (r *Runner) AudioExport(ctx context.Context, cmd *cli.Command) error {
	if !r.api.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	manager := library.NewManager(r.api, nil)
	if err := manager.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fetch library: %w", err)
	}

	path, err := formatter.WriteExport(manager.Records(), cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Infof("exported %d audios to %s", len(manager.Records()), path)
	return r.writePlain("✓ Library exported to %s\n", path)
}
