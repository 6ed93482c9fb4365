package main

import (
	"context"
	"fmt"

	"github.com/lysn-labs/lysn-cli/internal/library"
	"github.com/lysn-labs/lysn-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

// Upload sends a PDF to the backend for conversion.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a PDF file", shared.ErrMissingArgument)
	}
	if !r.api.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	uploader := library.NewUploader(r.api)
	if err := uploader.Stage(path); err != nil {
		return err
	}

	r.writePlain("Uploading %s...\n", path)
	if err := uploader.Submit(ctx); err != nil {
		if uploader.Phase() == library.PhaseIdle {
			// Duplicate upload, the selection was already discarded.
			return r.writePlain("⚠ %s\n", uploader.Err())
		}
		return fmt.Errorf("upload failed: %w", err)
	}

	r.logger.Infof("uploaded %s as audio %s", path, uploader.AudioID())
	r.writePlain("✓ Upload complete\n")
	return r.writePlain("Audio ID: %s\n", uploader.AudioID())
}
