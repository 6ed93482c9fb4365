package main

import (
	"context"
	"fmt"

	"github.com/lysn-labs/lysn-cli/internal/library"
	"github.com/lysn-labs/lysn-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheSync mirrors the remote library into the local cache database.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if !r.api.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	repo, closeDB, err := r.openCache(cmd.String("config"))
	if err != nil {
		return err
	}
	defer closeDB()

	manager := library.NewManager(r.api, repo)
	if err := manager.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to sync library: %w", err)
	}

	r.logger.Infof("synced %d audios to cache", len(manager.Records()))
	return r.writePlain("✓ Cached %d audios\n", len(manager.Records()))
}

// CacheClear removes every cached audio record.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openCache(cmd.String("config"))
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.ReplaceAll(nil); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared")
	return r.writePlain("✓ Cache cleared\n")
}
