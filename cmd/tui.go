package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysn-labs/lysn-cli/internal/auth"
	"github.com/lysn-labs/lysn-cli/internal/library"
	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/player"
	"github.com/lysn-labs/lysn-cli/internal/shared"
	"github.com/lysn-labs/lysn-cli/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for the audio library.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lysn-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	// The cache is optional: the TUI still works against the API alone
	// when the local database cannot be opened.
	var cache library.Cache
	if repo, closeDB, err := r.openCache(cmd.String("config")); err == nil {
		defer closeDB()
		cache = repo
	} else {
		r.logger.Warn("cache unavailable, running without it", "error", err)
	}

	model := ui.NewModel(ctx, ui.ModelOpts{
		Flow:     auth.NewFlow(r.api),
		Library:  library.NewManager(r.api, cache),
		Uploader: library.NewUploader(r.api),
		Player:   player.New(),
		SaveSession: func(session *models.Session) error {
			r.api.SetSession(session)
			return r.api.SaveSession()
		},
		Authenticated: r.api.Authenticated(),
	})

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
