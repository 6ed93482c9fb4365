package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lysn-labs/lysn-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	body, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return r.writeJSON(decoded, true)
	}

	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}
