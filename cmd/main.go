package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/lysn-labs/lysn-cli/internal/api"
	"github.com/lysn-labs/lysn-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client := api.NewClient(config.API.BaseURL, http.DefaultClient, config.API.Timeout())
	if err := client.LoadSession(); err != nil {
		logger.Warnf("could not restore session: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    client,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "lysn",
		Usage:    "Listen to your documents: upload PDFs and play back generated audio",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
