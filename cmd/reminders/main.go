// Command reminders runs the daily reminder job once and exits, for
// schedulers that run binaries instead of calling the cron endpoint.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rokko/warranty-tracker/internal/app"
	"github.com/rokko/warranty-tracker/internal/config"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	result, err := a.Services.Reminder.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("reminder run failed")
		a.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error().Err(err).Msg("failed to write result")
	}
}
