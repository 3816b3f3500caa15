package main

import (
	"context"
	"os"
	"os/signal"

	"ChannelFeed/internal/app"
	"ChannelFeed/internal/config"
	"ChannelFeed/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cfg := config.Load()
	logger, closer := logging.NewWithOptions(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})

	code := 0
	application, err := app.New(cfg, logger)
	if err == nil {
		err = application.Run(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		code = 1
	}

	stop()
	_ = closer.Close()
	os.Exit(code)
}
