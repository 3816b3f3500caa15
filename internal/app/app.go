package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"ChannelFeed/internal/config"
	"ChannelFeed/internal/emitter"
	"ChannelFeed/internal/infrastructure/output"
	"ChannelFeed/internal/infrastructure/storage"
	"ChannelFeed/internal/infrastructure/youtube"
	"ChannelFeed/internal/logging"
	"ChannelFeed/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := &http.Client{Timeout: cfg.HTTP.Timeout}

	registry := emitter.NewRegistry()
	registry.Register(output.CSVEncoder{})
	registry.Register(output.JSONEncoder{})
	registry.Register(output.HTMLEncoder{})

	targets := make([]emitter.Target, 0, len(cfg.Files.Outputs))
	for _, out := range cfg.Files.Outputs {
		targets = append(targets, emitter.Target{Format: out.Format, Path: out.Path})
	}
	publisher, err := emitter.New(registry, targets, baseLogger.With("component", "emitter"))
	if err != nil {
		return nil, fmt.Errorf("configure outputs: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Repository: storage.NewCSVRepository(cfg.Files.ChannelList),
		Resolver: youtube.NewChannelResolver(client, youtube.ResolverOptions{
			UserAgent:      cfg.HTTP.UserAgent,
			ChannelPageURL: cfg.YouTube.ChannelPageURL,
		}),
		Fetcher: youtube.NewFeedFetcher(client, youtube.FeedOptions{
			UserAgent: cfg.HTTP.UserAgent,
			FeedURL:   cfg.YouTube.FeedURL,
		}),
		Publisher: publisher,
		Pacing:    cfg.Pipeline.Pacing,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	runLogger := a.logger.With("run", uuid.NewString())
	runLogger.Info("run started", "channel_list", a.cfg.Files.ChannelList)

	report, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	for _, f := range report.Failures() {
		runLogger.Warn("channel failed", "stage", f.Stage, "ref", f.Ref, "error", f.Err)
	}
	runLogger.Info("run finished",
		"published", len(report.Batch.Records),
		"dropped", len(report.Dropped()))
	return nil
}
