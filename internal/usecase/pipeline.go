package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

var (
	errNoChannelURL = errors.New("no channel url to resolve from")
	errNoChannelID  = errors.New("no channel id to resolve from")
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Pacing is the constant gap between successive feed fetches.
type PipelineDeps struct {
	Repository ports.ChannelRepository
	Resolver   ports.IdentifierResolver
	Fetcher    ports.LatestItemFetcher
	Publisher  ports.Publisher
	Pacing     time.Duration
	Clock      func() time.Time
	Logger     *slog.Logger
}

// Pipeline resolves identifiers, fetches the latest items and publishes them.
type Pipeline struct {
	repository ports.ChannelRepository
	resolver   ports.IdentifierResolver
	fetcher    ports.LatestItemFetcher
	publisher  ports.Publisher
	pacing     time.Duration
	clock      func() time.Time
	wait       func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		repository: deps.Repository,
		resolver:   deps.Resolver,
		fetcher:    deps.Fetcher,
		publisher:  deps.Publisher,
		pacing:     deps.Pacing,
		clock:      deps.Clock,
		wait:       sleepContext,
		logger:     deps.Logger,
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Run executes both passes over the channel list. Per-record failures end up
// in the report; only an unusable channel list, persistence or output errors,
// and context cancellation are returned.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	if p.repository == nil {
		return Report{}, fmt.Errorf("channel repository is not configured")
	}

	records, err := p.repository.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load channels: %w", err)
	}
	if len(records) == 0 {
		return Report{}, domain.ErrEmptyCollection
	}
	p.logger.Info("channels loaded", "count", len(records))

	var report Report
	report.Resolutions = p.Resolve(ctx, records)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	if err := p.repository.Save(ctx, records); err != nil {
		return report, fmt.Errorf("save channels: %w", err)
	}

	enriched, fetches, err := p.FetchAll(ctx, records)
	report.Fetches = fetches
	if err != nil {
		return report, err
	}

	report.Batch = domain.Batch{Records: enriched, GeneratedAt: p.clock()}
	p.logger.Info("fetch pass done",
		"kept", len(enriched),
		"dropped", len(report.Dropped()),
		"failures", len(report.Failures()))

	if p.publisher == nil {
		return report, nil
	}
	if err := p.publisher.Publish(ctx, report.Batch); err != nil {
		return report, fmt.Errorf("publish: %w", err)
	}
	return report, nil
}

// Resolve fills in missing identifiers in place. A failed lookup leaves the
// field empty and keeps the record.
func (p *Pipeline) Resolve(ctx context.Context, records []domain.ChannelRecord) []Outcome {
	if p.resolver == nil {
		return nil
	}

	var outcomes []Outcome
	for i := range records {
		if ctx.Err() != nil {
			break
		}
		rec := &records[i]

		if rec.ChannelID == "" {
			out := Outcome{Index: i, Ref: rec.ChannelURL, Stage: StageResolveChannelID}
			if rec.ChannelURL == "" {
				out.Err = errNoChannelURL
			} else {
				out.Value, out.Err = p.resolver.ResolveChannelID(ctx, rec.ChannelURL)
			}
			if out.OK() {
				rec.ChannelID = out.Value
				p.logger.Debug("channel id resolved", "channel_url", rec.ChannelURL, "channel_id", out.Value)
			} else {
				p.logger.Warn("resolve channel id failed", "index", i, "channel_url", rec.ChannelURL, "error", out.Err)
			}
			outcomes = append(outcomes, out)
		}

		if rec.ChannelURL == "" {
			out := Outcome{Index: i, Ref: rec.ChannelID, Stage: StageResolveChannelURL}
			if rec.ChannelID == "" {
				out.Err = errNoChannelID
			} else {
				var found bool
				out.Value, found, out.Err = p.resolver.ResolveChannelURL(ctx, rec.ChannelID)
				if out.OK() && !found {
					p.logger.Info("no vanity url on channel page", "channel_id", rec.ChannelID)
				}
			}
			if out.OK() {
				rec.ChannelURL = out.Value
			} else {
				p.logger.Warn("resolve channel url failed", "index", i, "channel_id", rec.ChannelID, "error", out.Err)
			}
			outcomes = append(outcomes, out)
		}
	}

	return outcomes
}

// FetchAll returns a fresh slice holding only the records whose latest item
// could be fetched, in input order. Calls are spaced by the pacing gap.
func (p *Pipeline) FetchAll(ctx context.Context, records []domain.ChannelRecord) ([]domain.ChannelRecord, []Outcome, error) {
	if p.fetcher == nil {
		return nil, nil, fmt.Errorf("latest item fetcher is not configured")
	}

	kept := make([]domain.ChannelRecord, 0, len(records))
	outcomes := make([]Outcome, 0, len(records))

	for i, rec := range records {
		if i > 0 {
			if err := p.wait(ctx, p.pacing); err != nil {
				return kept, outcomes, err
			}
		}

		item, err := p.fetcher.FetchLatest(ctx, rec.ChannelID)
		out := Outcome{Index: i, Ref: rec.Ref(), Stage: StageFetchLatest, Value: item.VideoID, Err: err}
		outcomes = append(outcomes, out)

		if err != nil {
			p.logger.Warn("fetch latest failed, dropping channel", "index", i, "channel", rec.Ref(), "error", err)
			continue
		}

		rec.Apply(item)
		kept = append(kept, rec)
	}

	return kept, outcomes, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
