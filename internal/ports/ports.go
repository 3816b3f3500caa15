package ports

import (
	"context"

	"ChannelFeed/internal/domain"
)

// ChannelRepository loads and persists the tracked channel list.
type ChannelRepository interface {
	Load(ctx context.Context) ([]domain.ChannelRecord, error)
	Save(ctx context.Context, records []domain.ChannelRecord) error
}

// IdentifierResolver derives the missing identifier half of a channel.
type IdentifierResolver interface {
	ResolveChannelID(ctx context.Context, channelURL string) (string, error)
	// ResolveChannelURL reports ok=false when the page carries no vanity address.
	ResolveChannelURL(ctx context.Context, channelID string) (url string, ok bool, err error)
}

// LatestItemFetcher pulls the newest entry of a channel feed.
type LatestItemFetcher interface {
	FetchLatest(ctx context.Context, channelID string) (domain.LatestItem, error)
}

// Publisher hands the final batch to every configured output.
type Publisher interface {
	Publish(ctx context.Context, batch domain.Batch) error
}
