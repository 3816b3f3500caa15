package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

const (
	defaultFeedURL   = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"
	videoGUIDPrefix  = "yt:video:"
	missingChannelID = "<no channel id>"
)

// FeedFetcher reads the newest entry of a channel's Atom feed.
type FeedFetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	userAgent string
	feedURL   string
}

var _ ports.LatestItemFetcher = (*FeedFetcher)(nil)

// FeedOptions tunes the feed address template and request headers.
// FeedURL is a format string taking the channel id.
type FeedOptions struct {
	UserAgent string
	FeedURL   string
}

// NewFeedFetcher wires an HTTP client and a gofeed parser.
func NewFeedFetcher(client *http.Client, opts FeedOptions) *FeedFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	f := &FeedFetcher{
		client:    client,
		parser:    gofeed.NewParser(),
		userAgent: opts.UserAgent,
		feedURL:   opts.FeedURL,
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.feedURL == "" {
		f.feedURL = defaultFeedURL
	}
	return f
}

// FetchLatest returns the first entry of the feed; feeds list newest first.
func (f *FeedFetcher) FetchLatest(ctx context.Context, channelID string) (domain.LatestItem, error) {
	if channelID == "" {
		return domain.LatestItem{}, &domain.FetchError{ChannelID: missingChannelID, Err: errors.New("channel id is empty")}
	}

	feed, err := f.parseFeed(ctx, fmt.Sprintf(f.feedURL, channelID))
	if err != nil {
		return domain.LatestItem{}, &domain.FetchError{ChannelID: channelID, Err: err}
	}
	if len(feed.Items) == 0 || feed.Items[0] == nil {
		return domain.LatestItem{}, &domain.FetchError{ChannelID: channelID, Err: domain.ErrNoEntries}
	}

	entry := feed.Items[0]
	published := entry.Published
	if published == "" {
		published = entry.Updated
	}

	item := domain.LatestItem{
		Author:    authorName(entry),
		Title:     strings.TrimSpace(entry.Title),
		VideoID:   videoID(entry),
		Published: published,
	}
	if field := missingField(item); field != "" {
		return domain.LatestItem{}, &domain.FetchError{
			ChannelID: channelID,
			Err:       fmt.Errorf("entry missing %s: %w", field, domain.ErrIncompleteEntry),
		}
	}
	return item, nil
}

func missingField(item domain.LatestItem) string {
	switch {
	case item.Author == "":
		return "author"
	case item.Title == "":
		return "title"
	case item.VideoID == "":
		return "video id"
	case item.Published == "":
		return "published date"
	}
	return ""
}

func (f *FeedFetcher) parseFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if !successful(resp) {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func authorName(item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && p.Name != "" {
			return p.Name
		}
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}

func videoID(item *gofeed.Item) string {
	if yt, ok := item.Extensions["yt"]; ok {
		for _, e := range yt["videoId"] {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
		}
	}
	return strings.TrimPrefix(item.GUID, videoGUIDPrefix)
}
