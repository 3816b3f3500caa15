package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

const (
	defaultUserAgent      = "channelfeed/1.0"
	defaultChannelPageURL = "https://www.youtube.com/channel/%s"
	maxPageBytes          = 8 << 20
)

var vanityExpr = regexp.MustCompile(`"vanityChannelUrl":"(https?://[^"]+)"`)

// VanityMatcher finds the human-facing channel address inside raw page text.
type VanityMatcher func(page []byte) (string, bool)

// MatchVanityURL returns the first embedded "vanityChannelUrl" value.
func MatchVanityURL(page []byte) (string, bool) {
	m := vanityExpr.FindSubmatch(page)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// ChannelResolver scrapes channel pages to fill in missing identifiers.
type ChannelResolver struct {
	client         *http.Client
	userAgent      string
	channelPageURL string
	matchVanity    VanityMatcher
}

var _ ports.IdentifierResolver = (*ChannelResolver)(nil)

// ResolverOptions tunes page addresses and request headers.
// ChannelPageURL is a format string taking the channel id.
type ResolverOptions struct {
	UserAgent      string
	ChannelPageURL string
	Vanity         VanityMatcher
}

// NewChannelResolver wires an HTTP client; nil falls back to a 20s timeout client.
func NewChannelResolver(client *http.Client, opts ResolverOptions) *ChannelResolver {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	r := &ChannelResolver{
		client:         client,
		userAgent:      opts.UserAgent,
		channelPageURL: opts.ChannelPageURL,
		matchVanity:    opts.Vanity,
	}
	if r.userAgent == "" {
		r.userAgent = defaultUserAgent
	}
	if r.channelPageURL == "" {
		r.channelPageURL = defaultChannelPageURL
	}
	if r.matchVanity == nil {
		r.matchVanity = MatchVanityURL
	}
	return r
}

// ResolveChannelID reads the og:url meta tag of the channel page and returns
// its last path segment.
func (r *ChannelResolver) ResolveChannelID(ctx context.Context, channelURL string) (string, error) {
	body, err := r.get(ctx, channelURL)
	if err != nil {
		return "", &domain.ExtractionError{Ref: channelURL, Err: err}
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", &domain.ExtractionError{Ref: channelURL, Err: fmt.Errorf("parse document: %w", err)}
	}

	content, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content")
	if !ok {
		return "", &domain.ExtractionError{Ref: channelURL, Err: fmt.Errorf("og:url: %w", domain.ErrMarkerNotFound)}
	}

	id := lastSegment(content)
	if id == "" {
		return "", &domain.ExtractionError{Ref: channelURL, Err: fmt.Errorf("og:url %q has no trailing id: %w", content, domain.ErrMarkerNotFound)}
	}
	return id, nil
}

// ResolveChannelURL fetches the canonical page for channelID and pattern-matches
// the vanity address out of the embedded data blob.
func (r *ChannelResolver) ResolveChannelURL(ctx context.Context, channelID string) (string, bool, error) {
	pageURL := fmt.Sprintf(r.channelPageURL, channelID)

	body, err := r.get(ctx, pageURL)
	if err != nil {
		return "", false, &domain.ExtractionError{Ref: channelID, Err: err}
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", false, &domain.ExtractionError{Ref: channelID, Err: fmt.Errorf("read page: %w", err)}
	}

	vanity, ok := r.matchVanity(raw)
	return vanity, ok, nil
}

func (r *ChannelResolver) get(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}

	if !successful(resp) {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("channel page returned %s", resp.Status)
	}

	return resp.Body, nil
}

func successful(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func lastSegment(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw[strings.LastIndex(raw, "/")+1:]
}
