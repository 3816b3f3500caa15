package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"ChannelFeed/internal/domain"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <title>Example Channel</title>
  <entry>
    <id>yt:video:vid-new</id>
    <yt:videoId>vid-new</yt:videoId>
    <yt:channelId>CHANNEL123</yt:channelId>
    <title>Newest upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=vid-new"/>
    <author>
      <name>Example Author</name>
      <uri>https://www.youtube.com/channel/CHANNEL123</uri>
    </author>
    <published>2024-05-02T15:04:05+00:00</published>
    <updated>2024-05-03T10:00:00+00:00</updated>
  </entry>
  <entry>
    <id>yt:video:vid-old</id>
    <yt:videoId>vid-old</yt:videoId>
    <title>Older upload</title>
    <author><name>Example Author</name></author>
    <published>2024-04-01T09:00:00+00:00</published>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Quiet Channel</title>
</feed>`

func singleEntryFeed(entry string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>Example Channel</title>
  <entry>` + entry + `</entry>
</feed>`
}

func feedServer(t *testing.T, handler http.HandlerFunc) *FeedFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFeedFetcher(srv.Client(), FeedOptions{FeedURL: srv.URL + "/feeds/videos.xml?channel_id=%s"})
}

func TestFeedFetcherReturnsFirstEntry(t *testing.T) {
	t.Parallel()

	fetcher := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("channel_id"); got != "CHANNEL123" {
			t.Errorf("unexpected channel_id %q", got)
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, channelFeed)
	})

	item, err := fetcher.FetchLatest(context.Background(), "CHANNEL123")
	require.NoError(t, err)
	require.Equal(t, domain.LatestItem{
		Author:    "Example Author",
		Title:     "Newest upload",
		VideoID:   "vid-new",
		Published: "2024-05-02T15:04:05+00:00",
	}, item)
}

func TestFeedFetcherZeroEntries(t *testing.T) {
	t.Parallel()

	fetcher := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, emptyFeed)
	})

	_, err := fetcher.FetchLatest(context.Background(), "CHANNEL123")

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, "CHANNEL123", fetchErr.ChannelID)
	require.ErrorIs(t, err, domain.ErrNoEntries)
}

func TestFeedFetcherAcceptsAnySuccessStatus(t *testing.T) {
	t.Parallel()

	fetcher := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		fmt.Fprint(w, channelFeed)
	})

	item, err := fetcher.FetchLatest(context.Background(), "CHANNEL123")
	require.NoError(t, err)
	require.Equal(t, "vid-new", item.VideoID)
}

func TestFeedFetcherIncompleteEntry(t *testing.T) {
	t.Parallel()

	const (
		id        = `<id>yt:video:vid-1</id><yt:videoId>vid-1</yt:videoId>`
		title     = `<title>Upload</title>`
		author    = `<author><name>Example Author</name></author>`
		published = `<published>2024-05-02T15:04:05+00:00</published>`
	)

	cases := []struct {
		name    string
		entry   string
		missing string
	}{
		{name: "title only", entry: `<title>Only a title</title>`, missing: "author"},
		{name: "no author", entry: id + title + published, missing: "author"},
		{name: "no title", entry: id + author + published, missing: "title"},
		{name: "no video id", entry: title + author + published, missing: "video id"},
		{name: "no date", entry: id + title + author, missing: "published date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fetcher := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, singleEntryFeed(tc.entry))
			})

			item, err := fetcher.FetchLatest(context.Background(), "CHANNEL123")

			var fetchErr *domain.FetchError
			require.ErrorAs(t, err, &fetchErr)
			require.Equal(t, "CHANNEL123", fetchErr.ChannelID)
			require.ErrorIs(t, err, domain.ErrIncompleteEntry)
			require.Contains(t, err.Error(), "entry missing "+tc.missing)
			require.Equal(t, domain.LatestItem{}, item)
		})
	}
}

func TestFeedFetcherUpdatedFallback(t *testing.T) {
	t.Parallel()

	fetcher := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, singleEntryFeed(`<id>yt:video:vid-1</id><title>Upload</title>`+
			`<author><name>Example Author</name></author><updated>2024-05-03T10:00:00+00:00</updated>`))
	})

	item, err := fetcher.FetchLatest(context.Background(), "CHANNEL123")
	require.NoError(t, err)
	require.Equal(t, domain.LatestItem{
		Author:    "Example Author",
		Title:     "Upload",
		VideoID:   "vid-1",
		Published: "2024-05-03T10:00:00+00:00",
	}, item)
}

func TestFeedFetcherFailures(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		},
		"not a feed": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "definitely not xml")
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fetcher := feedServer(t, handler)

			_, err := fetcher.FetchLatest(context.Background(), "CHANNEL123")

			var fetchErr *domain.FetchError
			require.ErrorAs(t, err, &fetchErr)
		})
	}
}

func TestFeedFetcherNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	fetcher := NewFeedFetcher(srv.Client(), FeedOptions{FeedURL: srv.URL + "/feeds?channel_id=%s"})
	srv.Close()

	_, err := fetcher.FetchLatest(context.Background(), "CHANNEL123")

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestFeedFetcherEmptyChannelID(t *testing.T) {
	t.Parallel()

	fetcher := NewFeedFetcher(nil, FeedOptions{})

	_, err := fetcher.FetchLatest(context.Background(), "")

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.NotEmpty(t, fetchErr.ChannelID)
	require.Equal(t, "fetch feed <no channel id>: channel id is empty", err.Error())
}
