package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/domain/news"
	"herald/pkg/errors"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Crypto Feed</title>
    <link>https://example.com</link>
    <item>
      <title>Bitcoin breaks resistance</title>
      <description>BTC pushed through a key level overnight.</description>
      <link>https://example.com/articles/1</link>
    </item>
    <item>
      <title>Entry without a link</title>
      <description>This one is skipped.</description>
    </item>
    <item>
      <title>Miners expand capacity</title>
      <description>Hash rate climbs again.</description>
      <link>https://example.com/articles/2</link>
    </item>
  </channel>
</rss>`

func newTestParser() *gofeed.Parser {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 5 * time.Second}
	return parser
}

func TestFeedSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	src := NewFeedSource(newTestParser(), srv.URL, 10)

	articles, err := src.Fetch(context.Background(), news.TopicBitcoin)
	require.NoError(t, err)

	require.Len(t, articles, 2, "the entry without a link is skipped")
	assert.Equal(t, "Bitcoin breaks resistance", articles[0].Title)
	assert.Equal(t, "https://example.com/articles/1", articles[0].Link)
	assert.Equal(t, "BTC pushed through a key level overnight.", articles[0].Summary)
	assert.Equal(t, "Miners expand capacity", articles[1].Title)
}

func TestFeedSource_FetchCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	src := NewFeedSource(newTestParser(), srv.URL, 1)

	articles, err := src.Fetch(context.Background(), news.TopicBitcoin)
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestFeedSource_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewFeedSource(newTestParser(), srv.URL, 10)

	_, err := src.Fetch(context.Background(), news.TopicBitcoin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFetchFailed))
}

func TestFeedSource_NameFromHost(t *testing.T) {
	src := NewFeedSource(newTestParser(), "https://cointelegraph.com/rss/tag/bitcoin", 10)
	assert.Equal(t, "rss:cointelegraph.com", src.Name())
}

func TestRegistry_ForTopicOrder(t *testing.T) {
	registry := NewRegistry(5 * time.Second)

	srcs := registry.ForTopic(news.TopicBitcoin)
	require.Len(t, srcs, len(news.FeedURLs(news.TopicBitcoin))+3)

	// Feeds come first in their listed order, then the site scrapers.
	assert.Equal(t, "rss:cointelegraph.com", srcs[0].Name())
	assert.Equal(t, "theblock", srcs[len(srcs)-3].Name())
	assert.Equal(t, "decrypt", srcs[len(srcs)-2].Name())
	assert.Equal(t, "cryptoslate", srcs[len(srcs)-1].Name())
}
