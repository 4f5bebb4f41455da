package sources

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"herald/internal/domain/news"
)

// Browser identity sent by scrapers; some news sites reject default
// library user agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Source fetches articles for one topic from one upstream.
// A failed fetch never aborts a topic aggregation; the caller logs it and
// treats the source as empty.
type Source interface {
	Name() string
	Fetch(ctx context.Context, topic news.Topic) ([]news.Article, error)
}

// Registry resolves the sources for a topic: the topic's RSS feeds in
// their listed order, then each site scraper.
type Registry struct {
	parser   *gofeed.Parser
	scrapers []*SiteScraper
	feedMax  int
}

// NewRegistry builds the static source registry. timeout bounds every
// upstream request.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	scrapeClient := &http.Client{Timeout: timeout}

	return &Registry{
		parser: parser,
		scrapers: []*SiteScraper{
			NewTheBlockScraper(scrapeClient),
			NewDecryptScraper(scrapeClient),
			NewCryptoSlateScraper(scrapeClient),
		},
		feedMax: defaultFeedMax,
	}
}

// ForTopic returns the topic's sources in deterministic delivery order.
func (r *Registry) ForTopic(topic news.Topic) []Source {
	urls := news.FeedURLs(topic)
	out := make([]Source, 0, len(urls)+len(r.scrapers))
	for _, u := range urls {
		out = append(out, NewFeedSource(r.parser, u, r.feedMax))
	}
	for _, s := range r.scrapers {
		out = append(out, s)
	}
	return out
}
