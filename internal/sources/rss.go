package sources

import (
	"context"
	"net/url"

	"github.com/mmcdole/gofeed"

	"herald/internal/domain/news"
	"herald/pkg/errors"
)

// defaultFeedMax caps how many entries a single feed contributes.
const defaultFeedMax = 10

// FeedSource is the structured-feed adapter variant. One instance fetches
// one feed URL; the topic is already baked into the URL.
type FeedSource struct {
	parser *gofeed.Parser
	url    string
	name   string
	max    int
}

// NewFeedSource creates a feed adapter for one RSS source URL.
func NewFeedSource(parser *gofeed.Parser, feedURL string, max int) *FeedSource {
	if max <= 0 {
		max = defaultFeedMax
	}
	name := "rss"
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		name = "rss:" + u.Host
	}
	return &FeedSource{parser: parser, url: feedURL, name: name, max: max}
}

// Name identifies the source in logs and metrics.
func (f *FeedSource) Name() string {
	return f.name
}

// Fetch parses the feed and yields its most recent entries in feed order.
// Entries without a link are skipped.
func (f *FeedSource) Fetch(ctx context.Context, topic news.Topic) ([]news.Article, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "feed %s: %v", f.url, err)
	}

	articles := make([]news.Article, 0, f.max)
	for _, item := range feed.Items {
		if len(articles) >= f.max {
			break
		}
		if item.Link == "" {
			continue
		}
		articles = append(articles, news.Article{
			Title:   item.Title,
			Summary: item.Description,
			Link:    item.Link,
			Source:  f.name,
		})
	}

	return articles, nil
}
