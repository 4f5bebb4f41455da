package news

import (
	"strings"

	"herald/pkg/errors"
)

// Topic is an enumerated news category.
type Topic string

const (
	TopicBitcoin    Topic = "bitcoin"
	TopicEthereum   Topic = "ethereum"
	TopicDefi       Topic = "defi"
	TopicNFT        Topic = "nft"
	TopicRegulation Topic = "regulation"
	TopicMarkets    Topic = "markets"
	TopicTechnology Topic = "technology"
)

// AllTopics returns the topic enumeration in its canonical order.
func AllTopics() []Topic {
	return []Topic{
		TopicBitcoin,
		TopicEthereum,
		TopicDefi,
		TopicNFT,
		TopicRegulation,
		TopicMarkets,
		TopicTechnology,
	}
}

// ParseTopic validates a user-supplied topic string.
func ParseTopic(s string) (Topic, error) {
	t := Topic(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := feedURLs[t]; !ok {
		return "", errors.Wrapf(errors.ErrInvalidInput, "unknown topic %q", s)
	}
	return t, nil
}

// feedURLs lists the RSS sources per topic, in delivery priority order.
var feedURLs = map[Topic][]string{
	TopicBitcoin: {
		"https://cointelegraph.com/rss/tag/bitcoin",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&tags=bitcoin",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&categories=bitcoin",
		"https://unusualwhales.com/rss/bitcoin",
	},
	TopicEthereum: {
		"https://cointelegraph.com/rss/tag/ethereum",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&tags=ethereum",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&categories=ethereum",
		"https://unusualwhales.com/rss/ethereum",
	},
	TopicDefi: {
		"https://cointelegraph.com/rss/tag/defi",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&tags=defi",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&categories=defi",
		"https://unusualwhales.com/rss/defi",
	},
	TopicNFT: {
		"https://cointelegraph.com/rss/tag/nft",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&tags=nft",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&categories=nft",
		"https://unusualwhales.com/rss/nft",
	},
	TopicRegulation: {
		"https://cointelegraph.com/rss/tag/regulation",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&tags=regulation",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&categories=regulation",
		"https://unusualwhales.com/rss/regulation",
	},
	TopicMarkets: {
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&categories=markets",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&tags=markets",
		"https://unusualwhales.com/rss/markets",
	},
	TopicTechnology: {
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&categories=technology",
		"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml&tags=technology",
		"https://unusualwhales.com/rss/technology",
	},
}

// FeedURLs returns the topic's RSS source URLs in priority order.
func FeedURLs(t Topic) []string {
	return feedURLs[t]
}

// symbols maps topics to Binance spot symbols for market impact analysis.
// Not every topic has a tradable symbol; those skip impact annotation.
var symbols = map[Topic]string{
	TopicBitcoin:  "BTCUSDT",
	TopicEthereum: "ETHUSDT",
	TopicMarkets:  "BTCUSDT", // BTC as the broad market indicator
}

// Symbol returns the market symbol mapped to a topic, if any.
func Symbol(t Topic) (string, bool) {
	s, ok := symbols[t]
	return s, ok
}

// scrapeSlugs maps topics to the per-site URL slug used by scrapers.
// All current sites happen to use the topic name itself, but the mapping
// is kept explicit so a site can diverge without touching the scrapers.
var scrapeSlugs = map[Topic]map[string]string{
	TopicBitcoin:    {"theblock": "bitcoin", "decrypt": "bitcoin", "cryptoslate": "bitcoin"},
	TopicEthereum:   {"theblock": "ethereum", "decrypt": "ethereum", "cryptoslate": "ethereum"},
	TopicDefi:       {"theblock": "defi", "decrypt": "defi", "cryptoslate": "defi"},
	TopicNFT:        {"theblock": "nft", "decrypt": "nft", "cryptoslate": "nft"},
	TopicRegulation: {"theblock": "regulation", "decrypt": "regulation", "cryptoslate": "regulation"},
	TopicMarkets:    {"theblock": "markets", "decrypt": "markets", "cryptoslate": "markets"},
	TopicTechnology: {"theblock": "technology", "decrypt": "technology", "cryptoslate": "technology"},
}

// ScrapeSlug returns the slug a scraper site uses for a topic, if any.
func ScrapeSlug(t Topic, site string) (string, bool) {
	m, ok := scrapeSlugs[t]
	if !ok {
		return "", false
	}
	slug, ok := m[site]
	return slug, ok
}
