package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/analysis"
	"herald/internal/domain/news"
	"herald/internal/sources"
	"herald/pkg/errors"
)

type fakeSource struct {
	name     string
	articles []news.Article
	err      error
	delay    time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, topic news.Topic) ([]news.Article, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.articles, f.err
}

type fakeRegistry struct {
	srcs []sources.Source
}

func (f *fakeRegistry) ForTopic(topic news.Topic) []sources.Source { return f.srcs }

type fakeIndicators struct {
	snap      *news.IndicatorSnapshot
	err       error
	gotSymbol string
}

func (f *fakeIndicators) Snapshot(ctx context.Context, symbol string) (*news.IndicatorSnapshot, error) {
	f.gotSymbol = symbol
	return f.snap, f.err
}

func article(title, link string) news.Article {
	return news.Article{Title: title, Summary: "summary of " + title, Link: link}
}

func newService(reg *fakeRegistry, ind *fakeIndicators, max int) (*Service, *news.MemoryIndex) {
	idx := news.NewMemoryIndex()
	return New(reg, idx, analysis.NewSentimentScorer(), ind, max), idx
}

func TestService_RunOrderIsDeterministic(t *testing.T) {
	// The slow source is listed first and must still come first in the
	// output despite finishing last.
	reg := &fakeRegistry{srcs: []sources.Source{
		&fakeSource{name: "slow", delay: 50 * time.Millisecond, articles: []news.Article{article("Slow story", "https://example.com/slow")}},
		&fakeSource{name: "fast", articles: []news.Article{article("Fast story", "https://example.com/fast")}},
	}}
	svc, _ := newService(reg, &fakeIndicators{}, 10)

	result := svc.Run(context.Background(), news.TopicRegulation)

	require.Len(t, result.Articles, 2)
	assert.Equal(t, "Slow story", result.Articles[0].Title)
	assert.Equal(t, "Fast story", result.Articles[1].Title)
	assert.Equal(t, 2, result.SourcesTotal)
	assert.Zero(t, result.SourcesFailed)
}

func TestService_RunPartialFailure(t *testing.T) {
	reg := &fakeRegistry{srcs: []sources.Source{
		&fakeSource{name: "broken", err: errors.ErrFetchFailed},
		&fakeSource{name: "healthy", articles: []news.Article{article("Story", "https://example.com/1")}},
	}}
	svc, _ := newService(reg, &fakeIndicators{}, 10)

	result := svc.Run(context.Background(), news.TopicRegulation)

	require.Len(t, result.Articles, 1)
	assert.Equal(t, 1, result.SourcesFailed)
	assert.False(t, result.AllSourcesFailed())
}

func TestService_RunAllSourcesFailed(t *testing.T) {
	reg := &fakeRegistry{srcs: []sources.Source{
		&fakeSource{name: "a", err: errors.ErrFetchFailed},
		&fakeSource{name: "b", err: errors.ErrFetchFailed},
	}}
	svc, _ := newService(reg, &fakeIndicators{}, 10)

	result := svc.Run(context.Background(), news.TopicRegulation)

	assert.Empty(t, result.Articles)
	assert.True(t, result.AllSourcesFailed())
}

func TestService_RunSkipsAlreadySent(t *testing.T) {
	reg := &fakeRegistry{srcs: []sources.Source{
		&fakeSource{name: "src", articles: []news.Article{
			article("Old story", "https://example.com/old"),
			article("New story", "https://example.com/new"),
		}},
	}}
	svc, idx := newService(reg, &fakeIndicators{}, 10)

	_, err := idx.Reserve(context.Background(), "https://example.com/old")
	require.NoError(t, err)

	result := svc.Run(context.Background(), news.TopicRegulation)

	require.Len(t, result.Articles, 1)
	assert.Equal(t, "New story", result.Articles[0].Title)
}

func TestService_RunCapsPerTopic(t *testing.T) {
	var arts []news.Article
	for i := 0; i < 30; i++ {
		arts = append(arts, article("Story "+string(rune('A'+i)), "https://example.com/"+string(rune('A'+i))))
	}
	reg := &fakeRegistry{srcs: []sources.Source{&fakeSource{name: "src", articles: arts}}}
	svc, _ := newService(reg, &fakeIndicators{}, 10)

	result := svc.Run(context.Background(), news.TopicRegulation)
	assert.Len(t, result.Articles, 10)
}

func TestService_RunEnrichesWithImpactForSymbolTopics(t *testing.T) {
	reg := &fakeRegistry{srcs: []sources.Source{
		&fakeSource{name: "src", articles: []news.Article{article("Bitcoin story", "https://example.com/btc")}},
	}}
	ind := &fakeIndicators{snap: &news.IndicatorSnapshot{
		Symbol: "BTCUSDT",
		RSI:    50,
		MACD:   1.5,
		Closes: []news.ClosePrice{{Close: 100}, {Close: 101}},
	}}
	svc, _ := newService(reg, ind, 10)

	result := svc.Run(context.Background(), news.TopicBitcoin)

	require.Len(t, result.Articles, 1)
	assert.Equal(t, "BTCUSDT", ind.gotSymbol)
	assert.Equal(t, "MACD indicates bullish momentum", result.Articles[0].MarketImpact)
	assert.NotEmpty(t, result.Articles[0].Sentiment.Label)
}

func TestService_RunNoImpactForSymbollessTopics(t *testing.T) {
	reg := &fakeRegistry{srcs: []sources.Source{
		&fakeSource{name: "src", articles: []news.Article{article("Policy story", "https://example.com/reg")}},
	}}
	ind := &fakeIndicators{}
	svc, _ := newService(reg, ind, 10)

	result := svc.Run(context.Background(), news.TopicRegulation)

	require.Len(t, result.Articles, 1)
	assert.Empty(t, result.Articles[0].MarketImpact)
	assert.Empty(t, ind.gotSymbol, "indicators are never consulted for symbolless topics")
}

func TestService_RunIndicatorFailureDegrades(t *testing.T) {
	reg := &fakeRegistry{srcs: []sources.Source{
		&fakeSource{name: "src", articles: []news.Article{article("Bitcoin story", "https://example.com/btc2")}},
	}}
	ind := &fakeIndicators{err: errors.ErrDataUnavailable}
	svc, _ := newService(reg, ind, 10)

	result := svc.Run(context.Background(), news.TopicBitcoin)

	require.Len(t, result.Articles, 1)
	assert.Equal(t, "Market data unavailable", result.Articles[0].MarketImpact)
}
