package aggregator

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"herald/internal/analysis"
	"herald/internal/domain/news"
	"herald/internal/metrics"
	"herald/internal/sources"
	"herald/pkg/logger"
)

// SourceRegistry resolves the sources for a topic in deterministic order.
type SourceRegistry interface {
	ForTopic(topic news.Topic) []sources.Source
}

// Indicators provides a fresh indicator snapshot for a market symbol.
type Indicators interface {
	Snapshot(ctx context.Context, symbol string) (*news.IndicatorSnapshot, error)
}

// Result is one aggregation pass over a topic.
type Result struct {
	Articles      []news.EnrichedArticle
	SourcesTotal  int
	SourcesFailed int
}

// AllSourcesFailed reports whether not a single source produced a result.
func (r Result) AllSourcesFailed() bool {
	return r.SourcesTotal > 0 && r.SourcesFailed == r.SourcesTotal
}

// Service orchestrates one topic's sources: concurrent fetch, dedup,
// sentiment, and market impact enrichment.
type Service struct {
	registry    SourceRegistry
	dedup       news.DedupIndex
	scorer      *analysis.SentimentScorer
	indicators  Indicators
	maxPerTopic int
	log         *logger.Logger
}

// New creates the topic aggregator.
func New(registry SourceRegistry, dedup news.DedupIndex, scorer *analysis.SentimentScorer, indicators Indicators, maxPerTopic int) *Service {
	if maxPerTopic <= 0 {
		maxPerTopic = 10
	}
	return &Service{
		registry:    registry,
		dedup:       dedup,
		scorer:      scorer,
		indicators:  indicators,
		maxPerTopic: maxPerTopic,
		log:         logger.Get().With("component", "aggregator"),
	}
}

// Run executes one aggregation pass for a topic. Sources are fetched
// concurrently but their results are concatenated in registry order, so
// concurrency affects latency, never sequence order. Individual source
// failures degrade to empty results.
func (s *Service) Run(ctx context.Context, topic news.Topic) Result {
	srcs := s.registry.ForTopic(topic)
	log := s.log.With("topic", topic, "pass_id", uuid.New().String())

	fetched := make([][]news.Article, len(srcs))
	errs := make([]error, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			fetched[i], errs[i] = src.Fetch(ctx, topic)
		}(i, src)
	}
	wg.Wait()

	result := Result{SourcesTotal: len(srcs)}
	var candidates []news.Article
	for i, src := range srcs {
		if errs[i] != nil {
			result.SourcesFailed++
			metrics.FetchErrors.WithLabelValues(src.Name()).Inc()
			log.Warnf("Source %s failed: %v", src.Name(), errs[i])
			continue
		}
		metrics.ArticlesFetched.WithLabelValues(src.Name()).Add(float64(len(fetched[i])))
		candidates = append(candidates, fetched[i]...)
	}

	fresh, err := news.FilterNew(ctx, s.dedup, candidates, s.maxPerTopic)
	if err != nil {
		// An unreachable index means we cannot tell new from sent;
		// deliver nothing rather than risk duplicates.
		log.Errorf("Dedup index unavailable: %v", err)
		return result
	}

	log.Infof("Aggregated %d candidates, %d new", len(candidates), len(fresh))

	symbol, hasSymbol := news.Symbol(topic)
	for _, article := range fresh {
		sentiment := s.scorer.Score(article.Title + " " + article.Summary)

		impact := ""
		if hasSymbol {
			snap, err := s.indicators.Snapshot(ctx, symbol)
			if err != nil {
				log.Debugf("Indicators unavailable for %s: %v", symbol, err)
				snap = nil
			}
			impact = analysis.CorrelateImpact(sentiment, snap)
		}

		result.Articles = append(result.Articles, news.EnrichedArticle{
			Article:      article,
			Sentiment:    sentiment,
			MarketImpact: impact,
		})
	}

	return result
}
