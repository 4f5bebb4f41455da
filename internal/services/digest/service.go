package digest

import (
	"context"

	"herald/internal/domain/news"
	"herald/internal/services/aggregator"
	"herald/pkg/logger"
)

// Aggregator runs one aggregation pass for a topic.
type Aggregator interface {
	Run(ctx context.Context, topic news.Topic) aggregator.Result
}

// Dispatcher delivers a batch of enriched articles to one subscriber.
type Dispatcher interface {
	DeliverBatch(ctx context.Context, subscriberID int64, articles []news.EnrichedArticle) int
}

// Summary describes one digest delivery for one subscriber.
type Summary struct {
	Sent         int
	Topics       int
	FailedTopics int // topics where every source failed
}

// AllSourcesFailed reports whether no source for any subscribed topic
// produced a result. This is the only case surfaced to the user, and only
// for on-demand recaps.
func (s Summary) AllSourcesFailed() bool {
	return s.Topics > 0 && s.FailedTopics == s.Topics
}

// Service runs the aggregate-then-deliver flow for one subscriber across
// their subscribed topics.
type Service struct {
	agg  Aggregator
	disp Dispatcher
	log  *logger.Logger
}

// New creates the digest service.
func New(agg Aggregator, disp Dispatcher) *Service {
	return &Service{
		agg:  agg,
		disp: disp,
		log:  logger.Get().With("component", "digest"),
	}
}

// DeliverTo aggregates every subscribed topic and dispatches the fresh
// articles to the subscriber. Topic failures degrade silently; the
// summary carries enough for the recap command to report total failure.
func (s *Service) DeliverTo(ctx context.Context, sub news.Subscription) Summary {
	summary := Summary{Topics: len(sub.Topics)}

	for _, topic := range sub.Topics {
		result := s.agg.Run(ctx, topic)
		if result.AllSourcesFailed() {
			summary.FailedTopics++
			s.log.Warnf("Every source failed for topic %s", topic)
			continue
		}
		summary.Sent += s.disp.DeliverBatch(ctx, sub.SubscriberID, result.Articles)
	}

	s.log.Infof("Digest complete for subscriber %d: %d sent across %d topics",
		sub.SubscriberID, summary.Sent, summary.Topics)
	return summary
}
