package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"herald/internal/domain/news"
	"herald/internal/metrics"
	"herald/pkg/errors"
	"herald/pkg/logger"
)

// Transport is the outbound message capability. The service treats it as
// opaque; formatting and markup decisions live behind it.
type Transport interface {
	Send(ctx context.Context, subscriberID int64, text string) error
}

// Service delivers enriched articles to subscribers, records delivered
// links in the shared dedup index, and spaces sends to respect transport
// rate limits.
type Service struct {
	transport Transport
	dedup     news.DedupIndex
	limiter   *rate.Limiter
	log       *logger.Logger
}

// New creates the dispatcher. interMessageDelay is the minimum spacing
// between consecutive sends.
func New(transport Transport, dedup news.DedupIndex, interMessageDelay time.Duration) *Service {
	if interMessageDelay <= 0 {
		interMessageDelay = time.Second
	}
	return &Service{
		transport: transport,
		dedup:     dedup,
		limiter:   rate.NewLimiter(rate.Every(interMessageDelay), 1),
		log:       logger.Get().With("component", "dispatcher"),
	}
}

// Deliver sends one article to one subscriber. The link is reserved in
// the dedup index before sending, so of several concurrent jobs holding
// the same article exactly one delivers it; a transport failure releases
// the reservation for a later pass. Returns true when a message went out.
func (s *Service) Deliver(ctx context.Context, subscriberID int64, article news.EnrichedArticle) (bool, error) {
	reserved, err := s.dedup.Reserve(ctx, article.Link)
	if err != nil {
		return false, errors.Wrap(err, "dedup reserve")
	}
	if !reserved {
		// Another pass won this link.
		return false, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.releaseQuietly(article.Link)
		return false, errors.Wrap(err, "rate limiter wait")
	}

	if err := s.transport.Send(ctx, subscriberID, FormatMessage(article)); err != nil {
		s.releaseQuietly(article.Link)
		metrics.DeliveryErrors.Inc()
		return false, errors.Wrapf(errors.ErrDeliveryFailed, "subscriber %d: %v", subscriberID, err)
	}

	metrics.ArticlesDelivered.Inc()
	return true, nil
}

// DeliverBatch delivers articles in order, skipping failures so one bad
// send never aborts the rest of the batch. Returns the number sent.
func (s *Service) DeliverBatch(ctx context.Context, subscriberID int64, articles []news.EnrichedArticle) int {
	sent := 0
	for _, article := range articles {
		ok, err := s.Deliver(ctx, subscriberID, article)
		if err != nil {
			s.log.Warnf("Delivery failed for subscriber %d: %v", subscriberID, err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent
}

func (s *Service) releaseQuietly(link string) {
	if err := s.dedup.Release(context.Background(), link); err != nil {
		s.log.Errorf("Failed to release reserved link %s: %v", link, err)
	}
}

// FormatMessage renders one enriched article as a Markdown message:
// sentiment glyph, bold title, summary, optional market impact block,
// and the article link.
func FormatMessage(a news.EnrichedArticle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n\n📝 %s\n\n", a.Sentiment.Label.Emoji(), a.Title, a.Summary)
	if a.MarketImpact != "" {
		fmt.Fprintf(&b, "📊 Market Impact:\n%s\n\n", a.MarketImpact)
	}
	fmt.Fprintf(&b, "🔗 [Read full article](%s)", a.Link)
	return b.String()
}
