package news

import (
	"math"
	"strings"
	"time"

	"herald/pkg/errors"
)

// Article is a single news item as reported by one source.
// Identity for dedup purposes is the link plus the normalized title.
type Article struct {
	Title   string
	Summary string
	Link    string
	Source  string
}

// NormalizedTitle returns the title lowered and whitespace-collapsed,
// so cosmetically different titles from different sources compare equal.
func (a Article) NormalizedTitle() string {
	return strings.Join(strings.Fields(strings.ToLower(a.Title)), " ")
}

// SentimentLabel is the qualitative bucket of a compound sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Emoji returns the indicator glyph shown next to an article title.
func (l SentimentLabel) Emoji() string {
	switch l {
	case SentimentPositive:
		return "📈"
	case SentimentNegative:
		return "📉"
	default:
		return "➡️"
	}
}

// SentimentResult holds the compound polarity score and its bucket.
type SentimentResult struct {
	Compound float64
	Label    SentimentLabel
}

// LabelFor buckets a compound score. The neutral band is (-0.05, 0.05)
// exclusive; the boundary values belong to their non-neutral buckets.
func LabelFor(compound float64) SentimentLabel {
	switch {
	case compound >= 0.05:
		return SentimentPositive
	case compound <= -0.05:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// EnrichedArticle is an Article with sentiment and optional market impact.
type EnrichedArticle struct {
	Article
	Sentiment    SentimentResult
	MarketImpact string
}

// ClosePrice is one sample of a closing-price series.
type ClosePrice struct {
	Time  time.Time
	Close float64
}

// IndicatorSnapshot holds the trailing close window and the indicators
// derived from it. RSI or MACD may be NaN when the window is shorter than
// the indicator's minimum period.
type IndicatorSnapshot struct {
	Symbol string
	AsOf   time.Time
	Closes []ClosePrice
	RSI    float64
	MACD   float64
}

// PercentChange returns the percent change between the first and last
// close in the window, or NaN when the window has fewer than two samples.
func (s *IndicatorSnapshot) PercentChange() float64 {
	if len(s.Closes) < 2 {
		return math.NaN()
	}
	first := s.Closes[0].Close
	last := s.Closes[len(s.Closes)-1].Close
	if first == 0 {
		return math.NaN()
	}
	return (last - first) / first * 100
}

// Frequency is a delivery cadence.
type Frequency string

const (
	FrequencyHourly   Frequency = "hourly"
	FrequencyDaily    Frequency = "daily"
	FrequencyBreaking Frequency = "breaking"
)

// ParseFrequency validates a user-supplied frequency string.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyHourly:
		return FrequencyHourly, nil
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyBreaking:
		return FrequencyBreaking, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidInput, "unknown frequency %q", s)
	}
}

// Subscription holds one subscriber's topic set and delivery cadence.
type Subscription struct {
	SubscriberID int64
	Topics       []Topic
	Frequency    Frequency
	LastUpdate   time.Time
}
