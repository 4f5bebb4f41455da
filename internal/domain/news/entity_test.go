package news

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLabelFor_Boundaries(t *testing.T) {
	assert.Equal(t, SentimentPositive, LabelFor(0.05), "0.05 is positive, not neutral")
	assert.Equal(t, SentimentNegative, LabelFor(-0.05), "-0.05 is negative, not neutral")
	assert.Equal(t, SentimentNeutral, LabelFor(0.049))
	assert.Equal(t, SentimentNeutral, LabelFor(-0.049))
	assert.Equal(t, SentimentNeutral, LabelFor(0))
	assert.Equal(t, SentimentPositive, LabelFor(0.8))
	assert.Equal(t, SentimentNegative, LabelFor(-0.8))
}

func TestSentimentLabel_Emoji(t *testing.T) {
	assert.Equal(t, "📈", SentimentPositive.Emoji())
	assert.Equal(t, "📉", SentimentNegative.Emoji())
	assert.Equal(t, "➡️", SentimentNeutral.Emoji())
}

func TestNormalizedTitle(t *testing.T) {
	a := Article{Title: "  Bitcoin\tHits  New\nHigh "}
	assert.Equal(t, "bitcoin hits new high", a.NormalizedTitle())
}

func TestIndicatorSnapshot_PercentChange(t *testing.T) {
	now := time.Now()
	snap := &IndicatorSnapshot{
		Closes: []ClosePrice{
			{Time: now.Add(-2 * time.Hour), Close: 100},
			{Time: now.Add(-time.Hour), Close: 95},
			{Time: now, Close: 110},
		},
	}
	assert.InDelta(t, 10.0, snap.PercentChange(), 1e-9)

	empty := &IndicatorSnapshot{}
	assert.True(t, math.IsNaN(empty.PercentChange()))

	single := &IndicatorSnapshot{Closes: []ClosePrice{{Close: 100}}}
	assert.True(t, math.IsNaN(single.PercentChange()))
}

func TestSymbol(t *testing.T) {
	sym, ok := Symbol(TopicBitcoin)
	assert.True(t, ok)
	assert.Equal(t, "BTCUSDT", sym)

	sym, ok = Symbol(TopicMarkets)
	assert.True(t, ok)
	assert.Equal(t, "BTCUSDT", sym)

	_, ok = Symbol(TopicRegulation)
	assert.False(t, ok, "regulation has no tradable symbol")
}
