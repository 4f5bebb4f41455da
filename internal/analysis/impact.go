package analysis

import (
	"fmt"
	"math"
	"strings"

	"herald/internal/domain/news"
)

// RSI thresholds for market condition classification.
const (
	rsiOverbought = 70
	rsiOversold   = 30
)

// Significant 24h price movement threshold, in percent.
const significantMovePct = 5

// CorrelateImpact combines a sentiment score with an indicator snapshot
// into a short impact statement, one observation per line. A nil snapshot
// means market data could not be fetched. NaN indicators contribute no
// lines. MACD exactly zero is neither bullish nor bearish.
func CorrelateImpact(sentiment news.SentimentResult, snap *news.IndicatorSnapshot) string {
	if snap == nil {
		return "Market data unavailable"
	}

	condition := "neutral"
	if snap.RSI > rsiOverbought {
		condition = "overbought"
	} else if snap.RSI < rsiOversold {
		condition = "oversold"
	}

	var lines []string
	if sentiment.Compound > 0.2 && condition == "oversold" {
		lines = append(lines, "Strong potential for price increase")
	} else if sentiment.Compound < -0.2 && condition == "overbought" {
		lines = append(lines, "High risk of price correction")
	}

	if change := snap.PercentChange(); math.Abs(change) > significantMovePct {
		lines = append(lines, fmt.Sprintf("Significant price movement (%.2f%%) in last 24h", change))
	}

	if snap.MACD > 0 {
		lines = append(lines, "MACD indicates bullish momentum")
	} else if snap.MACD < 0 {
		lines = append(lines, "MACD indicates bearish momentum")
	}

	if len(lines) == 0 {
		return "Market impact unclear"
	}
	return strings.Join(lines, "\n")
}
