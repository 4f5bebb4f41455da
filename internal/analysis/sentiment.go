package analysis

import (
	"github.com/jonreiter/govader"

	"herald/internal/domain/news"
)

// SentimentScorer maps text to a compound polarity score using the VADER
// lexicon. Scoring is pure and deterministic for a fixed lexicon.
type SentimentScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentScorer creates a scorer with the default VADER lexicon.
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound score and its bucket for the given text.
func (s *SentimentScorer) Score(text string) news.SentimentResult {
	compound := s.analyzer.PolarityScores(text).Compound
	return news.SentimentResult{
		Compound: compound,
		Label:    news.LabelFor(compound),
	}
}
