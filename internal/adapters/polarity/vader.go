package polarity

import (
	"context"
	"math"

	"github.com/jonreiter/govader"
)

// Vader is the local scorer: the VADER compound score, which is already
// normalized to [-1,1]. Text with no sentiment-bearing words scores 0.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader loads the VADER lexicon once; the analyzer is read-only after that
// and safe for concurrent use.
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Score(_ context.Context, text string) float64 {
	c := v.analyzer.PolarityScores(text).Compound
	if math.IsNaN(c) {
		return 0
	}
	return clamp(c)
}
