package analytics

import (
	"slices"

	"review_insights/internal/domain"
)

// featureTally counts aspect sentiments, remembering first-encounter order.
// Within one record aspects are visited in vocabulary order.
type featureTally struct {
	order  []domain.Aspect
	counts map[domain.Aspect]*SentimentCounts
}

func newFeatureTally() *featureTally {
	return &featureTally{counts: map[domain.Aspect]*SentimentCounts{}}
}

func (t *featureTally) addReview(r domain.Review) {
	for _, a := range domain.Aspects {
		s, ok := r.FeatureSentiments[a]
		if !ok || !s.Valid() {
			continue
		}
		c, ok := t.counts[a]
		if !ok {
			c = &SentimentCounts{}
			t.counts[a] = c
			t.order = append(t.order, a)
		}
		c.Add(s)
	}
}

func tallyFeatures(reviews []domain.Review) *featureTally {
	t := newFeatureTally()
	for _, r := range reviews {
		t.addReview(r)
	}
	return t
}

// asMap copies the tally into a plain map for serialization.
func (t *featureTally) asMap() map[domain.Aspect]SentimentCounts {
	out := make(map[domain.Aspect]SentimentCounts, len(t.order))
	for _, a := range t.order {
		out[a] = *t.counts[a]
	}
	return out
}

// FeatureTile is the per-aspect aggregate shown in buyer reports.
type FeatureTile struct {
	Feature     domain.Aspect   `json:"feature"`
	Counts      SentimentCounts `json:"counts"`
	Total       int             `json:"total"`
	PositivePct float64         `json:"positive_pct"`
}

// FeatureTiles are sorted by mention count, descending.
func FeatureTiles(reviews []domain.Review) []FeatureTile {
	t := tallyFeatures(reviews)
	out := make([]FeatureTile, 0, len(t.order))
	for _, a := range t.order {
		c := *t.counts[a]
		out = append(out, FeatureTile{
			Feature:     a,
			Counts:      c,
			Total:       c.Total(),
			PositivePct: Percentage(c.Positive, c.Total()),
		})
	}
	slices.SortStableFunc(out, func(a, b FeatureTile) int { return b.Total - a.Total })
	return out
}

// FeatureScore ranks one aspect within a model.
type FeatureScore struct {
	Feature     domain.Aspect `json:"feature"`
	PositivePct float64       `json:"positive_pct"`
	Mentions    int           `json:"mentions"`
}

// rankFeatures orders aspects by (positive%, mentions) descending and returns
// the top three and the bottom three, worst first.
func rankFeatures(t *featureTally) (strongest, weakest []FeatureScore) {
	scores := make([]FeatureScore, 0, len(t.order))
	for _, a := range t.order {
		c := *t.counts[a]
		if c.Total() == 0 {
			continue
		}
		scores = append(scores, FeatureScore{Feature: a, PositivePct: Percentage(c.Positive, c.Total()), Mentions: c.Total()})
	}
	slices.SortStableFunc(scores, func(a, b FeatureScore) int {
		if c := cmpDesc(a.PositivePct, b.PositivePct); c != 0 {
			return c
		}
		return b.Mentions - a.Mentions
	})

	strongest = append([]FeatureScore{}, scores[:min(3, len(scores))]...)
	weakest = make([]FeatureScore, 0, 3)
	for i := len(scores) - 1; i >= 0 && i >= len(scores)-3; i-- {
		weakest = append(weakest, scores[i])
	}
	return strongest, weakest
}
