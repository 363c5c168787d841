package analytics

import (
	"slices"

	"review_insights/internal/domain"
)

// TopModelsLimit is the size of the cross-brand model leaderboard.
const TopModelsLimit = 5

// ModelRank is one leaderboard entry.
type ModelRank struct {
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	TotalReviews  int             `json:"total_reviews"`
	Sentiments    SentimentCounts `json:"sentiments"`
	AvgRating     *float64        `json:"avg_rating"`
	PositiveRatio float64         `json:"positive_ratio"`
	Score         float64         `json:"score"`
}

// TopModels ranks brand+model groups by (score, total) descending. Ties keep
// encounter order.
func TopModels(reviews []domain.Review, n int) []ModelRank {
	groups := groupBy(reviews, byBrandModel)
	out := make([]ModelRank, 0, len(groups))
	for _, g := range groups {
		total := len(g.reviews)
		counts := CountSentiments(g.reviews)
		avg := meanRating(g.reviews)
		pos := ratio(counts.Positive, total)
		out = append(out, ModelRank{
			Brand:         g.key.brand,
			Model:         g.key.model,
			TotalReviews:  total,
			Sentiments:    counts,
			AvgRating:     round2Ptr(avg),
			PositiveRatio: Round2(pos * 100),
			Score:         LeaderboardScore(pos, avg),
		})
	}
	slices.SortStableFunc(out, func(a, b ModelRank) int {
		if c := cmpDesc(a.Score, b.Score); c != 0 {
			return c
		}
		return b.TotalReviews - a.TotalReviews
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// BrandAnalysis is the buyer-facing brand breakdown.
type BrandAnalysis struct {
	Brand             string                            `json:"brand"`
	TotalReviews      int                               `json:"total_reviews"`
	Sentiments        SentimentCounts                   `json:"sentiments"`
	AvgRating         *float64                          `json:"avg_rating"`
	PositivePct       float64                           `json:"positive_pct"`
	NegativePct       float64                           `json:"negative_pct"`
	StrengthScore     float64                           `json:"strength_score"`
	FeatureSentiments map[domain.Aspect]SentimentCounts `json:"feature_sentiments"`
}

// AnalyzeBrands skips the Unknown brand and sorts by strength, descending.
func AnalyzeBrands(reviews []domain.Review) []BrandAnalysis {
	groups := groupBy(reviews, byBrand)
	out := make([]BrandAnalysis, 0, len(groups))
	for _, g := range groups {
		if g.key == domain.Unknown {
			continue
		}
		total := len(g.reviews)
		counts := CountSentiments(g.reviews)
		avg := meanRating(g.reviews)
		out = append(out, BrandAnalysis{
			Brand:             g.key,
			TotalReviews:      total,
			Sentiments:        counts,
			AvgRating:         round2Ptr(avg),
			PositivePct:       Percentage(counts.Positive, total),
			NegativePct:       Percentage(counts.Negative, total),
			StrengthScore:     StrengthScore(ratio(counts.Positive, total), avg),
			FeatureSentiments: tallyFeatures(g.reviews).asMap(),
		})
	}
	slices.SortStableFunc(out, func(a, b BrandAnalysis) int { return cmpDesc(a.StrengthScore, b.StrengthScore) })
	return out
}

// ModelAnalysis is the buyer-facing model breakdown.
type ModelAnalysis struct {
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	TotalReviews      int             `json:"total_reviews"`
	Sentiments        SentimentCounts `json:"sentiments"`
	AvgRating         *float64        `json:"avg_rating"`
	PositivePct       float64         `json:"positive_pct"`
	NegativePct       float64         `json:"negative_pct"`
	OverallScore      float64         `json:"overall_score"`
	StrongestFeatures []FeatureScore  `json:"strongest_features"`
	WeakestFeatures   []FeatureScore  `json:"weakest_features"`
}

// AnalyzeModels skips groups with an Unknown brand or model and sorts by
// overall score, descending.
func AnalyzeModels(reviews []domain.Review) []ModelAnalysis {
	groups := groupBy(reviews, byBrandModel)
	out := make([]ModelAnalysis, 0, len(groups))
	for _, g := range groups {
		if g.key.brand == domain.Unknown || g.key.model == domain.Unknown {
			continue
		}
		total := len(g.reviews)
		counts := CountSentiments(g.reviews)
		avg := meanRating(g.reviews)
		strongest, weakest := rankFeatures(tallyFeatures(g.reviews))
		out = append(out, ModelAnalysis{
			Brand:             g.key.brand,
			Model:             g.key.model,
			TotalReviews:      total,
			Sentiments:        counts,
			AvgRating:         round2Ptr(avg),
			PositivePct:       Percentage(counts.Positive, total),
			NegativePct:       Percentage(counts.Negative, total),
			OverallScore:      LeaderboardScore(ratio(counts.Positive, total), avg),
			StrongestFeatures: strongest,
			WeakestFeatures:   weakest,
		})
	}
	slices.SortStableFunc(out, func(a, b ModelAnalysis) int { return cmpDesc(a.OverallScore, b.OverallScore) })
	return out
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
