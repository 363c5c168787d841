package analytics

import (
	"review_insights/internal/domain"
)

const (
	buyerTopReviews = 3
	recentWindow    = 100
)

type Summary struct {
	TotalReviews    int             `json:"total_reviews"`
	SentimentCounts SentimentCounts `json:"sentiment_counts"`
	PositivePct     float64         `json:"positive_pct"`
	NeutralPct      float64         `json:"neutral_pct"`
	NegativePct     float64         `json:"negative_pct"`
	AvgRating       *float64        `json:"avg_rating"`
}

func Summarize(reviews []domain.Review) Summary {
	total := len(reviews)
	c := CountSentiments(reviews)
	return Summary{
		TotalReviews:    total,
		SentimentCounts: c,
		PositivePct:     Percentage(c.Positive, total),
		NeutralPct:      Percentage(c.Neutral, total),
		NegativePct:     Percentage(c.Negative, total),
		AvgRating:       round2Ptr(meanRating(reviews)),
	}
}

type TopReviews struct {
	Positive []domain.Review `json:"positive"`
	Negative []domain.Review `json:"negative"`
}

// BrandSegment is the buyer view scoped to one set of records. It is the
// shape of each per-brand sub-report and the base of the full report.
type BrandSegment struct {
	Summary      Summary       `json:"summary"`
	FeatureTiles []FeatureTile `json:"feature_tiles"`
	Trend        []TrendBucket `json:"trend"`
	TopModels    []ModelRank   `json:"top_models"`
	TopReviews   TopReviews    `json:"top_reviews"`
}

// BuyerInsight is the full buyer report for one record set.
type BuyerInsight struct {
	BrandSegment
	BrandAnalysis   []BrandAnalysis         `json:"brand_analysis"`
	ModelAnalysis   []ModelAnalysis         `json:"model_analysis"`
	Recommendations []string                `json:"recommendations"`
	BrandSegments   map[string]BrandSegment `json:"brand_segments"`
}

// BuyerInsights holds one report per dataset plus one over their union.
type BuyerInsights struct {
	Datasets map[string]BuyerInsight `json:"datasets"`
	Overall  *BuyerInsight           `json:"overall,omitempty"`
}

func buildSegment(reviews []domain.Review) BrandSegment {
	return BrandSegment{
		Summary:      Summarize(reviews),
		FeatureTiles: FeatureTiles(reviews),
		Trend:        MonthlyTrend(reviews),
		TopModels:    TopModels(reviews, TopModelsLimit),
		TopReviews: TopReviews{
			Positive: ExtremalReviews(reviews, domain.Positive, buyerTopReviews),
			Negative: ExtremalReviews(reviews, domain.Negative, buyerTopReviews),
		},
	}
}

// BuildBuyerInsight assembles the buyer report over one record set.
func BuildBuyerInsight(reviews []domain.Review) BuyerInsight {
	seg := buildSegment(reviews)

	segments := map[string]BrandSegment{}
	for _, g := range groupBy(reviews, byBrand) {
		if g.key == domain.Unknown || len(g.reviews) == 0 {
			continue
		}
		segments[g.key] = buildSegment(g.reviews)
	}

	return BuyerInsight{
		BrandSegment:    seg,
		BrandAnalysis:   AnalyzeBrands(reviews),
		ModelAnalysis:   AnalyzeModels(reviews),
		Recommendations: BuyerRecommendations(reviews, seg.TopModels, seg.FeatureTiles),
		BrandSegments:   segments,
	}
}

// BuildBuyerInsights builds a report per dataset and an overall report over
// the combined view. Overall is omitted when there are no datasets.
func BuildBuyerInsights(datasets []domain.Dataset) BuyerInsights {
	out := BuyerInsights{Datasets: make(map[string]BuyerInsight, len(datasets))}
	for _, ds := range datasets {
		out.Datasets[ds.Name] = BuildBuyerInsight(ds.Reviews)
	}
	if len(datasets) > 0 {
		overall := BuildBuyerInsight(domain.Combined(datasets))
		out.Overall = &overall
	}
	return out
}
