package analytics

import (
	"slices"

	"review_insights/internal/domain"
)

const supplierTopReviews = 5

// BrandHealth is one row of the supplier brand overview.
type BrandHealth struct {
	Brand        string          `json:"brand"`
	TotalReviews int             `json:"total_reviews"`
	Sentiments   SentimentCounts `json:"sentiments"`
	AvgRating    *float64        `json:"avg_rating"`
	PositivePct  float64         `json:"positive_pct"`
	NegativePct  float64         `json:"negative_pct"`
	HealthScore  float64         `json:"health_score"`
}

type ModelPerformance struct {
	Model              string                            `json:"model"`
	TotalReviews       int                               `json:"total_reviews"`
	Sentiments         SentimentCounts                   `json:"sentiments"`
	AvgRating          *float64                          `json:"avg_rating"`
	PositivePct        float64                           `json:"positive_pct"`
	NegativePct        float64                           `json:"negative_pct"`
	FeaturePerformance map[domain.Aspect]SentimentCounts `json:"feature_performance"`
}

type Complaint struct {
	Feature    domain.Aspect `json:"feature"`
	Complaints int           `json:"complaints"`
}

type RegionStat struct {
	Country      string          `json:"country"`
	TotalReviews int             `json:"total_reviews"`
	Sentiments   SentimentCounts `json:"sentiments"`
}

type DemographicStat struct {
	AgeGroup     string          `json:"age_group"`
	TotalReviews int             `json:"total_reviews"`
	Sentiments   SentimentCounts `json:"sentiments"`
	AvgRating    *float64        `json:"avg_rating"`
}

// BrandInsight is the per-brand supplier detail object.
type BrandInsight struct {
	Summary              BrandHealth                       `json:"summary"`
	RegionalDistribution []RegionStat                      `json:"regional_distribution"`
	Demographics         []DemographicStat                 `json:"demographics"`
	FeatureSentiments    map[domain.Aspect]SentimentCounts `json:"feature_sentiments"`
	ComplaintVolume      []Complaint                       `json:"complaint_volume"`
}

type SupplierInsight struct {
	BrandOverview        []BrandHealth                                `json:"brand_overview"`
	ModelBreakdown       map[string][]ModelPerformance                `json:"model_breakdown"`
	FeatureHeatmap       map[string]map[domain.Aspect]SentimentCounts `json:"feature_heatmap"`
	ComplaintVolume      []Complaint                                  `json:"complaint_volume"`
	RegionalDistribution []RegionStat                                 `json:"regional_distribution"`
	Demographics         []DemographicStat                            `json:"demographics"`
	TopReviews           []domain.Review                              `json:"top_reviews"`
	Recommendations      []string                                     `json:"recommendations"`
	BrandInsights        map[string]BrandInsight                      `json:"brand_insights"`
}

type SupplierInsights struct {
	Datasets map[string]SupplierInsight `json:"datasets"`
	Overall  *SupplierInsight           `json:"overall,omitempty"`
}

func brandHealth(brand string, reviews []domain.Review) BrandHealth {
	total := len(reviews)
	c := CountSentiments(reviews)
	avg := meanRating(reviews)
	return BrandHealth{
		Brand:        brand,
		TotalReviews: total,
		Sentiments:   c,
		AvgRating:    round2Ptr(avg),
		PositivePct:  Percentage(c.Positive, total),
		NegativePct:  Percentage(c.Negative, total),
		HealthScore:  HealthScore(ratio(c.Positive, total), ratio(c.Negative, total), avg),
	}
}

// ModelBreakdown groups one brand's records by model, sorted by
// (negative count, -total) ascending.
func ModelBreakdown(reviews []domain.Review) []ModelPerformance {
	groups := groupBy(reviews, byModel)
	out := make([]ModelPerformance, 0, len(groups))
	for _, g := range groups {
		total := len(g.reviews)
		c := CountSentiments(g.reviews)
		out = append(out, ModelPerformance{
			Model:              g.key,
			TotalReviews:       total,
			Sentiments:         c,
			AvgRating:          round2Ptr(meanRating(g.reviews)),
			PositivePct:        Percentage(c.Positive, total),
			NegativePct:        Percentage(c.Negative, total),
			FeaturePerformance: tallyFeatures(g.reviews).asMap(),
		})
	}
	slices.SortStableFunc(out, func(a, b ModelPerformance) int {
		if a.Sentiments.Negative != b.Sentiments.Negative {
			return a.Sentiments.Negative - b.Sentiments.Negative
		}
		return b.TotalReviews - a.TotalReviews
	})
	return out
}

// RegionalDistribution groups by country, sorted by volume descending.
func RegionalDistribution(reviews []domain.Review) []RegionStat {
	groups := groupBy(reviews, byCountry)
	out := make([]RegionStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, RegionStat{Country: g.key, TotalReviews: len(g.reviews), Sentiments: CountSentiments(g.reviews)})
	}
	slices.SortStableFunc(out, func(a, b RegionStat) int { return b.TotalReviews - a.TotalReviews })
	return out
}

// Demographics buckets records with an age into the fixed bands, sorted by
// volume descending. Records without an in-range age are excluded.
func Demographics(reviews []domain.Review) []DemographicStat {
	bands := make([][]domain.Review, len(ageLabels))
	for _, r := range reviews {
		if r.Age == nil {
			continue
		}
		if b := AgeBand(*r.Age); b >= 0 {
			bands[b] = append(bands[b], r)
		}
	}
	out := make([]DemographicStat, 0, len(bands))
	for i, rs := range bands {
		if len(rs) == 0 {
			continue
		}
		out = append(out, DemographicStat{
			AgeGroup:     AgeLabel(i),
			TotalReviews: len(rs),
			Sentiments:   CountSentiments(rs),
			AvgRating:    round2Ptr(meanRating(rs)),
		})
	}
	slices.SortStableFunc(out, func(a, b DemographicStat) int { return b.TotalReviews - a.TotalReviews })
	return out
}

// complaintRanking lists each aspect's negative count, descending.
func complaintRanking(t *featureTally, keepZero bool) []Complaint {
	out := make([]Complaint, 0, len(t.order))
	for _, a := range t.order {
		n := t.counts[a].Negative
		if n == 0 && !keepZero {
			continue
		}
		out = append(out, Complaint{Feature: a, Complaints: n})
	}
	slices.SortStableFunc(out, func(a, b Complaint) int { return b.Complaints - a.Complaints })
	return out
}

// BuildSupplierInsight assembles the supplier report over one record set.
func BuildSupplierInsight(reviews []domain.Review) SupplierInsight {
	out := SupplierInsight{
		BrandOverview:  []BrandHealth{},
		ModelBreakdown: map[string][]ModelPerformance{},
		FeatureHeatmap: map[string]map[domain.Aspect]SentimentCounts{},
		BrandInsights:  map[string]BrandInsight{},
	}
	var allModels []ModelPerformance

	for _, g := range groupBy(reviews, byBrand) {
		health := brandHealth(g.key, g.reviews)
		out.BrandOverview = append(out.BrandOverview, health)

		models := ModelBreakdown(g.reviews)
		out.ModelBreakdown[g.key] = models
		allModels = append(allModels, models...)

		features := tallyFeatures(g.reviews)
		if len(features.order) > 0 {
			out.FeatureHeatmap[g.key] = features.asMap()
		}

		out.BrandInsights[g.key] = BrandInsight{
			Summary:              health,
			RegionalDistribution: RegionalDistribution(g.reviews),
			Demographics:         Demographics(g.reviews),
			FeatureSentiments:    features.asMap(),
			ComplaintVolume:      complaintRanking(features, true),
		}
	}

	out.ComplaintVolume = complaintRanking(tallyFeatures(reviews), false)
	out.RegionalDistribution = RegionalDistribution(reviews)
	out.Demographics = Demographics(reviews)
	out.TopReviews = ExtremalReviews(reviews, domain.Negative, supplierTopReviews)

	// Recommendations see brands in encounter order; sort afterwards.
	out.Recommendations = SupplierRecommendations(reviews, out.BrandOverview, allModels, out.ComplaintVolume)
	slices.SortStableFunc(out.BrandOverview, func(a, b BrandHealth) int { return cmpDesc(a.HealthScore, b.HealthScore) })
	return out
}

// BuildSupplierInsights builds a report per dataset and an overall report over
// the combined view.
func BuildSupplierInsights(datasets []domain.Dataset) SupplierInsights {
	out := SupplierInsights{Datasets: make(map[string]SupplierInsight, len(datasets))}
	for _, ds := range datasets {
		out.Datasets[ds.Name] = BuildSupplierInsight(ds.Reviews)
	}
	if len(datasets) > 0 {
		overall := BuildSupplierInsight(domain.Combined(datasets))
		out.Overall = &overall
	}
	return out
}
