package analytics_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insights/internal/analytics"
	"review_insights/internal/domain"
)

func TestRecommendations_AlwaysFive(t *testing.T) {
	buyer := analytics.BuyerRecommendations(nil, nil, nil)
	require.Len(t, buyer, analytics.RecommendationCount)
	assert.Equal(t, "Explore multiple brands to find the best fit for your needs based on available reviews.", buyer[0])
	assert.Equal(t, "Compare prices across platforms and wait for sales if budget is a primary concern.", buyer[3])
	assert.Equal(t, "Limited Data: Only 0 reviews available. Cross-reference with other sources for a complete picture.", buyer[4])

	supplier := analytics.SupplierRecommendations(nil, nil, nil, nil)
	require.Len(t, supplier, analytics.RecommendationCount)
	assert.Equal(t, "Continue current quality standards while monitoring emerging customer feedback trends.", supplier[0])
	assert.Equal(t, "Expand review monitoring to capture more market feedback.", supplier[1])
	assert.Equal(t, "Develop model-specific tracking to identify improvement opportunities.", supplier[2])

	empty := analytics.BuildBuyerInsight(nil)
	assert.Len(t, empty.Recommendations, 5)
	assert.Len(t, analytics.BuildSupplierInsight(nil).Recommendations, 5)
}

func TestBuyerRecommendations_Templates(t *testing.T) {
	top := []analytics.ModelRank{{Brand: "Apple", Model: "iPhone 15", TotalReviews: 12, PositiveRatio: 75, AvgRating: ptr(4.25)}}
	tiles := []analytics.FeatureTile{
		{Feature: domain.AspectBattery, Total: 40, PositivePct: 30},
		{Feature: domain.AspectCamera, Total: 20, PositivePct: 80},
		{Feature: domain.AspectUI, Total: 5, PositivePct: 90},
	}
	recs := analytics.BuyerRecommendations(nil, top, tiles)
	assert.Equal(t, "Top Choice: Apple iPhone 15 leads with 75.0% positive sentiment and 4.25/5 rating across 12 reviews.", recs[0])
	assert.Equal(t, "Prioritize Battery: Most discussed feature with 30.0% positive feedback. Compare models based on this critical aspect.", recs[1])
	assert.Equal(t, "Strong Performers: Camera and Ui receive consistently high praise. Look for models excelling in these areas.", recs[2])
	assert.Equal(t, "Watch Out: Battery shows only 30.0% satisfaction. Verify this aspect carefully before purchase.", recs[3])
}

func TestBuyerRecommendations_RecentTrend(t *testing.T) {
	var in []rv
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 150; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		s := domain.Negative
		if i >= 50 {
			s = domain.Positive
		}
		in = append(in, rv{sentiment: s, at: &ts})
	}
	recs := analytics.BuyerRecommendations(build("x", in...), nil, nil)
	assert.Equal(t, "Recent Trends: Latest reviews show 100.0% positive sentiment. Consider recent feedback as it reflects current product quality.", recs[4])
}

func TestSupplierInsight(t *testing.T) {
	rs := build("x",
		rv{brand: "Nokia", model: "G42", country: "Finland", sentiment: domain.Negative,
			features: map[domain.Aspect]domain.Sentiment{domain.AspectBattery: domain.Negative, domain.AspectCamera: domain.Negative}},
		rv{brand: "Nokia", model: "G42", country: "India", sentiment: domain.Negative,
			features: map[domain.Aspect]domain.Sentiment{domain.AspectBattery: domain.Negative}},
		rv{brand: "Nokia", model: "X30", country: "India", sentiment: domain.Positive, rating: ptr(5.0)},
		rv{brand: "Sony", model: "Xperia", country: "India", sentiment: domain.Positive, rating: ptr(5.0), age: ptr(30),
			features: map[domain.Aspect]domain.Sentiment{domain.AspectDisplay: domain.Positive}},
		rv{brand: "Unknown", model: "Unknown", sentiment: domain.Neutral},
	)
	in := analytics.BuildSupplierInsight(rs)

	require.Len(t, in.BrandOverview, 3)
	assert.Equal(t, "Sony", in.BrandOverview[0].Brand)
	assert.Equal(t, 80.0, in.BrandOverview[0].HealthScore)
	assert.Equal(t, "Unknown", in.BrandOverview[2].Brand)

	nokia := in.ModelBreakdown["Nokia"]
	require.Len(t, nokia, 2)
	assert.Equal(t, "X30", nokia[0].Model)
	assert.Equal(t, "G42", nokia[1].Model)

	require.Len(t, in.ComplaintVolume, 2)
	assert.Equal(t, analytics.Complaint{Feature: domain.AspectBattery, Complaints: 2}, in.ComplaintVolume[0])
	assert.Equal(t, 2, in.FeatureHeatmap["Nokia"][domain.AspectBattery].Negative)
	_, ok := in.FeatureHeatmap["Unknown"]
	assert.False(t, ok)

	assert.Equal(t, "India", in.RegionalDistribution[0].Country)
	assert.Equal(t, 3, in.RegionalDistribution[0].TotalReviews)

	require.Len(t, in.Demographics, 1)
	assert.Equal(t, "25-34", in.Demographics[0].AgeGroup)

	assert.Len(t, in.TopReviews, 2)

	sony := in.BrandInsights["Sony"]
	assert.Equal(t, []analytics.Complaint{{Feature: domain.AspectDisplay, Complaints: 0}}, sony.ComplaintVolume)
	assert.Empty(t, in.BrandInsights["Unknown"].ComplaintVolume)

	assert.Equal(t, "Critical Priority: Battery issues reported in 2 reviews. Conduct immediate engineering review and quality control audit.", in.Recommendations[0])
	assert.True(t, strings.HasPrefix(in.Recommendations[1], "Portfolio Alert: Nokia has 66.67% negative sentiment."), in.Recommendations[1])
	assert.Equal(t, "Model Action Required: G42 shows 100.0% negative feedback. Consider recalls, firmware updates, or production line modifications.", in.Recommendations[2])
	assert.Equal(t, "R&D Focus Areas: Prioritize improvements in Battery, Camera. Allocate resources to address these pain points in next product cycle.", in.Recommendations[3])
	assert.Equal(t, "Expand feedback collection channels to gather more comprehensive market intelligence.", in.Recommendations[4])
}

func TestBuildBuyerInsights_PerDatasetAndOverall(t *testing.T) {
	datasets := []domain.Dataset{
		{Name: "twitter", Reviews: build("twitter",
			rv{brand: "Apple", sentiment: domain.Positive, at: at(2024, 2, 1)},
			rv{brand: "Unknown", sentiment: domain.Negative})},
		{Name: "ecommerce", Reviews: build("ecommerce",
			rv{brand: "Apple", model: "iPhone 15", sentiment: domain.Positive, rating: ptr(5.0)})},
	}
	out := analytics.BuildBuyerInsights(datasets)
	require.Len(t, out.Datasets, 2)
	require.NotNil(t, out.Overall)
	assert.Equal(t, 3, out.Overall.Summary.TotalReviews)
	assert.Equal(t, 66.67, out.Overall.Summary.PositivePct)

	require.Contains(t, out.Overall.BrandSegments, "Apple")
	assert.NotContains(t, out.Overall.BrandSegments, "Unknown")
	assert.Equal(t, 2, out.Overall.BrandSegments["Apple"].Summary.TotalReviews)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"brand_segments"`)
	assert.Contains(t, string(raw), `"feature_tiles":[]`)

	none := analytics.BuildBuyerInsights(nil)
	assert.Nil(t, none.Overall)
	assert.Empty(t, none.Datasets)
}

func TestBuildFilterOptions(t *testing.T) {
	datasets := []domain.Dataset{
		{Name: "reddit", Reviews: build("reddit",
			rv{brand: "Sony", model: "Sony", country: "Japan", features: map[domain.Aspect]domain.Sentiment{domain.AspectUI: domain.Neutral}},
			rv{brand: "Apple", country: "Unknown"})},
		{Name: "ecommerce", Reviews: build("ecommerce",
			rv{brand: "Apple", model: "iPhone 15", country: "India",
				features: map[domain.Aspect]domain.Sentiment{domain.AspectBattery: domain.Positive}})},
	}
	out := analytics.BuildFilterOptions(datasets)
	assert.Equal(t, []domain.Sentiment{domain.Positive, domain.Neutral, domain.Negative}, out.Sentiments)
	assert.Equal(t, []string{"Apple", "Sony"}, out.Datasets["reddit"].Brands)
	require.NotNil(t, out.Overall)
	assert.Equal(t, []string{"Apple", "Sony"}, out.Overall.Brands)
	assert.Equal(t, []string{"Sony", "iPhone 15"}, out.Overall.Models)
	assert.Equal(t, []string{"India", "Japan"}, out.Overall.Countries)
	assert.Equal(t, []string{"Test"}, out.Overall.Sources)
	assert.Equal(t, []domain.Aspect{domain.AspectBattery, domain.AspectUI}, out.Overall.Features)
}

func TestBuildModelRecommender(t *testing.T) {
	withPrice := func(brand, model string, rating, price float64, battery float64) domain.Review {
		r := domain.Review{Brand: brand, Model: model, Sentiment: domain.Neutral, Rating: ptr(rating), PriceUSD: ptr(price),
			AspectRatings: map[domain.Aspect]float64{domain.AspectBattery: battery}}
		return r.Finalize()
	}
	datasets := []domain.Dataset{{Name: domain.OriginEcommerce, Reviews: []domain.Review{
		withPrice("Xiaomi", "Note 12", 4, 200, 4),
		withPrice("Xiaomi", "Note 12", 5, 300, 5),
		withPrice("Apple", "iPhone 15", 4.5, 900, 3),
		withPrice("Samsung", "A54", 4.5, 400, 4),
		withPrice("Unknown", "A1", 5, 10, 5),
		withPrice("Sony", "Unknown", 5, 10, 5),
	}}}
	out := analytics.BuildModelRecommender(datasets)

	require.Len(t, out.Models, 3)
	// equal ratings: cheaper first
	assert.Equal(t, []string{"Xiaomi", "Samsung", "Apple"}, []string{out.Models[0].Brand, out.Models[1].Brand, out.Models[2].Brand})
	x := out.Models[0]
	assert.Equal(t, 4.5, *x.AvgRating)
	assert.Equal(t, 250.0, *x.AvgPriceUSD)
	assert.Equal(t, 20750.0, *x.AvgPriceINR)
	assert.Equal(t, 4.5, *x.AvgBatteryRating)
	assert.Nil(t, x.AvgCameraRating)
	assert.Equal(t, 2, x.ReviewCount)

	require.Len(t, out.Brands, 3)
	assert.Equal(t, "Apple", out.Brands[0].Brand)
	assert.Equal(t, analytics.AdvisorSummary{BrandCount: 3, ModelCount: 3, MinPriceUSD: ptr(250.0), MaxPriceUSD: ptr(900.0)}, out.Summary)
	assert.Equal(t, 83.0, out.Currency.USDToINR)

	empty := analytics.BuildModelRecommender([]domain.Dataset{{Name: "twitter"}})
	assert.Empty(t, empty.Models)
	assert.NotNil(t, empty.Brands)
	assert.Zero(t, empty.Summary.ModelCount)
	assert.Nil(t, empty.Summary.MinPriceUSD)
}

func TestQueryReviews_Pagination(t *testing.T) {
	in := make([]rv, 95)
	for i := range in {
		ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(95-i) * time.Minute)
		in[i] = rv{at: &ts}
	}
	datasets := []domain.Dataset{{Name: "x", Reviews: build("x", in...)}}

	p := analytics.QueryReviews(datasets, analytics.ReviewFilters{Page: 5, PageSize: 20})
	assert.Equal(t, 95, p.Total)
	assert.Equal(t, 5, p.TotalPages)
	require.Len(t, p.Reviews, 15)
	assert.Equal(t, "x_80", p.Reviews[0].ID)
	assert.Equal(t, "x_94", p.Reviews[14].ID)

	p = analytics.QueryReviews(datasets, analytics.ReviewFilters{Page: 6, PageSize: 20})
	assert.Empty(t, p.Reviews)
	assert.NotNil(t, p.Reviews)
	assert.Equal(t, 5, p.TotalPages)

	p = analytics.QueryReviews(datasets, analytics.ReviewFilters{Page: -3, PageSize: 1000})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)
	assert.Len(t, p.Reviews, 95)

	p = analytics.QueryReviews(datasets, analytics.ReviewFilters{Dataset: "nope", Page: 1, PageSize: 20})
	assert.Zero(t, p.Total)
	assert.Zero(t, p.TotalPages)
	assert.Empty(t, p.Reviews)
}

func TestQueryReviews_Filters(t *testing.T) {
	datasets := []domain.Dataset{
		{Name: "a", Reviews: build("a",
			rv{brand: "Apple", sentiment: domain.Positive, rating: ptr(5.0), at: at(2024, 1, 10), text: "Great CAMERA",
				features: map[domain.Aspect]domain.Sentiment{domain.AspectCamera: domain.Positive}},
			rv{brand: "Apple", sentiment: domain.Negative, rating: ptr(2.0), at: at(2024, 3, 10), text: "bad battery"},
			rv{brand: "Apple", sentiment: domain.Neutral, text: "no date no rating"},
		)},
		{Name: "b", Reviews: build("b",
			rv{brand: "Sony", sentiment: domain.Positive, rating: ptr(4.0), at: at(2024, 2, 10), text: "fine camera"},
		)},
	}
	q := func(f analytics.ReviewFilters) []string {
		f.Page, f.PageSize = 1, 20
		return ids(analytics.QueryReviews(datasets, f).Reviews)
	}

	assert.Equal(t, []string{"a_1", "b_0", "a_0", "a_2"}, q(analytics.ReviewFilters{}))
	assert.Equal(t, []string{"a_1", "a_0", "a_2"}, q(analytics.ReviewFilters{Dataset: "a"}))
	assert.Equal(t, []string{"b_0"}, q(analytics.ReviewFilters{Brand: "Sony"}))
	assert.Equal(t, []string{"b_0", "a_0"}, q(analytics.ReviewFilters{Sentiment: "Positive"}))
	assert.Equal(t, []string{"a_1", "b_0", "a_0", "a_2"}, q(analytics.ReviewFilters{Sentiment: "positive"}))
	assert.Equal(t, []string{"a_0"}, q(analytics.ReviewFilters{Feature: "camera"}))
	assert.Equal(t, []string{"b_0", "a_0"}, q(analytics.ReviewFilters{Search: "Camera"}))
	assert.Equal(t, []string{"b_0", "a_0"}, q(analytics.ReviewFilters{MinRating: ptr(4.0), MaxRating: ptr(5.0)}))
	assert.Equal(t, []string{"b_0"}, q(analytics.ReviewFilters{StartDate: at(2024, 2, 1), EndDate: at(2024, 2, 28)}))

	// range bounds are inclusive
	bounds := []struct {
		name string
		f    analytics.ReviewFilters
		want []string
	}{
		{"start equals created_at", analytics.ReviewFilters{StartDate: at(2024, 2, 10)}, []string{"a_1", "b_0"}},
		{"end equals created_at", analytics.ReviewFilters{EndDate: at(2024, 2, 10)}, []string{"b_0", "a_0"}},
		{"start and end equal created_at", analytics.ReviewFilters{StartDate: at(2024, 2, 10), EndDate: at(2024, 2, 10)}, []string{"b_0"}},
		{"start one second late", analytics.ReviewFilters{StartDate: ptr(at(2024, 3, 10).Add(time.Second))}, []string{}},
		{"min equals rating", analytics.ReviewFilters{MinRating: ptr(4.0)}, []string{"b_0", "a_0"}},
		{"max equals rating", analytics.ReviewFilters{MaxRating: ptr(2.0)}, []string{"a_1"}},
		{"min and max equal rating", analytics.ReviewFilters{MinRating: ptr(4.0), MaxRating: ptr(4.0)}, []string{"b_0"}},
		{"max just below rating", analytics.ReviewFilters{MinRating: ptr(1.0), MaxRating: ptr(1.99)}, []string{}},
	}
	for _, tc := range bounds {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, q(tc.f))
		})
	}
}
