package normalize_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insights/internal/analytics"
	"review_insights/internal/domain"
	"review_insights/internal/normalize"
)

// ---- fakes ----

// wordScorer scores by marker words and counts calls.
type wordScorer struct {
	calls int
}

func (s *wordScorer) Score(_ context.Context, text string) float64 {
	s.calls++
	l := strings.ToLower(text)
	switch {
	case strings.Contains(l, "great"), strings.Contains(l, "love"):
		return 0.8
	case strings.Contains(l, "bad"), strings.Contains(l, "awful"):
		return -0.7
	case strings.Contains(l, "edge"):
		return 0.1
	}
	return 0
}

func TestExtract_PerSentenceAspects(t *testing.T) {
	sc := &wordScorer{}
	got := normalize.NewExtractor(sc).Extract(context.Background(), "Battery life is great. Camera is bad.")
	assert.Equal(t, map[domain.Aspect]domain.Sentiment{
		domain.AspectBattery: domain.Positive,
		domain.AspectCamera:  domain.Negative,
	}, got)
	assert.Equal(t, 2, sc.calls)
}

func TestExtract_NoKeywords(t *testing.T) {
	sc := &wordScorer{}
	got := normalize.NewExtractor(sc).Extract(context.Background(), "I love it so much honestly")
	assert.Empty(t, got)
	assert.Zero(t, sc.calls)

	assert.Empty(t, normalize.NewExtractor(sc).Extract(context.Background(), ""))
}

func TestExtract_BoundaryIsNeutral(t *testing.T) {
	got := normalize.NewExtractor(&wordScorer{}).Extract(context.Background(), "The screen is on the edge")
	assert.Equal(t, domain.Neutral, got[domain.AspectDisplay])
}

func TestExtract_MeanAcrossSentences(t *testing.T) {
	// 0.8 and -0.7 average to 0.05 -> Neutral
	got := normalize.NewExtractor(&wordScorer{}).Extract(context.Background(),
		"The battery is great. Charging is awful.")
	assert.Equal(t, domain.Neutral, got[domain.AspectBattery])
}

func TestNormalizeTimestamp(t *testing.T) {
	ts := normalize.NormalizeTimestamp("2023-05-01 10:30:00")
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC), *ts)

	ts = normalize.NormalizeTimestamp("1700000000")
	require.NotNil(t, ts)
	assert.Equal(t, int64(1700000000), ts.Unix())
	assert.Equal(t, time.UTC, ts.Location())

	assert.Nil(t, normalize.NormalizeTimestamp(""))
	assert.Nil(t, normalize.NormalizeTimestamp("definitely not a date"))
}

func TestNormalize_Twitter(t *testing.T) {
	n := normalize.New(&wordScorer{})
	rows := []domain.RawRow{
		{"Tweet": "I love my new iphone camera", "ID": "42", "Tweet_Posted_Time (UTC)": "2023-01-02 03:04:05"},
		{"Tweet": "too short"},
		{"Tweet ": "Awful samsung heating problems", "Tweet_Posted_Time": "garbage"},
	}
	ds, dropped := n.Normalize(context.Background(), domain.OriginTwitter, rows)
	require.Len(t, ds.Reviews, 2)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, domain.OriginTwitter, ds.Name)

	first := ds.Reviews[0]
	assert.Equal(t, "twitter_42", first.ID)
	assert.Equal(t, "twitter", first.Dataset)
	assert.Equal(t, "Apple", first.Brand)
	assert.Equal(t, "Unknown", first.Model)
	assert.Equal(t, "Unknown", first.Country)
	assert.Equal(t, "Twitter", first.Source)
	assert.Equal(t, domain.Positive, first.Sentiment)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4.0, *first.Rating)
	require.NotNil(t, first.CreatedAt)
	assert.Equal(t, domain.Positive, first.FeatureSentiments[domain.AspectCamera])

	second := ds.Reviews[1]
	assert.Equal(t, "twitter_2", second.ID)
	assert.Equal(t, "Samsung", second.Brand)
	assert.Equal(t, domain.Negative, second.Sentiment)
	assert.Equal(t, 2.0, *second.Rating)
	assert.Nil(t, second.CreatedAt)
	assert.Equal(t, "garbage", second.Date)
}

func TestNormalize_Ecommerce(t *testing.T) {
	sc := &wordScorer{}
	n := normalize.New(sc)
	rows := []domain.RawRow{
		{
			"review_id": "r1", "review_text": "Solid phone overall", "sentiment": " POSITIVE ",
			"brand": "Redmi Note 12", "model": "Note 12", "country": "India", "rating": "4,5",
			"age": "29.0", "price_usd": "199.99", "verified_purchase": "Yes",
			"battery_life_rating": "4", "camera_rating": "2", "display_rating": "3",
			"review_date": "2024-02-10",
		},
		{"review_text": "Okay", "sentiment": "negative"},
		{"review_text": "Works as expected", "rating": "9", "sentiment": "mixed"},
	}
	ds, dropped := n.Normalize(context.Background(), domain.OriginEcommerce, rows)
	require.Len(t, ds.Reviews, 2)
	assert.Equal(t, 1, dropped)
	assert.Zero(t, sc.calls)

	r := ds.Reviews[0]
	assert.Equal(t, "ecommerce_r1", r.ID)
	assert.Equal(t, "Xiaomi", r.Brand)
	assert.Equal(t, "Note 12", r.Model)
	assert.Equal(t, "E-commerce", r.Source)
	assert.Equal(t, domain.Positive, r.Sentiment)
	assert.Equal(t, 0.5, r.Polarity)
	assert.Equal(t, 4.5, *r.Rating)
	assert.Equal(t, 29, *r.Age)
	assert.Equal(t, 199.99, *r.PriceUSD)
	assert.True(t, *r.Verified)
	assert.Equal(t, map[domain.Aspect]domain.Sentiment{
		domain.AspectBattery: domain.Positive,
		domain.AspectCamera:  domain.Negative,
		domain.AspectDisplay: domain.Neutral,
	}, r.FeatureSentiments)
	assert.Equal(t, 4.0, r.AspectRatings[domain.AspectBattery])

	other := ds.Reviews[1]
	assert.Equal(t, "ecommerce_2", other.ID)
	assert.Equal(t, 3.0, *other.Rating)
	assert.Equal(t, domain.Neutral, other.Sentiment)
	assert.Equal(t, "Unknown", other.Brand)
	assert.False(t, *other.Verified)
}

func TestNormalize_Reddit(t *testing.T) {
	n := normalize.New(&wordScorer{})
	rows := []domain.RawRow{
		{"Id": "abc", "text": "The pixel display is great here", "compound": "0.65", "source_subreddit": "Android", "created_utc": "1700000000"},
		{"text": "Nokia battery lasts forever", "compound": "-0.1", "brand": "", "country": "Finland"},
	}
	ds, dropped := n.Normalize(context.Background(), domain.OriginReddit, rows)
	require.Len(t, ds.Reviews, 2)
	assert.Zero(t, dropped)

	r := ds.Reviews[0]
	assert.Equal(t, "reddit_abc", r.ID)
	assert.Equal(t, "Google", r.Brand)
	assert.Equal(t, "Google", r.Model)
	assert.Equal(t, domain.Positive, r.Sentiment)
	assert.Equal(t, 0.65, r.Polarity)
	require.NotNil(t, r.Subreddit)
	assert.Equal(t, "Android", *r.Subreddit)
	assert.Equal(t, domain.Positive, r.FeatureSentiments[domain.AspectDisplay])

	s := ds.Reviews[1]
	assert.Equal(t, "Nokia", s.Brand)
	assert.Equal(t, domain.Neutral, s.Sentiment)
	assert.Equal(t, "Finland", s.Country)
	assert.Equal(t, 3.0, *s.Rating)
}

func TestNormalize_TruncatesText(t *testing.T) {
	n := normalize.New(&wordScorer{})
	long := strings.Repeat("x", 1500)
	ds, _ := n.Normalize(context.Background(), domain.OriginReddit, []domain.RawRow{{"text": long}})
	require.Len(t, ds.Reviews, 1)
	assert.Len(t, ds.Reviews[0].Text, domain.MaxTextLength)
}

func TestNormalize_UnknownOrigin(t *testing.T) {
	ds, dropped := normalize.New(&wordScorer{}).Normalize(context.Background(), "forum", []domain.RawRow{{"text": "whatever it is"}})
	assert.Empty(t, ds.Reviews)
	assert.Equal(t, 1, dropped)
}

func TestNormalize_NonFiniteNumbersAreMissing(t *testing.T) {
	n := normalize.New(&wordScorer{})
	ecom, _ := n.Normalize(context.Background(), domain.OriginEcommerce, []domain.RawRow{{
		"review_id": "nan", "review_text": "Decent phone for the price", "sentiment": "positive",
		"brand": "Samsung", "model": "A54", "rating": "NaN", "price_usd": "nan",
		"battery_life_rating": "NaN", "camera_rating": "+Inf", "display_rating": "4",
	}})
	reddit, _ := n.Normalize(context.Background(), domain.OriginReddit, []domain.RawRow{
		{"text": "Samsung screen looks fine to me", "compound": "nan"},
		{"text": "Samsung battery really is awful", "compound": "-Inf"},
	})
	require.Len(t, ecom.Reviews, 1)
	require.Len(t, reddit.Reviews, 2)

	r := ecom.Reviews[0]
	require.NotNil(t, r.Rating)
	assert.Equal(t, 3.0, *r.Rating)
	assert.Nil(t, r.PriceUSD)
	assert.Equal(t, map[domain.Aspect]domain.Sentiment{domain.AspectDisplay: domain.Positive}, r.FeatureSentiments)
	assert.Equal(t, map[domain.Aspect]float64{domain.AspectDisplay: 4}, r.AspectRatings)

	for _, rv := range reddit.Reviews {
		assert.Zero(t, rv.Polarity)
		assert.Equal(t, domain.Neutral, rv.Sentiment)
	}

	datasets := []domain.Dataset{ecom, reddit}
	for name, report := range map[string]any{
		"buyer":    analytics.BuildBuyerInsights(datasets),
		"supplier": analytics.BuildSupplierInsights(datasets),
		"advisor":  analytics.BuildModelRecommender(datasets),
		"reviews":  analytics.QueryReviews(datasets, analytics.ReviewFilters{}),
	} {
		_, err := json.Marshal(report)
		assert.NoError(t, err, name)
	}
}
