package normalize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"review_insights/internal/domain"
)

// Minimum text lengths per origin; shorter rows are dropped.
const (
	minTwitterText   = 10
	minEcommerceText = 5
	minRedditText    = 10
)

// Normalizer builds review records from raw origin rows.
type Normalizer struct {
	scorer    domain.PolarityScorer
	extractor *Extractor
}

func New(scorer domain.PolarityScorer) *Normalizer {
	return &Normalizer{scorer: scorer, extractor: NewExtractor(scorer)}
}

// Normalize converts every row of one origin and reports how many rows were
// dropped for missing or too-short text. Unknown origins yield an empty dataset.
func (n *Normalizer) Normalize(ctx context.Context, origin string, rows []domain.RawRow) (domain.Dataset, int) {
	var build func(context.Context, int, domain.RawRow) (domain.Review, bool)
	switch origin {
	case domain.OriginTwitter:
		build = n.Twitter
	case domain.OriginEcommerce:
		build = n.Ecommerce
	case domain.OriginReddit:
		build = n.Reddit
	default:
		return domain.Dataset{Name: origin}, len(rows)
	}

	ds := domain.Dataset{Name: origin, Reviews: make([]domain.Review, 0, len(rows))}
	dropped := 0
	for i, row := range rows {
		rv, ok := build(ctx, i, row)
		if !ok {
			dropped++
			continue
		}
		rv.Dataset = origin
		ds.Reviews = append(ds.Reviews, rv.Finalize())
	}
	return ds, dropped
}

// analyze scores the whole text and classifies it.
func (n *Normalizer) analyze(ctx context.Context, text string) (domain.Sentiment, float64) {
	p := n.scorer.Score(ctx, text)
	return domain.ClassifyPolarity(p), p
}

func textOf(row domain.RawRow, aliases map[string][]string, min int) (string, bool) {
	text, ok := firstNonEmptyAlias(row, aliases, "text")
	if !ok || utf8.RuneCountInString(text) < min {
		return "", false
	}
	return text, true
}

func rowID(prefix string, row domain.RawRow, aliases map[string][]string, idx int) string {
	if v, ok := firstNonEmptyAlias(row, aliases, "id"); ok {
		return prefix + "_" + strings.TrimSpace(v)
	}
	return fmt.Sprintf("%s_%d", prefix, idx)
}

func (n *Normalizer) Twitter(ctx context.Context, idx int, row domain.RawRow) (domain.Review, bool) {
	text, ok := textOf(row, twitterColumns, minTwitterText)
	if !ok {
		return domain.Review{}, false
	}
	sentiment, polarity := n.analyze(ctx, text)
	date := aliasOr(row, twitterColumns, "date", "")
	return domain.Review{
		ID:                rowID("twitter", row, twitterColumns, idx),
		Source:            "Twitter",
		Text:              text,
		Sentiment:         sentiment,
		Polarity:          polarity,
		Brand:             DetectBrand(text),
		Model:             domain.Unknown,
		FeatureSentiments: n.extractor.Extract(ctx, text),
		Date:              date,
		CreatedAt:         NormalizeTimestamp(date),
		Country:           domain.Unknown,
		Rating:            sentimentRating(sentiment),
	}, true
}

func (n *Normalizer) Ecommerce(ctx context.Context, idx int, row domain.RawRow) (domain.Review, bool) {
	text, ok := textOf(row, ecommerceColumns, minEcommerceText)
	if !ok {
		return domain.Review{}, false
	}

	var (
		sentiment domain.Sentiment
		polarity  float64
	)
	if label, ok := firstNonEmptyAlias(row, ecommerceColumns, "sentiment"); ok {
		sentiment, polarity = labelPolarity(label)
	} else {
		sentiment, polarity = n.analyze(ctx, text)
	}

	features := map[domain.Aspect]domain.Sentiment{}
	ratings := map[domain.Aspect]float64{}
	for _, ac := range ecommerceAspectColumns {
		if v := getFloatFlexible(row, ac.column); v != nil {
			features[ac.aspect] = ratingSentiment(*v)
			ratings[ac.aspect] = *v
		}
	}

	rating := getFloatFlexible(row, ecommerceColumns["rating"]...)
	if rating == nil || *rating < 1 || *rating > 5 {
		rating = ptrFloat(3)
	}
	verified := getBool(row, ecommerceColumns["verified"]...)
	date := aliasOr(row, ecommerceColumns, "date", "")

	return domain.Review{
		ID:                rowID("ecommerce", row, ecommerceColumns, idx),
		Source:            aliasOr(row, ecommerceColumns, "source", "E-commerce"),
		Text:              text,
		Sentiment:         sentiment,
		Polarity:          polarity,
		Brand:             CanonicalBrand(aliasOr(row, ecommerceColumns, "brand", "")),
		Model:             aliasOr(row, ecommerceColumns, "model", domain.Unknown),
		FeatureSentiments: features,
		Date:              date,
		CreatedAt:         NormalizeTimestamp(date),
		Country:           aliasOr(row, ecommerceColumns, "country", domain.Unknown),
		Age:               getIntFlexible(row, ecommerceColumns["age"]...),
		Rating:            rating,
		PriceUSD:          getFloatFlexible(row, ecommerceColumns["price"]...),
		Verified:          &verified,
		AspectRatings:     ratings,
	}, true
}

func (n *Normalizer) Reddit(ctx context.Context, idx int, row domain.RawRow) (domain.Review, bool) {
	text, ok := textOf(row, redditColumns, minRedditText)
	if !ok {
		return domain.Review{}, false
	}
	compound := 0.0
	if v := getFloatFlexible(row, redditColumns["compound"]...); v != nil {
		compound = *v
	}
	sentiment := domain.ClassifyPolarity(compound)

	brand := CanonicalBrand(aliasOr(row, redditColumns, "brand", ""))
	if brand == domain.Unknown {
		brand = DetectBrand(text)
	}
	date := aliasOr(row, redditColumns, "date", "")

	return domain.Review{
		ID:                rowID("reddit", row, redditColumns, idx),
		Source:            "Reddit",
		Text:              text,
		Sentiment:         sentiment,
		Polarity:          compound,
		Brand:             brand,
		Model:             brand,
		FeatureSentiments: n.extractor.Extract(ctx, text),
		Date:              date,
		CreatedAt:         NormalizeTimestamp(date),
		Country:           aliasOr(row, redditColumns, "country", domain.Unknown),
		Subreddit:         ptrStr(aliasOr(row, redditColumns, "subreddit", "")),
		Rating:            sentimentRating(sentiment),
	}, true
}
