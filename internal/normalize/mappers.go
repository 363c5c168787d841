package normalize

import (
	"math"
	"strconv"
	"strings"

	"review_insights/internal/domain"
)

/********** column alias registries (single source of truth) **********/

var twitterColumns = map[string][]string{
	"text": {"Tweet ", "Tweet"},
	"id":   {"ID"},
	"date": {"Tweet_Posted_Time (UTC)", "Tweet_Posted_Time"},
}

var ecommerceColumns = map[string][]string{
	"text":      {"review_text"},
	"id":        {"review_id"},
	"sentiment": {"sentiment"},
	"rating":    {"rating"},
	"brand":     {"brand"},
	"model":     {"model"},
	"country":   {"country"},
	"source":    {"source"},
	"date":      {"review_date"},
	"age":       {"age"},
	"price":     {"price_usd"},
	"verified":  {"verified_purchase"},
}

// ecommerceAspectColumns maps numeric sub-rating columns onto aspects.
var ecommerceAspectColumns = []struct {
	aspect domain.Aspect
	column string
}{
	{domain.AspectBattery, "battery_life_rating"},
	{domain.AspectCamera, "camera_rating"},
	{domain.AspectPerformance, "performance_rating"},
	{domain.AspectDesign, "design_rating"},
	{domain.AspectDisplay, "display_rating"},
}

var redditColumns = map[string][]string{
	"text":      {"text"},
	"id":        {"Id"},
	"compound":  {"compound"},
	"brand":     {"brand"},
	"country":   {"country"},
	"subreddit": {"source_subreddit"},
	"date":      {"created_utc"},
}

/********** tiny helpers **********/

// firstNonEmptyAlias: first non-blank cell for a named alias set.
func firstNonEmptyAlias(row domain.RawRow, aliases map[string][]string, key string) (string, bool) {
	return row.Get(aliases[key]...)
}

// aliasOr returns the aliased cell, or def when it is blank.
func aliasOr(row domain.RawRow, aliases map[string][]string, key, def string) string {
	if v, ok := firstNonEmptyAlias(row, aliases, key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

// getFloatFlexible: finite number from several columns (accepts "8,0").
// NaN and Inf cells count as missing.
func getFloatFlexible(row domain.RawRow, cols ...string) *float64 {
	for _, c := range cols {
		s := strings.TrimSpace(strings.ReplaceAll(row[c], ",", "."))
		if s == "" {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return &f
		}
	}
	return nil
}

// getIntFlexible: integer from several columns ("34" or "34.0").
func getIntFlexible(row domain.RawRow, cols ...string) *int {
	if f := getFloatFlexible(row, cols...); f != nil {
		x := int(*f)
		return &x
	}
	return nil
}

func getBool(row domain.RawRow, cols ...string) bool {
	v, ok := row.Get(cols...)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func ptrStr(s string) *string { return &s }

func ptrFloat(f float64) *float64 { return &f }

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// ratingSentiment maps a 1-5 sub-rating onto the sentiment enum.
func ratingSentiment(v float64) domain.Sentiment {
	switch {
	case v >= 3.5:
		return domain.Positive
	case v <= 2.5:
		return domain.Negative
	default:
		return domain.Neutral
	}
}

// sentimentRating is the rating attached to origins without star ratings.
func sentimentRating(s domain.Sentiment) *float64 {
	switch s {
	case domain.Positive:
		return ptrFloat(4)
	case domain.Negative:
		return ptrFloat(2)
	default:
		return ptrFloat(3)
	}
}

// labelPolarity maps a source-provided sentiment label to a heuristic polarity.
func labelPolarity(label string) (domain.Sentiment, float64) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	switch normalized {
	case "positive":
		return domain.Positive, 0.5
	case "negative":
		return domain.Negative, -0.5
	}
	if normalized == "" {
		return domain.Neutral, 0
	}
	return domain.Sentiment(capitalize(normalized)), 0
}
