package httpserver

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"review_insights/internal/analytics"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseReviewFilters reads /api/reviews query parameters. Values that do not
// parse are treated as absent; page and page_size fall back to defaults.
func parseReviewFilters(q url.Values) analytics.ReviewFilters {
	get := func(k string) string { return strings.TrimSpace(q.Get(k)) }
	return analytics.ReviewFilters{
		Dataset:   get("dataset"),
		Brand:     get("brand"),
		Model:     get("model"),
		Sentiment: get("sentiment"),
		Feature:   get("feature"),
		Source:    get("source"),
		Country:   get("country"),
		Search:    get("search"),
		MinRating: parseFloat(get("min_rating")),
		MaxRating: parseFloat(get("max_rating")),
		StartDate: parseDate(get("start_date")),
		EndDate:   parseDate(get("end_date")),
		Page:      positiveOr(get("page"), analytics.DefaultPage),
		PageSize:  positiveOr(get("page_size"), analytics.DefaultPageSize),
	}
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

// parseDate accepts RFC3339 or a bare date; naive values are UTC.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
