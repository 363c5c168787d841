package analytics

import (
	"cmp"
	"slices"
	"time"

	"review_insights/internal/domain"
)

// ExtremalReviews returns the k most extreme records of the target sentiment.
// Positive targets rank by (rating, polarity) descending, Negative targets
// ascending. Missing ratings sort last. When no matching record carries a
// rating only polarity is used.
func ExtremalReviews(reviews []domain.Review, target domain.Sentiment, k int) []domain.Review {
	matched := filterReviews(reviews, func(r domain.Review) bool { return r.Sentiment == target })
	if len(matched) == 0 {
		return []domain.Review{}
	}
	desc := target == domain.Positive
	withRating := slices.ContainsFunc(matched, func(r domain.Review) bool { return r.Rating != nil })

	slices.SortStableFunc(matched, func(a, b domain.Review) int {
		if withRating {
			if c := compareRating(a.Rating, b.Rating, desc); c != 0 {
				return c
			}
		}
		c := cmp.Compare(a.Polarity, b.Polarity)
		if desc {
			c = -c
		}
		return c
	})
	if len(matched) > k {
		matched = matched[:k]
	}
	return matched
}

// compareRating orders present ratings in the requested direction; nil last.
func compareRating(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := cmp.Compare(*a, *b)
	if desc {
		c = -c
	}
	return c
}

// TrendBucket is one calendar month of sentiment counts.
type TrendBucket struct {
	Period   string `json:"period"`
	Total    int    `json:"total"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

// MonthlyTrend buckets timestamped records by month, ascending. Records
// without created_at are skipped.
func MonthlyTrend(reviews []domain.Review) []TrendBucket {
	dated := filterReviews(reviews, func(r domain.Review) bool { return r.CreatedAt != nil })
	groups := groupBy(dated, func(r domain.Review) time.Time { return monthStart(*r.CreatedAt) })
	slices.SortFunc(groups, func(a, b group[time.Time]) int { return a.key.Compare(b.key) })

	out := make([]TrendBucket, 0, len(groups))
	for _, g := range groups {
		c := CountSentiments(g.reviews)
		out = append(out, TrendBucket{
			Period:   g.key.Format(time.RFC3339),
			Total:    len(g.reviews),
			Positive: c.Positive,
			Neutral:  c.Neutral,
			Negative: c.Negative,
		})
	}
	return out
}

// mostRecent returns up to n records with the latest created_at; records
// without a timestamp are not candidates.
func mostRecent(reviews []domain.Review, n int) []domain.Review {
	dated := filterReviews(reviews, func(r domain.Review) bool { return r.CreatedAt != nil })
	slices.SortStableFunc(dated, func(a, b domain.Review) int { return b.CreatedAt.Compare(*a.CreatedAt) })
	if len(dated) > n {
		dated = dated[:n]
	}
	return dated
}

// sortByCreatedDesc orders records newest first; records without a timestamp
// keep their relative order at the end.
func sortByCreatedDesc(reviews []domain.Review) {
	slices.SortStableFunc(reviews, func(a, b domain.Review) int {
		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return 0
		case a.CreatedAt == nil:
			return 1
		case b.CreatedAt == nil:
			return -1
		}
		return b.CreatedAt.Compare(*a.CreatedAt)
	})
}
