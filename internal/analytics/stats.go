// Package analytics holds the pure aggregation, insight and query functions
// computed over a snapshot of normalized reviews.
package analytics

import (
	"math"

	"review_insights/internal/domain"
)

// SentimentCounts tallies records per sentiment.
type SentimentCounts struct {
	Positive int `json:"Positive"`
	Neutral  int `json:"Neutral"`
	Negative int `json:"Negative"`
}

// Add counts one sentiment; values outside the enum are ignored.
func (c *SentimentCounts) Add(s domain.Sentiment) {
	switch s {
	case domain.Positive:
		c.Positive++
	case domain.Neutral:
		c.Neutral++
	case domain.Negative:
		c.Negative++
	}
}

func (c SentimentCounts) Total() int { return c.Positive + c.Neutral + c.Negative }

func CountSentiments(reviews []domain.Review) SentimentCounts {
	var c SentimentCounts
	for _, r := range reviews {
		c.Add(r.Sentiment)
	}
	return c
}

// Round2 rounds half-to-even at two decimals.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// Percentage is part/total as a percentage rounded to two decimals; 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// meanRating is the mean of present ratings, nil when none exist.
func meanRating(reviews []domain.Review) *float64 {
	var sum float64
	n := 0
	for _, r := range reviews {
		if r.Rating != nil {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func round2Ptr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := Round2(*p)
	return &v
}

// ratingScore maps a 1-5 mean rating onto [0,1], or returns fallback.
func ratingScore(avg *float64, fallback float64) float64 {
	if avg == nil {
		return fallback
	}
	return (*avg - 1) / 4
}

// LeaderboardScore = 0.5*positiveRatio + 0.5*ratingScore, on a 0-100 scale.
func LeaderboardScore(positiveRatio float64, avg *float64) float64 {
	return Round2((0.5*positiveRatio + 0.5*ratingScore(avg, positiveRatio)) * 100)
}

// StrengthScore = 0.6*positiveRatio + 0.4*ratingScore, on a 0-100 scale.
func StrengthScore(positiveRatio float64, avg *float64) float64 {
	return Round2((0.6*positiveRatio + 0.4*ratingScore(avg, positiveRatio)) * 100)
}

// HealthScore = 0.4*positiveRatio + 0.4*ratingScore - 0.2*negativeRatio, on a
// 0-100 scale. A missing rating scores 0.5. The result is not clamped.
func HealthScore(positiveRatio, negativeRatio float64, avg *float64) float64 {
	return Round2((0.4*positiveRatio + 0.4*ratingScore(avg, 0.5) - 0.2*negativeRatio) * 100)
}
