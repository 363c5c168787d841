package analytics_test

import (
	"fmt"
	"time"

	"review_insights/internal/domain"
)

// ---- fixtures ----

func ptr[T any](v T) *T { return &v }

type rv struct {
	brand, model, country string
	sentiment             domain.Sentiment
	rating                *float64
	polarity              float64
	age                   *int
	at                    *time.Time
	features              map[domain.Aspect]domain.Sentiment
	text                  string
}

func build(dataset string, in ...rv) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for i, r := range in {
		out = append(out, domain.Review{
			ID:                fmt.Sprintf("%s_%d", dataset, i),
			Dataset:           dataset,
			Brand:             r.brand,
			Model:             r.model,
			Source:            "Test",
			Sentiment:         r.sentiment,
			Rating:            r.rating,
			Polarity:          r.polarity,
			Country:           r.country,
			CreatedAt:         r.at,
			Age:               r.age,
			Text:              r.text,
			FeatureSentiments: r.features,
		}.Finalize())
	}
	return out
}

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}
