package polarity

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"
)

// Scorer adapts Client to domain.PolarityScorer. Any failure scores 0.
type Scorer struct {
	c *Client
}

func NewScorer(c *Client) *Scorer { return &Scorer{c: c} }

func (s *Scorer) Score(ctx context.Context, text string) float64 {
	v, err := s.Try(ctx, text)
	if err != nil {
		log.Warn().Err(err).Int("text_len", len(text)).Msg("polarity scoring failed; using 0")
		return 0
	}
	return v
}

// Try is Score without the fallback, so callers can tell failures apart.
func (s *Scorer) Try(ctx context.Context, text string) (float64, error) {
	v, err := s.c.Polarity(ctx, text)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, nil
	}
	return clamp(v), nil
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
