package polarity

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog/log"

	"review_insights/internal/domain"
)

// Cached memoizes an inner scorer in a ScoreCache keyed by the text digest.
// Cache failures fall through to the inner scorer.
type Cached struct {
	inner domain.PolarityScorer
	cache domain.ScoreCache
	ttl   time.Duration
}

// fallible scorers report failures instead of scoring 0.
type fallible interface {
	Try(ctx context.Context, text string) (float64, error)
}

func NewCached(inner domain.PolarityScorer, cache domain.ScoreCache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: cache, ttl: ttl}
}

func CacheKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return "polarity:" + hex.EncodeToString(sum[:])
}

func (c *Cached) Score(ctx context.Context, text string) float64 {
	key := CacheKey(text)
	if v, ok, err := c.cache.GetScore(ctx, key); err != nil {
		log.Debug().Err(err).Msg("score cache get failed")
	} else if ok {
		return v
	}

	var v float64
	if f, ok := c.inner.(fallible); ok {
		var err error
		if v, err = f.Try(ctx, text); err != nil {
			// failed scores are not cached
			log.Warn().Err(err).Msg("polarity scoring failed; using 0")
			return 0
		}
	} else {
		v = c.inner.Score(ctx, text)
	}
	if err := c.cache.SetScore(ctx, key, v, c.ttl); err != nil {
		log.Debug().Err(err).Msg("score cache set failed")
	}
	return v
}
