package domain

import (
	"context"
	"strings"
	"time"
)

// RawRow is one un-normalized source row: column name -> raw cell text.
type RawRow map[string]string

// Get returns the first non-blank value among the given columns.
func (r RawRow) Get(cols ...string) (string, bool) {
	for _, c := range cols {
		if v, ok := r[c]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// PolarityScorer returns a sentiment intensity in [-1,1]. Implementations must
// be deterministic and degrade failures to 0.
type PolarityScorer interface {
	Score(ctx context.Context, text string) float64
}

// SourceIngestor yields the raw rows of one origin. A missing source yields an
// empty slice and no error.
type SourceIngestor interface {
	Load(ctx context.Context, origin string) ([]RawRow, error)
}

// RawRowStore stages raw origin rows (write path for the ingestor, read path
// for the loader).
type RawRowStore interface {
	SourceIngestor
	UpsertRawRows(ctx context.Context, origin string, offset int, rows []RawRow) error
	DeleteOrigin(ctx context.Context, origin string) error
	// ReplaceOrigin atomically swaps all staged rows of one origin.
	ReplaceOrigin(ctx context.Context, origin string, rows []RawRow) error
}

// ScoreCache memoizes polarity scores.
type ScoreCache interface {
	GetScore(ctx context.Context, key string) (float64, bool, error)
	SetScore(ctx context.Context, key string, v float64, ttl time.Duration) error
}
