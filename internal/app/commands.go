package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
	"review_insights/internal/normalize"
)

// IngestionService turns every origin's raw rows into normalized datasets.
type IngestionService struct {
	source domain.SourceIngestor
	norm   *normalize.Normalizer
}

func NewIngestionService(src domain.SourceIngestor, scorer domain.PolarityScorer) *IngestionService {
	return &IngestionService{source: src, norm: normalize.New(scorer)}
}

// LoadAll loads all origins concurrently and returns the non-empty datasets in
// origin order. An origin that fails to load is logged and treated as empty.
// It fails with domain.ErrNoData when every origin is empty.
func (s *IngestionService) LoadAll(ctx context.Context) ([]domain.Dataset, error) {
	loaded := make([]domain.Dataset, len(domain.Origins))
	failures := make([]error, len(domain.Origins))

	g, gctx := errgroup.WithContext(ctx)
	for i, origin := range domain.Origins {
		g.Go(func() error {
			rows, err := s.source.Load(gctx, origin)
			if err != nil {
				log.Warn().Err(err).Str("origin", origin).Msg("source unreadable, skipping")
				failures[i] = fmt.Errorf("load %s: %w", origin, err)
				return nil
			}
			if len(rows) == 0 {
				log.Warn().Str("origin", origin).Msg("source missing or empty")
				return nil
			}

			ds, dropped := s.norm.Normalize(gctx, origin, rows)
			observability.ObserveDropped(origin, dropped)
			if dropped > 0 {
				log.Warn().Str("origin", origin).Int("dropped", dropped).Int("rows", len(rows)).
					Msg("rows dropped during normalization")
			}
			log.Info().Str("dataset", ds.Name).Int("records", len(ds.Reviews)).Msg("dataset loaded")
			loaded[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Dataset, 0, len(loaded))
	for _, ds := range loaded {
		if len(ds.Reviews) > 0 {
			out = append(out, ds)
		}
	}
	if len(out) == 0 {
		if err := errors.Join(failures...); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrNoData, err)
		}
		return nil, domain.ErrNoData
	}
	return out, nil
}
