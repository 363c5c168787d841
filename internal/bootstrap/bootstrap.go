// Package bootstrap builds the adapters selected by configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/csvsource"
	"review_insights/internal/adapters/polarity"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

// Closer releases whatever the constructors opened.
type Closer func()

// NewScorer returns the configured polarity scorer. The remote backend is
// memoized in Redis when REDIS_ADDR is set and reachable.
func NewScorer(ctx context.Context, cfg shared.Config) (domain.PolarityScorer, Closer, error) {
	noop := func() {}
	if cfg.PolarityBackend != "http" {
		return polarity.NewVader(), noop, nil
	}
	client, err := polarity.NewClient(cfg.PolarityURL, cfg.PolarityRPS)
	if err != nil {
		return nil, noop, err
	}
	scorer := polarity.NewScorer(client)
	if cfg.RedisAddr == "" {
		return scorer, noop, nil
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; scoring without cache")
		_ = cache.Close()
		return scorer, noop, nil
	}
	return polarity.NewCached(scorer, cache, cfg.PolarityCacheTTL), func() { _ = cache.Close() }, nil
}

// NewSource returns the configured raw-row source.
func NewSource(ctx context.Context, cfg shared.Config) (domain.SourceIngestor, Closer, error) {
	switch cfg.DataSource {
	case "mysql":
		db, err := OpenMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, func() {}, err
		}
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil
	default:
		return csvsource.New(cfg.DataDir, cfg.SourceFiles()), func() {}, nil
	}
}

func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// NewState wires source and scorer into an unloaded State.
func NewState(ctx context.Context, cfg shared.Config) (*app.State, Closer, error) {
	scorer, closeScorer, err := NewScorer(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	src, closeSrc, err := NewSource(ctx, cfg)
	if err != nil {
		closeScorer()
		return nil, func() {}, err
	}
	st := app.NewState(app.NewIngestionService(src, scorer))
	return st, func() { closeSrc(); closeScorer() }, nil
}
