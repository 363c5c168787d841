package main

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_insights/internal/adapters/csvsource"
	"review_insights/internal/adapters/observability"
	"review_insights/internal/bootstrap"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

// ingestor copies the CSV origins found in DATA_DIR into the MySQL staging table.
func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := bootstrap.OpenMySQL(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql unavailable")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	src := csvsource.New(cfg.DataDir, cfg.SourceFiles())
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, origin := range domain.Origins {
		rows, err := src.Load(ctx, origin)
		if err != nil {
			log.Warn().Str("origin", origin).Err(err).Msg("read failed")
			failed.Add(1)
			continue
		}
		if len(rows) == 0 {
			log.Info().Str("origin", origin).Msg("no source file; skipped")
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(origin string, rows []domain.RawRow) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.ReplaceOrigin(ctx, origin, rows); err != nil {
				log.Warn().Str("origin", origin).Err(err).Msg("replace failed; previous rows kept")
				failed.Add(1)
				return
			}
			log.Info().Str("origin", origin).Int("rows", len(rows)).Msg("origin staged")
		}(origin, rows)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatal().Int32("failures", n).Msg("ingestion finished with failures")
	}
	log.Info().Msg("ingestion completed")
}
