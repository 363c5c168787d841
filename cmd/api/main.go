package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "review_insights/internal/adapters/http_server"
	"review_insights/internal/adapters/observability"
	"review_insights/internal/app"
	"review_insights/internal/bootstrap"
	"review_insights/internal/shared"
)

func main() {
	_ = godotenv.Load()
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	state, closeDeps, err := bootstrap.NewState(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}
	defer closeDeps()

	// the API starts even without data; endpoints answer 503 until a reload succeeds
	if _, err := state.Load(ctx); err != nil {
		log.Error().Err(err).Msg("initial load failed")
	}

	if cfg.WatchDataDir && cfg.DataSource == "csv" {
		w := app.NewWatcher(cfg.DataDir, state, app.DefaultDebounce)
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error().Err(err).Msg("data dir watcher stopped")
			}
		}()
	}

	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(state), R: state})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
