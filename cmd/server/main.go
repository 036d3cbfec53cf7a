package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytscout/ytscout-go/internal/config"
	"github.com/ytscout/ytscout-go/internal/db"
	"github.com/ytscout/ytscout-go/internal/handler"
	"github.com/ytscout/ytscout-go/internal/metrics"
	"github.com/ytscout/ytscout-go/internal/middleware"
	"github.com/ytscout/ytscout-go/internal/repository"
	"github.com/ytscout/ytscout-go/internal/router"
	"github.com/ytscout/ytscout-go/internal/scraper"
	"github.com/ytscout/ytscout-go/internal/service"
)

const (
	shutdownTimeout      = 10 * time.Second
	limiterSweepInterval = 5 * time.Minute
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "ytscout-go")
	log := middleware.Logger

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres is optional: without it searches are free and unlogged.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to apply schema")
		}
	}

	metrics.Register(pool)

	cache := service.NewResponseCache(cfg.CacheTTL, log)
	if cfg.RedisURL != "" {
		cache.WithRedis(service.ConnectRedis(cfg.RedisURL, log))
	}
	defer cache.Close()

	fetcher, err := scraper.NewFetcher(scraper.FetcherConfig{
		Timeout:           cfg.FetchTimeout,
		Proxy:             cfg.UpstreamProxy,
		RequestsPerSecond: cfg.UpstreamRPS,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build upstream fetcher")
	}

	searchLimiter := middleware.NewSearchAdmissionLimiter(cfg.SearchRateLimit, cfg.SearchRateWindow)
	apiLimiter := middleware.NewAPIRateLimiter()
	go searchLimiter.RunSweeper(ctx, limiterSweepInterval)
	go apiLimiter.RunSweeper(ctx, limiterSweepInterval)

	scrapeSvc := service.NewScrapeService(fetcher, scraper.NewEndpoints(cfg.UpstreamBaseURL), cache, log).
		WithAdmission(searchLimiter).
		WithAnalyticsConcurrency(cfg.AnalyticsConcurrency)

	handlers := &router.Handlers{
		Channel: handler.NewChannelHandler(scrapeSvc, searchLimiter),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
		Stats:   handler.NewStatsHandler(cache),
	}

	if pool != nil {
		creditRepo := repository.NewCreditRepo(pool)
		queryRepo := repository.NewQueryLogRepo(pool)

		queryLog := service.NewAsyncQueryLog(queryRepo, 0, log)
		logCtx, cancelLog := context.WithCancel(context.Background())
		go queryLog.Start(logCtx)
		defer func() {
			cancelLog()
			<-queryLog.Done()
		}()

		scrapeSvc.WithCredits(creditRepo, cfg.SearchCreditCost).WithQueryLog(queryLog)
		handlers.Credit = handler.NewCreditHandler(service.NewCreditService(creditRepo), queryRepo)
	}

	if cfg.CacheSweepInterval > 0 {
		sweeper := service.NewCacheSweeper(cache, cfg.CacheSweepInterval, log)
		go sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "ytscout API",
		ServerHeader: "ytscout",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	})

	router.Setup(app, handlers, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		AdminUserID: cfg.AdminUserID,
		APILimiter:  apiLimiter,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("ytscout starting")
		errCh <- app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
