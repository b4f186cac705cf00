package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"news-dashboard/internal/adapters/api"
	"news-dashboard/internal/adapters/datasets"
	"news-dashboard/internal/adapters/enrichment"
	"news-dashboard/internal/adapters/ergast"
	"news-dashboard/internal/adapters/newsapi"
	"news-dashboard/internal/adapters/repo"
	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/cache"
	"news-dashboard/internal/infra/config"
	"news-dashboard/internal/infra/db"
	httpserver "news-dashboard/internal/infra/http"
	logpkg "news-dashboard/internal/infra/log"
	"news-dashboard/internal/infra/metrics"
	"news-dashboard/internal/infra/openai"
	"news-dashboard/internal/usecase/bookmarks"
	"news-dashboard/internal/usecase/enrich"
	"news-dashboard/internal/usecase/feed"
	"news-dashboard/internal/usecase/users"
)

func main() {
	cfg := config.Load()
	logger := logpkg.NewLogger(cfg.AppEnv)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	store := repo.NewPostgres(pool)

	var enrichCache domain.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		enrichCache = cache.NewRedis(client)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis cache")
	} else {
		enrichCache = cache.NewMemory()
		logger.Info().Msg("using in-memory cache")
	}

	chatClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	enricher := enrich.NewCached(
		enrichment.NewOpenAI(chatClient, cfg.OpenAI.Model, cfg.OpenAI.Timeout),
		enrichCache,
		cfg.Cache.EnrichmentTTL,
	)

	news := newsapi.NewClient(newsapi.Config{
		BaseURL: cfg.News.BaseURL,
		APIKey:  cfg.News.APIKey,
		Timeout: cfg.News.Timeout,
	})
	standings := ergast.NewClient(ergast.Config{
		BaseURL: cfg.Ergast.BaseURL,
		Timeout: cfg.Ergast.Timeout,
	})
	datasetGateway := datasets.NewClient(datasets.Config{
		BLSAPIKey:    cfg.Datasets.BLSAPIKey,
		StocksAPIKey: cfg.Datasets.StocksAPIKey,
		Timeout:      cfg.Datasets.Timeout,
		TTL:          cfg.Cache.DatasetTTL,
	}, enrichCache)

	feedSvc := feed.NewService(news, enricher, store, logger)
	bookmarkSvc := bookmarks.NewService(store, enricher, logger)
	userSvc := users.NewService(store)

	server := httpserver.NewServer(logger)
	api.NewHandler(feedSvc, bookmarkSvc, userSvc, standings, datasetGateway, logger).Register(server.Router)

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
