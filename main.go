package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/flightrouter/pareto/api"
	"github.com/flightrouter/pareto/config"
	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/pkg/buildinfo"
	pkgcache "github.com/flightrouter/pareto/pkg/cache"
	"github.com/flightrouter/pareto/pkg/health"
	"github.com/flightrouter/pareto/pkg/logger"
	"github.com/flightrouter/pareto/pkg/notify"
	"github.com/flightrouter/pareto/provider"
	"github.com/flightrouter/pareto/revalidate"
	"github.com/flightrouter/pareto/router"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-health-check" {
			resp, err := http.Get("http://localhost:8080/health/ready")
			if err != nil || resp.StatusCode != http.StatusOK {
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err) // can't use logger yet
	}

	logger.Init(cfg.LoggerConfig())
	logger.Info("starting pareto flight router",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"environment", cfg.Environment,
		"port", cfg.Port,
		"neo4j_enabled", cfg.Neo4jConfig.Enabled)

	ctx := context.Background()

	var flightProvider graphcache.Provider
	for i := 0; i < 10; i++ {
		flightProvider, err = provider.NewPostgresProvider(ctx, provider.PostgresConfig{
			Host:     cfg.PostgresConfig.Host,
			Port:     cfg.PostgresConfig.Port,
			User:     cfg.PostgresConfig.User,
			Password: cfg.PostgresConfig.Password,
			DBName:   cfg.PostgresConfig.DBName,
			SSLMode:  cfg.PostgresConfig.SSLMode,
		})
		if err == nil {
			break
		}
		logger.Warn("failed to connect to postgres, retrying", "error", err, "attempt", i+1)
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		logger.Fatal(err, "could not connect to postgres after retries")
	}
	defer flightProvider.(*provider.PostgresProvider).Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Host + ":" + cfg.RedisConfig.Port,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal(err, "could not connect to redis")
	}

	notifier := notify.New(cfg.NTFYConfig)

	graphCache := graphcache.New(flightProvider, cfg.CacheConfig, notifier)
	defer graphCache.Shutdown()

	if _, err := graphCache.GetGraph(ctx); err != nil {
		logger.Fatal(err, "initial graph build failed")
	}
	logger.Info("flight graph built")

	elector := graphcache.NewRefreshElector(redisClient, cfg.RefreshLockKey, cfg.RefreshLockTTL, cfg.RefreshLockRenew, graphCache)
	elector.Start()
	defer elector.Stop()

	scheduler, err := graphcache.NewScheduler(graphCache, cfg.SchedulerCronSpec)
	if err != nil {
		logger.Fatal(err, "invalid refresh cron spec")
	}
	scheduler.Start()
	defer scheduler.Stop()

	orchestrator := router.NewOrchestrator(graphCache, cfg.BaseWeek, cfg.ExpandOutsideBaseWeek)

	offerClient := revalidate.NewOfferAPIClient(revalidate.ClientConfig{
		BaseURL:        cfg.OfferAPIConfig.BaseURL,
		BearerToken:    cfg.OfferAPIConfig.BearerToken,
		APIVersion:     cfg.OfferAPIConfig.APIVersion,
		RequestTimeout: cfg.OfferAPIConfig.RequestTimeout,
		MaxRetries:     cfg.OfferAPIConfig.MaxRetries,
		BackoffMin:     cfg.OfferAPIConfig.BackoffMin,
		BackoffMax:     cfg.OfferAPIConfig.BackoffMax,
	})
	revalidator := revalidate.NewRevalidator(offerClient, cfg.RevalidatorConfig, notifier)

	healthChecker := health.NewHealthChecker(buildinfo.Version)
	healthChecker.AddChecker(&health.GraphCacheChecker{Cache: graphCache, TTL: cfg.CacheConfig.TTL})
	if cfg.OfferAPIConfig.BaseURL != "" {
		healthChecker.AddChecker(&health.RevalidatorUpstreamChecker{
			Client: offerClient,
			Probe:  revalidate.CachedSegment{},
		})
	}

	redisCache := pkgcache.NewRedisCache(redisClient, "pareto")
	cacheManager := pkgcache.NewCacheManager(redisCache)

	engine := gin.New()
	api.RegisterRoutes(engine, orchestrator, graphCache, healthChecker, cacheManager, cfg.AdminAuthConfig, revalidator, cfg.EpochDate)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		logger.Info("HTTP server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(err, "HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(err, "server forced to shutdown")
	}

	logger.Info("process exited gracefully")
}
