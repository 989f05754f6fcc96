// Command apiserver runs the ScholarMap HTTP API: catalog, map sessions,
// rankings, statistics, and AI search.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scholarmap/scholarmap/internal/application/aisearch"
	"github.com/scholarmap/scholarmap/internal/application/catalogsvc"
	"github.com/scholarmap/scholarmap/internal/application/mapview"
	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/database/neo4j"
	neo4jrepo "github.com/scholarmap/scholarmap/internal/infrastructure/database/neo4j/repositories"
	"github.com/scholarmap/scholarmap/internal/infrastructure/database/postgres"
	pgrepo "github.com/scholarmap/scholarmap/internal/infrastructure/database/postgres/repositories"
	"github.com/scholarmap/scholarmap/internal/infrastructure/database/redis"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/internal/infrastructure/search/opensearch"
	"github.com/scholarmap/scholarmap/internal/infrastructure/storage/minio"
	httpserver "github.com/scholarmap/scholarmap/internal/interfaces/http"
	"github.com/scholarmap/scholarmap/internal/interfaces/http/handlers"
	"github.com/scholarmap/scholarmap/internal/interfaces/http/middleware"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Info("starting scholarmap api server", logging.String("version", config.Version))

	if configPath != "" {
		err := config.Watch(configPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("log level updated", logging.String("level", next.Log.Level))
			}
		}, func(err error) {
			logger.Warn("config reload rejected", logging.Err(err))
		})
		if err != nil {
			logger.Warn("config watch unavailable", logging.Err(err))
		}
	}

	collector := prometheus.NewNopCollector()
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		}, logger)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
	}
	metrics := prometheus.NewAppMetrics(collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	catalogRepo := pgrepo.NewCatalogRepository(pg.Pool(), logger)

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, logger,
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Redis.DefaultTTL),
	)

	graphDriver, err := neo4j.NewDriver(ctx, cfg.Neo4j, logger)
	if err != nil {
		return fmt.Errorf("connect neo4j: %w", err)
	}
	defer graphDriver.Close(context.Background())
	graphRepo := neo4jrepo.NewCollaborationRepository(graphDriver, logger, metrics)

	catalogOpts := []catalogsvc.Option{catalogsvc.WithCache(cache, cfg.Redis.DefaultTTL)}
	if len(cfg.OpenSearch.Addresses) > 0 {
		osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch, logger)
		if err != nil {
			return fmt.Errorf("connect opensearch: %w", err)
		}
		catalogOpts = append(catalogOpts, catalogsvc.WithSearcher(opensearch.NewSearcher(osClient)))
	}
	catalogService := catalogsvc.NewService(catalogRepo, logger, metrics, catalogOpts...)

	// Best effort: a cold cache only costs the first request.
	go func() {
		if _, err := catalogService.Snapshot(ctx); err != nil {
			logger.Warn("catalog warm-up failed", logging.Err(err))
		}
	}()

	var assets handlers.AssetURLResolver
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := minio.NewClient(ctx, cfg.MinIO, logger)
		if err != nil {
			return fmt.Errorf("connect minio: %w", err)
		}
		assets = minio.NewAssetResolver(minioClient, cfg.MinIO.PresignExpiry)
	}

	hub := mapview.NewSurfaceHub()
	mapService := mapview.NewService(catalogService, graphRepo, hub.Factory(),
		mapview.ServiceConfig{
			FitPaddingDegrees: cfg.Map.FitPaddingDegrees,
			FitMaxZoom:        cfg.Map.FitMaxZoom,
			FocusZoom:         cfg.Map.FocusZoom,
			EdgeWeightCap:     cfg.Map.EdgeWeightCap,
			SessionIdleTTL:    cfg.Map.SessionIdleTimeout,
		}, logger, metrics)
	go mapService.Registry().RunJanitor(ctx)

	gateway := aisearch.NewGateway(cfg.AISearch, logger, metrics)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Mode:    cfg.Server.Mode,
		Catalog: handlers.NewCatalogHandler(catalogService, catalogRepo, assets),
		MapView: handlers.NewMapViewHandler(mapService, hub),
		Search:  handlers.NewSearchHandler(gateway),
		Health: handlers.NewHealthHandler(
			handlers.HealthCheck{Name: "postgres", Ping: func(ctx context.Context) error { return pg.Pool().Ping(ctx) }},
			handlers.HealthCheck{Name: "redis", Ping: redisClient.Ping},
		),
		Logger:         logger,
		Metrics:        metrics,
		Collector:      collector,
		CORS:           middleware.DefaultCORSConfig(),
		RateLimit:      middleware.DefaultRateLimitConfig(),
		MetricsEnabled: cfg.Metrics.Enabled,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", logging.Err(err))
	}
	mapService.Registry().CloseAll()
	logger.Info("api server stopped")
	return nil
}
