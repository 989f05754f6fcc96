// Command worker consumes catalog refresh events: it drops the cached
// snapshot and reindexes the search cluster so the API serves fresh data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scholarmap/scholarmap/internal/application/catalogsvc"
	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/database/postgres"
	pgrepo "github.com/scholarmap/scholarmap/internal/infrastructure/database/postgres/repositories"
	"github.com/scholarmap/scholarmap/internal/infrastructure/database/redis"
	"github.com/scholarmap/scholarmap/internal/infrastructure/messaging/kafka"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/internal/infrastructure/search/opensearch"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must be set for the worker")
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
	logger.Info("starting scholarmap worker", logging.String("version", config.Version))

	metrics := prometheus.NewNopAppMetrics()
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		}, logger)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

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

	catalogService := catalogsvc.NewService(catalogRepo, logger, metrics,
		catalogsvc.WithCache(cache, cfg.Redis.DefaultTTL))

	var indexer *opensearch.Indexer
	if len(cfg.OpenSearch.Addresses) > 0 {
		osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch, logger)
		if err != nil {
			return fmt.Errorf("connect opensearch: %w", err)
		}
		indexer = opensearch.NewIndexer(osClient, logger)
	}

	consumer := kafka.NewConsumer(cfg.Kafka, logger, metrics)
	defer consumer.Close()

	handler := func(ctx context.Context, event kafka.RefreshEvent) error {
		logger.Info("refresh event received",
			logging.String("entity_type", string(event.EntityType)),
			logging.String("reason", event.Reason),
		)
		if err := catalogService.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}
		if indexer == nil {
			return nil
		}
		snap, err := catalogService.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("reload catalog: %w", err)
		}
		if err := indexer.IndexSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("reindex search: %w", err)
		}
		return nil
	}

	if err := consumer.Run(ctx, handler); err != nil {
		return fmt.Errorf("consume refresh events: %w", err)
	}
	logger.Info("worker stopped")
	return nil
}
