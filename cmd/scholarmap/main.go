// Command scholarmap is the operations CLI: schema migrations, catalog
// refresh events, and search reindexing.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scholarmap/scholarmap/internal/application/catalogsvc"
	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/infrastructure/database/postgres"
	pgrepo "github.com/scholarmap/scholarmap/internal/infrastructure/database/postgres/repositories"
	"github.com/scholarmap/scholarmap/internal/infrastructure/messaging/kafka"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/search/opensearch"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
	timeout    time.Duration
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "scholarmap",
		Short:         "ScholarMap operations CLI",
		Long:          "Operational tooling for the ScholarMap collaboration dashboard:\nschema migrations, catalog refresh events, and search reindexing.",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: ./config.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.DurationVar(&opts.timeout, "timeout", 60*time.Second, "operation timeout")

	cmd.AddCommand(
		newMigrateCommand(opts),
		newRefreshCommand(opts),
		newReindexCommand(opts),
	)
	return cmd
}

// setup loads config and builds a console logger for one-shot commands.
func (o *rootOptions) setup() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewLogger(logging.Config{Level: o.logLevel, Format: "console"})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			migrator, err := postgres.NewMigrator(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Up()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			migrator, err := postgres.NewMigrator(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Down()
		},
	})

	return cmd
}

func newRefreshCommand(opts *rootOptions) *cobra.Command {
	var entityType, reason string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Publish a catalog refresh event",
		Long:  "Publishes a refresh event to Kafka; workers invalidate the cached\nsnapshot and reindex the search cluster.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			if len(cfg.Kafka.Brokers) == 0 {
				return fmt.Errorf("kafka.brokers must be configured to publish refresh events")
			}
			et := catalog.EntityType(entityType)
			switch et {
			case catalog.EntityUniversity, catalog.EntityProject, catalog.EntityPartner,
				catalog.EntityResearcher, catalog.EntityEvent:
			default:
				return fmt.Errorf("unknown entity type %q", entityType)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			producer := kafka.NewProducer(cfg.Kafka, logger)
			defer producer.Close()

			event := kafka.NewRefreshEvent(et, reason)
			if err := producer.PublishRefresh(ctx, event); err != nil {
				return err
			}
			fmt.Printf("refresh event %s published for %s\n", event.ID, entityType)
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "entity", "university", "entity type that changed")
	cmd.Flags().StringVar(&reason, "reason", "manual", "why the refresh was requested")
	return cmd
}

func newReindexCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search indices from the catalog database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			if len(cfg.OpenSearch.Addresses) == 0 {
				return fmt.Errorf("opensearch.addresses must be configured to reindex")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			pg, err := postgres.NewConnection(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer pg.Close()

			osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch, logger)
			if err != nil {
				return err
			}

			service := catalogsvc.NewService(pgrepo.NewCatalogRepository(pg.Pool(), logger), logger, nil)
			snap, err := service.Snapshot(ctx)
			if err != nil {
				return err
			}
			if err := opensearch.NewIndexer(osClient, logger).IndexSnapshot(ctx, snap); err != nil {
				return err
			}
			fmt.Printf("indexed %d universities, %d projects, %d partners\n",
				len(snap.Universities), len(snap.Projects), len(snap.Partners))
			return nil
		},
	}
}
