package config

import "time"

// NewDefaultConfig returns a configuration suitable for local development.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields in place.  Called after unmarshal so
// partial config files and env overrides still yield a complete configuration.
func ApplyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "scholarmap"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "scholarmap"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 20
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 30 * time.Minute
	}
	if c.Database.MigrationPath == "" {
		c.Database.MigrationPath = "migrations"
	}

	if c.Neo4j.URI == "" {
		c.Neo4j.URI = "neo4j://localhost:7687"
	}
	if c.Neo4j.User == "" {
		c.Neo4j.User = "neo4j"
	}
	if c.Neo4j.Database == "" {
		c.Neo4j.Database = "neo4j"
	}
	if c.Neo4j.MaxConnectionPoolSize == 0 {
		c.Neo4j.MaxConnectionPoolSize = 50
	}
	if c.Neo4j.ConnectionTimeout == 0 {
		c.Neo4j.ConnectionTimeout = 5 * time.Second
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 2
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.DefaultTTL == 0 {
		c.Redis.DefaultTTL = 10 * time.Minute
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "scholarmap:"
	}

	if c.OpenSearch.IndexPrefix == "" {
		c.OpenSearch.IndexPrefix = "scholarmap"
	}

	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "scholarmap-worker"
	}
	if c.Kafka.RefreshTopic == "" {
		c.Kafka.RefreshTopic = "scholarmap.catalog.refresh"
	}
	if c.Kafka.ProducerRetries == 0 {
		c.Kafka.ProducerRetries = 3
	}
	if c.Kafka.CommitInterval == 0 {
		c.Kafka.CommitInterval = time.Second
	}

	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "scholarmap-assets"
	}
	if c.MinIO.PresignExpiry == 0 {
		c.MinIO.PresignExpiry = time.Hour
	}

	if c.AISearch.Timeout == 0 {
		c.AISearch.Timeout = 30 * time.Second
	}

	if c.Map.FitPaddingDegrees == 0 {
		c.Map.FitPaddingDegrees = 0.5
	}
	if c.Map.FitMaxZoom == 0 {
		c.Map.FitMaxZoom = 10
	}
	if c.Map.FocusZoom == 0 {
		c.Map.FocusZoom = 12
	}
	if c.Map.EdgeWeightCap == 0 {
		c.Map.EdgeWeightCap = 8
	}
	if c.Map.SessionIdleTimeout == 0 {
		c.Map.SessionIdleTimeout = 30 * time.Minute
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "scholarmap"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stdout"}
	}
	if len(c.Log.ErrorOutputPaths) == 0 {
		c.Log.ErrorOutputPaths = []string{"stderr"}
	}
}
