// Package config defines all configuration structures for ScholarMap.
// No I/O or parsing logic lives here, only plain data types and validation;
// loading is in loader.go and defaults in defaults.go.
package config

import (
	"fmt"
	"time"
)

// Version is the service version reported in logs and the health endpoint.
// Overridden at build time via -ldflags "-X .../internal/config.Version=...".
var Version = "dev"

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the catalog store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// Neo4jConfig holds the collaboration-graph connection parameters.
type Neo4jConfig struct {
	URI                   string        `mapstructure:"uri"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	Database              string        `mapstructure:"database"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout"`
}

// RedisConfig holds Redis connection parameters for the derived-data cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// OpenSearchConfig holds the free-text catalog search backend parameters.
// When Addresses is empty the catalog falls back to in-memory matching.
type OpenSearchConfig struct {
	Addresses          []string `mapstructure:"addresses"`
	User               string   `mapstructure:"user"`
	Password           string   `mapstructure:"password"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
	IndexPrefix        string   `mapstructure:"index_prefix"`
}

// KafkaConfig holds catalog-refresh event stream parameters.  When Brokers is
// empty, refresh events are disabled and the catalog cache relies on TTL only.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	RefreshTopic    string        `mapstructure:"refresh_topic"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	CommitInterval  time.Duration `mapstructure:"commit_interval"`
}

// MinIOConfig holds the object store serving entity images under /storage/.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// AISearchConfig holds the external inference endpoint parameters.
type AISearchConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	// Timeout bounds a single inference round trip; 0 disables the bound.
	Timeout time.Duration `mapstructure:"timeout"`
}

// MapConfig holds map-view rendering tunables.
type MapConfig struct {
	// FitPaddingDegrees pads the auto-fit bounding box on every side.
	FitPaddingDegrees float64 `mapstructure:"fit_padding_degrees"`
	// FitMaxZoom caps the zoom applied when fitting, preventing over-zoom
	// on a single visible marker.
	FitMaxZoom int `mapstructure:"fit_max_zoom"`
	// FocusZoom is the zoom used when flying to a focused researcher.
	FocusZoom int `mapstructure:"focus_zoom"`
	// EdgeWeightCap caps the stroke weight derived from collaboration strength.
	EdgeWeightCap int `mapstructure:"edge_weight_cap"`
	// SessionIdleTimeout expires map sessions with no activity.
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// LogConfig mirrors logging.Config; kept separate so the config package does
// not depend on the logging implementation.
type LogConfig struct {
	Level            string   `mapstructure:"level"`
	Format           string   `mapstructure:"format"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Config is the root configuration for all ScholarMap binaries.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	Redis      RedisConfig      `mapstructure:"redis"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	AISearch   AISearchConfig   `mapstructure:"ai_search"`
	Map        MapConfig        `mapstructure:"map"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

// Validate checks cross-field consistency after defaults are applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release, or test", c.Server.Mode)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port %d out of range", c.Database.Port)
	}
	if c.Database.MaxConns > 0 && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns %d exceeds max_conns %d", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Map.EdgeWeightCap < 1 {
		return fmt.Errorf("map.edge_weight_cap %d must be at least 1", c.Map.EdgeWeightCap)
	}
	if c.Map.FitMaxZoom < 1 {
		return fmt.Errorf("map.fit_max_zoom %d must be at least 1", c.Map.FitMaxZoom)
	}
	if c.AISearch.Timeout < 0 {
		return fmt.Errorf("ai_search.timeout must not be negative")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.RefreshTopic == "" {
		return fmt.Errorf("kafka.refresh_topic is required when brokers are set")
	}
	return nil
}
