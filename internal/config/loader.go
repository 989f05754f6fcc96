package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "SCHOLARMAP"

// bindKeys registers every configuration key with viper.  AutomaticEnv only
// resolves keys viper already knows about, so without this an env-only setup
// would unmarshal to zero values.
func bindKeys(v *viper.Viper) {
	keys := []string{
		"server.port", "server.mode", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
		"database.host", "database.port", "database.user", "database.password", "database.db_name",
		"database.ssl_mode", "database.max_conns", "database.min_conns", "database.conn_max_lifetime",
		"database.conn_max_idle_time", "database.migration_path",
		"neo4j.uri", "neo4j.user", "neo4j.password", "neo4j.database",
		"neo4j.max_connection_pool_size", "neo4j.connection_timeout",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size", "redis.min_idle_conns",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.default_ttl", "redis.key_prefix",
		"opensearch.addresses", "opensearch.user", "opensearch.password",
		"opensearch.insecure_skip_verify", "opensearch.index_prefix",
		"kafka.brokers", "kafka.group_id", "kafka.refresh_topic", "kafka.producer_retries", "kafka.commit_interval",
		"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket", "minio.use_ssl", "minio.presign_expiry",
		"ai_search.endpoint", "ai_search.api_key", "ai_search.timeout",
		"map.fit_padding_degrees", "map.fit_max_zoom", "map.focus_zoom", "map.edge_weight_cap", "map.session_idle_timeout",
		"metrics.enabled", "metrics.namespace", "metrics.enable_process_metrics", "metrics.enable_go_metrics",
		"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	}
	for _, key := range keys {
		v.SetDefault(key, nil)
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/scholarmap")
	}
	return v
}

// Load reads configuration from the given file (or the default search paths
// when path is empty), layers SCHOLARMAP_* environment variables on top,
// applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file is only acceptable when no explicit path was given;
		// env variables and defaults still produce a usable config.
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a configuration from environment variables and defaults
// only, never touching the filesystem.
func LoadFromEnv() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)
	return unmarshalAndFinalize(v)
}

// MustLoad is Load but panics on error, for main functions where a broken
// configuration should abort startup immediately.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// Watch reloads the file on change and calls onChange with the new config.
// Invalid reloads are reported through onError and the previous configuration
// stays in effect.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	if path == "" {
		return fmt.Errorf("config: watch requires an explicit path")
	}
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
