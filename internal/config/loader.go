package config

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// EnvPrefix is prepended to every environment override, e.g. PSLRISK_SERVER_PORT.
const EnvPrefix = "PSLRISK"

// Loader reads configuration from file and environment and can watch the file for changes.
type Loader struct {
	v   *viper.Viper
	log logger.Logger

	mu  sync.RWMutex
	cfg *Config
}

// NewLoader creates a loader. An empty configFile searches ./config.yaml and /etc/pslrisk/.
func NewLoader(configFile string, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/pslrisk/")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, log: log}
}

// Load reads and validates the configuration. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Current returns the most recently loaded configuration.
func (l *Loader) Current() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Watch reloads the file on change and hands valid configurations to onChange.
// Invalid reloads are logged and the previous configuration is kept.
func (l *Loader) Watch(onChange func(*Config)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		ctx := context.Background()
		cfg, err := l.decode()
		if err != nil {
			l.log.Error(ctx, "Config reload rejected", err, logger.String("file", e.Name))
			return
		}
		l.mu.Lock()
		l.cfg = cfg
		l.mu.Unlock()
		l.log.Info(ctx, "Config reloaded", logger.String("file", e.Name), logger.String("op", e.Op.String()))
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(configFile string, log logger.Logger) (*Config, error) {
	return NewLoader(configFile, log).Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.enable_pprof", false)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", constants.DefaultScoreCacheTTL)
	v.SetDefault("cache.cleanup_interval", constants.DefaultCacheCleanupInterval)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pslrisk")
	v.SetDefault("database.database", "pslrisk")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "pslrisk.db")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", 30)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.alert_topic", "pslrisk.risk-alerts")
	v.SetDefault("kafka.write_timeout", 5)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "pslrisk")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", "pslrisk")
	v.SetDefault("tracing.sample_rate", 1.0)

	v.SetDefault("scoring.strict_validation", true)
	v.SetDefault("scoring.history_limit", constants.DefaultHistoryLimit)
	v.SetDefault("scoring.alerts_enabled", true)
	v.SetDefault("scoring.spike_threshold", constants.DefaultSpikeThreshold)

	v.SetDefault("monitoring.metrics_enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
}

//Personal.AI order the ending
