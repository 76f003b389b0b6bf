package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the application's configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Vault      VaultConfig      `mapstructure:"vault"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Host               string   `mapstructure:"host"`
	Port               int      `mapstructure:"port"`
	GRPCPort           int      `mapstructure:"grpc_port"`
	Mode               string   `mapstructure:"mode"`
	ReadTimeout        int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout       int      `mapstructure:"write_timeout"` // in seconds
	ShutdownTimeout    int      `mapstructure:"shutdown_timeout"`
	EnablePprof        bool     `mapstructure:"enable_pprof"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr returns the gRPC listen address
func (c *ServerConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// CacheConfig selects and tunes the score cache.
type CacheConfig struct {
	Backend         string        `mapstructure:"backend"` // memory or redis
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// DatabaseConfig selects where history, alerts, and tenant activity live.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // memory, postgres or sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"` // in minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type KafkaConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers"`
	AlertTopic   string   `mapstructure:"alert_topic"`
	WriteTimeout int      `mapstructure:"write_timeout"` // in seconds
}

// VaultConfig locates secrets that override inline credentials.
type VaultConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SampleRate     float64 `mapstructure:"sample_rate"`
}

// ScoringConfig tunes the application layer around the scoring engine.
type ScoringConfig struct {
	StrictValidation bool    `mapstructure:"strict_validation"`
	HistoryLimit     int     `mapstructure:"history_limit"`
	AlertsEnabled    bool    `mapstructure:"alerts_enabled"`
	SpikeThreshold   float64 `mapstructure:"spike_threshold"`
}

type MonitoringConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsPath    string `mapstructure:"metrics_path"`
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	switch strings.ToLower(c.Database.Driver) {
	case "memory", "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be memory, postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Vault.Enabled && c.Vault.Address == "" {
		return fmt.Errorf("vault.address is required when vault is enabled")
	}
	if c.Scoring.HistoryLimit <= 0 {
		return fmt.Errorf("scoring.history_limit must be positive")
	}
	if c.Scoring.SpikeThreshold <= 0 {
		return fmt.Errorf("scoring.spike_threshold must be positive")
	}
	return nil
}

//Personal.AI order the ending
