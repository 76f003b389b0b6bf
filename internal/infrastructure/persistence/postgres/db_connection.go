// Package postgres provides the gorm-backed repositories and database connection management.
// Production runs on PostgreSQL; the SQLite driver serves local runs and tests.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// DBConnection manages the gorm connection pool lifecycle.
type DBConnection struct {
	db     *gorm.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

// NewDBConnection opens the configured database and performs an initial health check.
//
// Parameters:
//   - ctx: Context for connection timeout control
//   - cfg: Database configuration including driver, credentials, and pool settings
//   - log: Logger instance for connection lifecycle events
//
// Returns:
//   - *DBConnection: Initialized connection manager
//   - error: Connection establishment error if any
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, errors.ErrDatabaseConnectionFailed("database config is required")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, errors.ErrDatabaseConnectionFailed(fmt.Sprintf("unsupported driver %q", cfg.Driver))
	}

	log.Info(ctx, "Initializing database connection",
		logger.String("driver", cfg.Driver),
		logger.String("host", cfg.Host),
		logger.String("database", cfg.Database),
		logger.Int("max_conns", cfg.MaxConns),
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		log.Error(ctx, "Failed to open database", err)
		return nil, errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetime) * time.Minute)
	}

	conn := &DBConnection{db: db, config: cfg, logger: log}
	if err := conn.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := conn.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	log.Info(ctx, "Database connection initialized successfully", logger.String("driver", cfg.Driver))
	return conn, nil
}

// NewDBConnectionFromGorm wraps an already opened gorm handle.
func NewDBConnectionFromGorm(db *gorm.DB, log logger.Logger) *DBConnection {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &DBConnection{db: db, config: &config.DatabaseConfig{}, logger: log}
}

// DB returns the gorm handle used by repository implementations.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Migrate creates or updates every table the service owns or reads.
func (c *DBConnection) Migrate(ctx context.Context) error {
	err := c.db.WithContext(ctx).AutoMigrate(
		&scoreHistoryDBM{},
		&riskAlertDBM{},
		&employerDBM{},
		&leaveRequestDBM{},
		&accrualBalanceDBM{},
		&complianceAlertDBM{},
	)
	if err != nil {
		c.logger.Error(ctx, "Database migration failed", err)
		return errors.ErrRepository("migrate").WithCause(err)
	}
	return nil
}

// Ping verifies database connectivity and responsiveness.
func (c *DBConnection) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		c.logger.Error(ctx, "Database ping failed", err)
		return errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}

	if latency := time.Since(start); latency > 100*time.Millisecond {
		c.logger.Warn(ctx, "High database latency detected", logger.Duration("latency", latency))
	}
	return nil
}

// HealthCheck pings the database and reports pool statistics.
func (c *DBConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	if err := c.Ping(ctx); err != nil {
		return nil, err
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return nil, err
	}
	stats := sqlDB.Stats()
	return map[string]interface{}{
		"status":           "healthy",
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"max_open":         stats.MaxOpenConnections,
	}, nil
}

// Close releases the connection pool.
func (c *DBConnection) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.logger.Info(context.Background(), "Closing database connection pool")
	return sqlDB.Close()
}

//Personal.AI order the ending
