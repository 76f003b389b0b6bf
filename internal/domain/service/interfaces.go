// Package service contains the pure risk scoring engine and the domain-level collaborator interfaces.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/pslrisk/internal/domain/models"
)

// Clock supplies the current time to the engine so that scoring runs can be reproduced.
// Clock 为引擎提供当前时间，使评分过程可以复现。
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies identifiers for scores and alerts.
// IDGenerator 为评分和告警生成标识符。
type IDGenerator interface {
	NewID() string
}

// AlertPublisher delivers risk alert transitions to downstream consumers.
// AlertPublisher 将风险告警状态变更投递给下游消费者。
type AlertPublisher interface {
	// Publish sends one alert event. Implementations must be safe for concurrent use.
	// Publish 发送一个告警事件，实现必须是并发安全的。
	Publish(ctx context.Context, event models.AlertEvent) error

	// Close flushes and releases the underlying transport.
	// Close 刷新并释放底层传输资源。
	Close() error
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }
