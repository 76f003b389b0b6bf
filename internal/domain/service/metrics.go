package service

import (
	"time"

	"github.com/turtacn/pslrisk/pkg/constants"
)

// Metrics defines the interface for collecting scoring business metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集评分业务指标的接口。
// 这种抽象使应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordScoreCalculated records a fresh computation and how long it took.
	// RecordScoreCalculated 记录一次新的评分计算及其耗时。
	RecordScoreCalculated(level constants.RiskLevel, duration time.Duration)

	// RecordCacheAccess records a score cache hit or miss.
	// RecordCacheAccess 记录评分缓存命中或未命中。
	RecordCacheAccess(hit bool)

	// RecordAlert records an alert transition.
	// RecordAlert 记录一次告警状态变更。
	RecordAlert(alertType constants.AlertType, action constants.AlertAction)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

func (NoopMetrics) RecordScoreCalculated(constants.RiskLevel, time.Duration) {}
func (NoopMetrics) RecordCacheAccess(bool)                                   {}
func (NoopMetrics) RecordAlert(constants.AlertType, constants.AlertAction)   {}
