// Package monitoring 提供日志、指标和分布式追踪的实现
package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/logger"
)

const instrumentationName = "github.com/turtacn/pslrisk"

// TracingManager 管理 OpenTelemetry 追踪
type TracingManager struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	logger   logger.Logger
}

// NewTracingManager 创建追踪管理器。未启用时使用全局 no-op tracer。
func NewTracingManager(cfg *config.TracingConfig, log logger.Logger) (*TracingManager, error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if !cfg.Enabled {
		log.Info(context.Background(), "Tracing is disabled")
		return &TracingManager{tracer: otel.Tracer(instrumentationName), logger: log}, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(cfg.JaegerEndpoint),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(constants.ModelVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)

	log.Info(context.Background(), "Tracing initialized successfully",
		logger.String("endpoint", cfg.JaegerEndpoint),
		logger.Float64("sample_rate", cfg.SampleRate),
	)
	return NewTracingManagerWithProvider(provider, log), nil
}

// NewTracingManagerWithProvider installs provider globally and traces through it.
func NewTracingManagerWithProvider(provider *sdktrace.TracerProvider, log logger.Logger) *TracingManager {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &TracingManager{
		tracer:   provider.Tracer(instrumentationName),
		provider: provider,
		logger:   log,
	}
}

// Tracer returns the tracer spans are started from.
func (tm *TracingManager) Tracer() trace.Tracer {
	return tm.tracer
}

// StartSpan 开始一个新的 Span
func (tm *TracingManager) StartSpan(ctx context.Context, spanName string, attrs map[string]interface{}) (context.Context, trace.Span) {
	attributes := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		attributes = append(attributes, convertToAttribute(key, value))
	}
	return tm.tracer.Start(ctx, spanName, trace.WithAttributes(attributes...))
}

// RecordError 记录错误到当前 Span
func (tm *TracingManager) RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceID 获取当前 Trace ID
func (tm *TracingManager) TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// Shutdown 关闭追踪管理器
func (tm *TracingManager) Shutdown(ctx context.Context) error {
	if tm.provider == nil {
		return nil
	}
	if err := tm.provider.Shutdown(ctx); err != nil {
		tm.logger.Error(ctx, "Failed to shutdown tracing provider", err)
		return err
	}
	tm.logger.Info(ctx, "Tracing provider shutdown successfully")
	return nil
}

// TraceOperation 追踪一个操作的辅助函数
func TraceOperation(ctx context.Context, tm *TracingManager, operationName string, attrs map[string]interface{}, fn func(context.Context) error) error {
	if tm == nil {
		return fn(ctx)
	}
	ctx, span := tm.StartSpan(ctx, operationName, attrs)
	defer span.End()

	if err := fn(ctx); err != nil {
		tm.RecordError(ctx, err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func convertToAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

//Personal.AI order the ending
