package monitoring

import (
	"context"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// ZapLogger is the zap-backed logger.Logger. Its level can be changed at runtime.
type ZapLogger struct {
	base  *zap.Logger
	level zap.AtomicLevel
}

// NewZapLogger builds a logger writing to stdout.
func NewZapLogger(cfg *config.LogConfig) (*ZapLogger, error) {
	return NewZapLoggerWithWriter(cfg, os.Stdout)
}

// NewZapLoggerWithWriter builds a logger writing to w.
func NewZapLoggerWithWriter(cfg *config.LogConfig, w io.Writer) (*ZapLogger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "console") {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return &ZapLogger{
		base:  zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)),
		level: level,
	}, nil
}

// SetLevel changes the minimum enabled level. Unknown names fall back to info.
func (l *ZapLogger) SetLevel(level string) {
	l.level.SetLevel(parseLevel(level))
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {
	l.base.Debug(msg, convertFields(ctx, fields)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, fields ...logger.Field) {
	l.base.Info(msg, convertFields(ctx, fields)...)
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, fields ...logger.Field) {
	l.base.Warn(msg, convertFields(ctx, fields)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Field) {
	l.base.Error(msg, append(convertFields(ctx, fields), zap.Error(err))...)
}

func (l *ZapLogger) Fatal(ctx context.Context, msg string, err error, fields ...logger.Field) {
	l.base.Fatal(msg, append(convertFields(ctx, fields), zap.Error(err))...)
}

func (l *ZapLogger) WithFields(fields ...logger.Field) logger.Logger {
	return &ZapLogger{base: l.base.With(convertFields(context.Background(), fields)...), level: l.level}
}

func (l *ZapLogger) WithComponent(component string) logger.Logger {
	return &ZapLogger{base: l.base.With(zap.String("component", component)), level: l.level}
}

func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

func parseLevel(name string) zapcore.Level {
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// convertFields prepends request correlation taken from ctx.
func convertFields(ctx context.Context, fields []logger.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+4)
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			zapFields = append(zapFields,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
		if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && requestID != "" {
			zapFields = append(zapFields, zap.String("request_id", requestID))
		}
		if tenantID, ok := ctx.Value(constants.ContextKeyTenantID).(string); ok && tenantID != "" {
			zapFields = append(zapFields, zap.String("tenant_id", tenantID))
		}
	}

	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	return zapFields
}

//Personal.AI order the ending
