package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/logger"
)

type recordedRequest struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeHTTPMetrics) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func newTracer() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func TestObservabilityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder, provider := newTracer()
	metrics := &fakeHTTPMetrics{}

	router := gin.New()
	router.Use(ObservabilityMiddleware(provider.Tracer("test"), metrics))
	router.GET("/risk/:tenant_id", func(c *gin.Context) {
		assert.NotEmpty(t, c.GetString(ContextKeyTraceID))
		c.Status(http.StatusOK)
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/risk/t1", "/boom", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, metrics.requests, 3)
	assert.Equal(t, recordedRequest{method: "GET", route: "/risk/:tenant_id", status: 200}, metrics.requests[0])
	assert.Equal(t, 500, metrics.requests[1].status)
	assert.Equal(t, "not_found", metrics.requests[2].route)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "GET /risk/:tenant_id", spans[0].Name())
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}

func TestObservabilityMiddleware_ContinuesIncomingTrace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder, provider := newTracer()

	router := gin.New()
	router.Use(ObservabilityMiddleware(provider.Tracer("test"), nil))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, "%v", c.Request.Context().Value(constants.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(constants.HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderRequestID, "req-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderRequestID))
	assert.Equal(t, "req-123", w.Body.String())
}

type captureLogger struct {
	logger.Logger
	mu       sync.Mutex
	messages []string
}

func (l *captureLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *captureLogger) Info(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l *captureLogger) Warn(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l *captureLogger) Error(_ context.Context, msg string, _ error, _ ...logger.Field) {
	l.record(msg)
}

func TestRecoveryAndLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := &captureLogger{Logger: logger.NewNoopLogger()}

	router := gin.New()
	router.Use(RequestLogger(log), Recovery(log))
	router.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte(`"code":"server_error"`)))
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("kaboom")))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, []string{"Panic recovered", "Request failed", "Request processed"}, log.messages)
}
