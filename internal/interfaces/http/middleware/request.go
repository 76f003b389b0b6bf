package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/pslrisk/internal/application/dto"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// RequestID propagates X-Request-ID, generating one when the client sent none.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(string(constants.ContextKeyRequestID), requestID)
		c.Header(constants.HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID))
		c.Next()
	}
}

// RequestLogger logs every request once it has been served.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Int64("latency_ms", time.Since(start).Milliseconds()),
			logger.String("client_ip", c.ClientIP()),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Warn(c.Request.Context(), "Request failed", fields...)
		default:
			log.Info(c.Request.Context(), "Request processed", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 envelope.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				log.Error(c.Request.Context(), "Panic recovered", err, logger.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.ErrorResponse(errors.ErrServerError(err.Error()), c.GetString(ContextKeyTraceID)))
			}
		}()
		c.Next()
	}
}
