// Package handlers implements the gin handlers of the risk scoring HTTP API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/pslrisk/internal/application/dto"
	"github.com/turtacn/pslrisk/internal/interfaces/http/middleware"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

func sendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse(data, c.GetString(middleware.ContextKeyTraceID)))
}

// sendError writes the error envelope. Server-side failures are logged.
func sendError(c *gin.Context, log logger.Logger, err error) {
	status := errors.StatusOf(err)
	if errors.ShouldLogError(err) {
		log.Error(c.Request.Context(), "Request failed", err,
			logger.String("path", c.FullPath()),
			logger.Int("status", status),
		)
	}
	c.JSON(status, dto.ErrorResponse(err, c.GetString(middleware.ContextKeyTraceID)))
}
