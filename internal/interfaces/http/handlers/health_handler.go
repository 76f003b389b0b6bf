package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/pslrisk/pkg/logger"
	"github.com/turtacn/pslrisk/pkg/utils"
)

// DependencyCheck reports whether a backing dependency is reachable.
type DependencyCheck func(ctx context.Context) error

const (
	checkTimeout    = 3 * time.Second
	maxCheckMessage = 200
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checks map[string]DependencyCheck
	log    logger.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler over the named dependency checks.
func NewHealthHandler(checks map[string]DependencyCheck, log logger.Logger) *HealthHandler {
	if checks == nil {
		checks = map[string]DependencyCheck{}
	}
	return &HealthHandler{checks: checks, log: log, now: time.Now}
}

// LivenessCheck godoc
// @Summary      Liveness Check
// @Description  Reports that the process is up. Dependencies are not consulted.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health/live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": h.now().UTC(),
	})
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Checks if the service and its dependencies are ready to accept traffic.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health/ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	status := "healthy"
	httpStatus := http.StatusOK
	checks := h.Run(c.Request.Context())
	for name, checkStatus := range checks {
		if checkStatus != "ok" {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			h.log.Warn(c.Request.Context(), "Dependency check failed",
				logger.String("dependency", name),
				logger.String("status", checkStatus),
			)
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": h.now().UTC(),
		"checks":    checks,
	})
}

// Run executes every dependency check concurrently.
func (h *HealthHandler) Run(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check DependencyCheck) {
			defer wg.Done()
			status := "ok"
			if err := check(ctx); err != nil {
				status = "error: " + utils.Truncate(err.Error(), maxCheckMessage)
			}
			mu.Lock()
			results[name] = status
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return results
}

//Personal.AI order the ending
