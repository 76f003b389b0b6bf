package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/pslrisk/internal/application/dto"
	"github.com/turtacn/pslrisk/internal/application/service"
	svcerrors "github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
	"github.com/turtacn/pslrisk/pkg/utils"
)

// RiskHandler serves the risk score, history and alert endpoints.
type RiskHandler struct {
	svc service.RiskScoreAppService
	log logger.Logger
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(svc service.RiskScoreAppService, log logger.Logger) *RiskHandler {
	return &RiskHandler{svc: svc, log: log.WithComponent("RiskHandler")}
}

// Calculate godoc
// @Summary      Calculate risk score
// @Description  Scores the submitted activity snapshot. The cached score is returned unless force=true.
// @Tags         risk
// @Accept       json
// @Produce      json
// @Param        tenant_id  path   string  true   "Tenant ID"
// @Param        force      query  bool    false  "Bypass the score cache"
// @Success      200  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIResponse
// @Router       /api/v1/risk/{tenant_id}/calculate [post]
func (h *RiskHandler) Calculate(c *gin.Context) {
	force, err := parseForce(c)
	if err != nil {
		sendError(c, h.log, err)
		return
	}

	var req dto.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, h.log, svcerrors.ErrInvalidRequest("Request body must be a JSON activity snapshot").WithCause(err))
		return
	}

	resp, err := h.svc.Calculate(c.Request.Context(), c.Param("tenant_id"), &req, force)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, resp)
}

func parseForce(c *gin.Context) (bool, error) {
	raw := c.Query("force")
	if raw == "" {
		return false, nil
	}
	force, err := strconv.ParseBool(raw)
	if err != nil {
		return false, svcerrors.ErrInvalidParameterFormat("force", "boolean")
	}
	return force, nil
}

// Recalculate loads the tenant's stored activity and forces a fresh score.
// @Router /api/v1/risk/{tenant_id}/recalculate [post]
func (h *RiskHandler) Recalculate(c *gin.Context) {
	resp, err := h.svc.Recalculate(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, resp)
}

// Summary returns the dashboard view of the latest score.
// @Router /api/v1/risk/{tenant_id}/summary [get]
func (h *RiskHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, summary)
}

// History returns stored scores oldest first.
// @Router /api/v1/risk/{tenant_id}/history [get]
func (h *RiskHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, history)
}

// ClearCache drops the cached score.
// @Router /api/v1/risk/{tenant_id}/cache [delete]
func (h *RiskHandler) ClearCache(c *gin.Context) {
	if err := h.svc.ClearCache(c.Request.Context(), c.Param("tenant_id")); err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.MessageResponse{Message: "Score cache cleared"})
}

// ListAlerts returns the tenant's alerts newest first.
// @Router /api/v1/risk/{tenant_id}/alerts [get]
func (h *RiskHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.svc.ListAlerts(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, alerts)
}

// AcknowledgeAlert moves an active alert to acknowledged.
// @Router /api/v1/risk/{tenant_id}/alerts/{alert_id}/acknowledge [post]
func (h *RiskHandler) AcknowledgeAlert(c *gin.Context) {
	actor, ok := h.bindActor(c)
	if !ok {
		return
	}
	alert, err := h.svc.AcknowledgeAlert(c.Request.Context(), c.Param("tenant_id"), c.Param("alert_id"), actor)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, alert)
}

// ResolveAlert moves an open alert to resolved.
// @Router /api/v1/risk/{tenant_id}/alerts/{alert_id}/resolve [post]
func (h *RiskHandler) ResolveAlert(c *gin.Context) {
	actor, ok := h.bindActor(c)
	if !ok {
		return
	}
	alert, err := h.svc.ResolveAlert(c.Request.Context(), c.Param("tenant_id"), c.Param("alert_id"), actor)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendSuccess(c, http.StatusOK, alert)
}

// bindActor reads the optional {"actor": "..."} body. An empty body is allowed.
func (h *RiskHandler) bindActor(c *gin.Context) (string, bool) {
	var req dto.AlertActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		sendError(c, h.log, svcerrors.ErrInvalidRequest("Request body must be a JSON object").WithCause(err))
		return "", false
	}
	if err := utils.ValidateStruct(&req); err != nil {
		sendError(c, h.log, err)
		return "", false
	}
	return req.Actor, true
}

// FactorsConfig returns the weight and threshold tables.
// @Router /api/v1/risk/factors [get]
func (h *RiskHandler) FactorsConfig(c *gin.Context) {
	sendSuccess(c, http.StatusOK, h.svc.FactorsConfig())
}

// ModelInfo returns the scoring model metadata.
// @Router /api/v1/risk/model [get]
func (h *RiskHandler) ModelInfo(c *gin.Context) {
	sendSuccess(c, http.StatusOK, h.svc.ModelInfo())
}
