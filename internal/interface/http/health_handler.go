package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/pkg/response"
)

type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type HealthHandler struct {
	Readiness ReadinessChecker
	Logger    *logrus.Logger
}

func NewHealthHandler(readiness ReadinessChecker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Readiness: readiness, Logger: logger}
}

// Live GET /api/health
func (h *HealthHandler) Live(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "alive", nil)
}

// Ready GET /api/ready reports whether every backing service answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.Readiness != nil {
		if err := h.Readiness.Ready(c.Request.Context()); err != nil {
			h.Logger.WithError(err).Warn("readiness check failed")
			response.Error[any](c, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ready"}, "ready", nil)
}
