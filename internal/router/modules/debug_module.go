package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sample-social/internal/container"
	handlers "github.com/oksasatya/sample-social/internal/interface/http"
	"github.com/oksasatya/sample-social/internal/interface/middleware"
)

// DebugModule serves liveness, readiness and, when enabled, expvar metrics.
type DebugModule struct {
	Health  *handlers.HealthHandler
	Metrics bool
}

func NewDebugModule(h *handlers.HealthHandler, metrics bool) *DebugModule {
	return &DebugModule{Health: h, Metrics: metrics}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Live)
	rg.GET("/ready", m.Health.Ready)

	if m.Metrics {
		rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
