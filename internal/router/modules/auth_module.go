package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sample-social/internal/container"
	handlers "github.com/oksasatya/sample-social/internal/interface/http"
	"github.com/oksasatya/sample-social/internal/interface/middleware"
	"github.com/oksasatya/sample-social/pkg/helpers"
)

// AuthModule exposes session endpoints.
// Guest: POST /api/login. Public: POST /api/refresh. Protected: POST /api/logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/login", loginLimiter, middleware.Guest(rdb, m.JWT), m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/logout", middleware.Auth(rdb, m.JWT), m.Handler.Logout)
}
