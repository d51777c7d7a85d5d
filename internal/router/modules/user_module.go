package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sample-social/internal/container"
	handlers "github.com/oksasatya/sample-social/internal/interface/http"
	"github.com/oksasatya/sample-social/internal/interface/middleware"
	"github.com/oksasatya/sample-social/pkg/helpers"
)

// UserModule serves accounts, profiles and the follow graph under /users.
type UserModule struct {
	Users   *handlers.UserHandler
	Follows *handlers.FollowHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(users *handlers.UserHandler, follows *handlers.FollowHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Users: users, Follows: follows, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	optional := middleware.OptionalAuth(rdb, m.JWT)

	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	confirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	readLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	users.GET("", readLimiter, optional, m.Users.Index)
	users.POST("", registerLimiter, middleware.Guest(rdb, m.JWT), m.Users.Store)
	users.GET("/confirm/:token", confirmLimiter, m.Users.Confirm)
	users.GET("/:id", readLimiter, optional, m.Users.Show)
	users.GET("/:id/followers", readLimiter, optional, m.Follows.Followers)
	users.GET("/:id/followings", readLimiter, optional, m.Follows.Followings)

	auth := users.Group("")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/search", m.Users.Search)
		auth.PATCH("/:id", m.Users.Update)
		auth.DELETE("/:id", m.Users.Destroy)
		auth.POST("/:id/avatar", m.Users.Avatar)
		auth.POST("/:id/followers", m.Follows.Store)
		auth.DELETE("/:id/followers", m.Follows.Destroy)
	}
}
