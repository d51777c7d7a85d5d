package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/sample-social/pkg/helpers"
	"github.com/oksasatya/sample-social/pkg/response"
)

const CtxUserIDKey = "userID"

// accessToken reads the bearer token, falling back to the access_token cookie.
func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	token, _ := c.Cookie(helpers.AccessCookie)
	return token
}

// resolveUser returns the user id behind a valid access token whose session id
// still matches the live session in Redis.
func resolveUser(c *gin.Context, rdb *redis.Client, jwt *helpers.JWTManager) (string, string) {
	token := accessToken(c)
	if token == "" {
		return "", "missing access token"
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return "", "invalid access token"
	}
	if rdb != nil {
		sid, err := rdb.HGet(c.Request.Context(), helpers.SessionKey(claims.UserID), "sid").Result()
		if err != nil || sid != claims.SessionID {
			return "", "session not found"
		}
	}
	return claims.UserID, ""
}

// Auth requires a valid session and sets userID in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, reason := resolveUser(c, rdb, jwt)
		if uid == "" {
			response.Abort(c, http.StatusUnauthorized, reason, nil)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

// OptionalAuth sets userID when the request carries a valid session and
// lets anonymous requests through.
func OptionalAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, _ := resolveUser(c, rdb, jwt); uid != "" {
			c.Set(CtxUserIDKey, uid)
		}
		c.Next()
	}
}

// Guest rejects requests that already carry a valid session.
func Guest(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, _ := resolveUser(c, rdb, jwt); uid != "" {
			response.Abort(c, http.StatusForbidden, "already authenticated", nil)
			return
		}
		c.Next()
	}
}
