package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/internal/application"
	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/internal/interface/middleware"
	"github.com/oksasatya/sample-social/pkg/response"
)

type FollowUseCase interface {
	Follow(ctx context.Context, actingID, targetID string) (bool, error)
	Unfollow(ctx context.Context, actingID, targetID string) (bool, error)
	IsFollowing(ctx context.Context, actingID, targetID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) (entity.Page[entity.User], error)
	ListFollowings(ctx context.Context, userID string, page, pageSize int) (entity.Page[entity.User], error)
}

type FollowHandler struct {
	Follows FollowUseCase
	Logger  *logrus.Logger
}

func NewFollowHandler(follows FollowUseCase, logger *logrus.Logger) *FollowHandler {
	return &FollowHandler{Follows: follows, Logger: logger}
}

// Store POST /api/users/:id/followers makes the caller follow :id.
// Following yourself is answered as a no-op.
func (h *FollowHandler) Store(c *gin.Context) {
	created, err := h.Follows.Follow(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if errors.Is(err, application.ErrSelfFollow) {
		response.Success(c, http.StatusOK, gin.H{"following": false, "changed": false}, "you cannot follow yourself", nil)
		return
	}
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"following": true, "changed": created}, "followed", nil)
}

// Destroy DELETE /api/users/:id/followers
func (h *FollowHandler) Destroy(c *gin.Context) {
	removed, err := h.Follows.Unfollow(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if errors.Is(err, application.ErrSelfFollow) {
		response.Success(c, http.StatusOK, gin.H{"following": false, "changed": false}, "you cannot unfollow yourself", nil)
		return
	}
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"following": false, "changed": removed}, "unfollowed", nil)
}

// Followers GET /api/users/:id/followers?page=
func (h *FollowHandler) Followers(c *gin.Context) {
	h.list(c, "followers", h.Follows.ListFollowers)
}

// Followings GET /api/users/:id/followings?page=
func (h *FollowHandler) Followings(c *gin.Context) {
	h.list(c, "followings", h.Follows.ListFollowings)
}

func (h *FollowHandler) list(c *gin.Context, msg string, fetch func(context.Context, string, int, int) (entity.Page[entity.User], error)) {
	page, err := fetch(c.Request.Context(), c.Param("id"), queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(page.Items, c.GetString(middleware.CtxUserIDKey)), msg, pageMeta(page))
}
