package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/internal/application"
	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/internal/interface/middleware"
	"github.com/oksasatya/sample-social/pkg/helpers"
	"github.com/oksasatya/sample-social/pkg/response"
)

// maxAvatarBytes caps avatar uploads.
const maxAvatarBytes = 5 << 20

type AccountUseCase interface {
	Register(ctx context.Context, name, email, password string) (*entity.User, error)
	ConfirmEmail(ctx context.Context, token string) (*entity.User, application.TokenPair, error)
	UpdateProfile(ctx context.Context, actingID, targetID, name string, password *string) (*entity.User, error)
	DeleteAccount(ctx context.Context, actingID, targetID string) error
	ListUsers(ctx context.Context, page, pageSize int) (entity.Page[entity.User], error)
	GetProfile(ctx context.Context, id string, statusPage int) (*entity.User, entity.Page[entity.Status], error)
	UploadAvatar(ctx context.Context, actingID, targetID string, file application.Avatar) (*entity.User, error)
	SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error)
}

type UserHandler struct {
	Accounts AccountUseCase
	Follows  FollowUseCase
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewUserHandler(accounts AccountUseCase, follows FollowUseCase, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Accounts: accounts, Follows: follows, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name                 string `json:"name" binding:"required,username"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,pwd"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type updateRequest struct {
	Name                 string `json:"name" binding:"required,username"`
	Password             string `json:"password" binding:"omitempty,pwd"`
	PasswordConfirmation string `json:"password_confirmation" binding:"eqfield=Password"`
}

// Index GET /api/users?page=
func (h *UserHandler) Index(c *gin.Context) {
	page, err := h.Accounts.ListUsers(c.Request.Context(), queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(page.Items, c.GetString(middleware.CtxUserIDKey)), "users", pageMeta(page))
}

// Store POST /api/users registers an account. The caller stays logged out
// until the emailed link is followed.
func (h *UserHandler) Store(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := application.WithClientInfo(c.Request.Context(), application.ClientInfo{
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
	u, err := h.Accounts.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUser(u, u.ID), "please check your email to activate your account", nil)
}

// Confirm GET /api/users/confirm/:token activates the account and logs it in.
func (h *UserHandler) Confirm(c *gin.Context) {
	u, pair, err := h.Accounts.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, toUser(u, u.ID), "account activated", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Show GET /api/users/:id?page= returns the profile with one page of statuses.
func (h *UserHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := c.GetString(middleware.CtxUserIDKey)

	u, statuses, err := h.Accounts.GetProfile(ctx, c.Param("id"), queryInt(c, "page"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	data := gin.H{
		"user":     toUser(u, viewer),
		"statuses": toStatuses(statuses.Items),
	}
	if viewer != "" && viewer != u.ID && h.Follows != nil {
		following, err := h.Follows.IsFollowing(ctx, viewer, u.ID)
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		data["is_following"] = following
	}
	response.Success(c, http.StatusOK, data, "profile", pageMeta(statuses))
}

// Update PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	var password *string
	if req.Password != "" {
		password = &req.Password
	}
	acting := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Accounts.UpdateProfile(c.Request.Context(), acting, c.Param("id"), req.Name, password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u, acting), "profile updated", nil)
}

// Destroy DELETE /api/users/:id
func (h *UserHandler) Destroy(c *gin.Context) {
	if err := h.Accounts.DeleteAccount(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

// Avatar POST /api/users/:id/avatar (multipart field "avatar")
func (h *UserHandler) Avatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes+1<<20)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", map[string]string{"avatar": "is required"})
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", map[string]string{"avatar": "must be at most 5MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	acting := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Accounts.UploadAvatar(c.Request.Context(), acting, c.Param("id"), application.Avatar{
		Body:        f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u, acting), "avatar updated", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.Accounts.SearchUsers(c.Request.Context(), c.Query("q"), queryInt(c, "size"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(users, c.GetString(middleware.CtxUserIDKey)), "search results", nil)
}
