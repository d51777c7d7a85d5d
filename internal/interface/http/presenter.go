package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/pkg/response"
)

type userResource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url"`
	IsAdmin   bool      `json:"is_admin"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toUser renders u. The email is shown only to the account owner.
func toUser(u *entity.User, viewerID string) userResource {
	r := userResource{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		IsAdmin:   u.IsAdmin,
		Activated: u.Activated,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if viewerID != "" && viewerID == u.ID {
		r.Email = u.Email
	}
	return r
}

func toUsers(users []entity.User, viewerID string) []userResource {
	out := make([]userResource, 0, len(users))
	for i := range users {
		out = append(out, toUser(&users[i], viewerID))
	}
	return out
}

type statusResource struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toStatuses(statuses []entity.Status) []statusResource {
	out := make([]statusResource, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, statusResource{ID: s.ID, Content: s.Content, CreatedAt: s.CreatedAt})
	}
	return out
}

func pageMeta[T any](p entity.Page[T]) response.PageMeta {
	return response.PageMeta{
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		LastPage: p.LastPage(),
		HasMore:  p.HasMore(),
	}
}

// queryInt reads a positive integer query parameter; anything else yields 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
