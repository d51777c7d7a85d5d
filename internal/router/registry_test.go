package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingModule struct{ calls int }

func (m *pingModule) Register(rg *gin.RouterGroup) {
	m.calls++
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("tag")) })
}

func TestRegistryMountsModulesUnderAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	mod := &pingModule{}
	reg.Use(func(c *gin.Context) { c.Set("tag", "api"); c.Next() })
	reg.Add(mod)
	reg.RegisterAll()
	reg.RegisterAll()

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "api", w.Body.String())
	assert.Equal(t, 1, mod.calls)

	w = httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
