package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blogx-api/internal/interface/http"
	"github.com/oksasatya/blogx-api/internal/interface/middleware"
)

// AdminModule serves account moderation and post oversight under /admin.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    gin.HandlerFunc
	Active  gin.HandlerFunc
}

func NewAdminModule(h *handlers.AdminHandler, auth, active gin.HandlerFunc) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth, Active: active}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(m.Auth, m.Active, middleware.RequireAdmin())
	{
		admin.GET("/accounts", m.Handler.ListAccounts)
		admin.DELETE("/accounts/:id", m.Handler.DeleteAccount)
		admin.PATCH("/accounts/:id/block", m.Handler.Block)
		admin.PATCH("/accounts/:id/unblock", m.Handler.Unblock)
		admin.GET("/posts", m.Handler.ListPosts)
		admin.DELETE("/posts/:id", m.Handler.DeletePost)
	}
}
