package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/blogx-api/internal/interface/http"
	"github.com/oksasatya/blogx-api/internal/interface/middleware"
)

// AccountModule serves the principal's own profile under /me and public
// per-account post listings.
type AccountModule struct {
	Handler *handlers.AccountHandler
	Auth    gin.HandlerFunc
	Active  gin.HandlerFunc
	Redis   *redis.Client
}

func NewAccountModule(h *handlers.AccountHandler, auth, active gin.HandlerFunc, rdb *redis.Client) *AccountModule {
	return &AccountModule{Handler: h, Auth: auth, Active: active, Redis: rdb}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.GET("/accounts/:id/posts", m.Handler.AccountPosts)

	me := rg.Group("/me")
	me.Use(m.Auth, m.Active)
	me.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByAccount(), nil))
	{
		me.GET("", m.Handler.Me)
		me.PUT("", m.Handler.UpdateMe)
		me.POST("/avatar", middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByAccount(), nil), m.Handler.UploadAvatar)
		me.GET("/posts", m.Handler.MyPosts)
	}
}
