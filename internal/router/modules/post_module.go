package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/blogx-api/internal/interface/http"
	"github.com/oksasatya/blogx-api/internal/interface/middleware"
)

// PostModule serves posts, likes and comments.
// Public: GET /posts, GET /posts/search, GET /posts/:id
// Protected: everything that mutates
type PostModule struct {
	Handler *handlers.PostHandler
	Auth    gin.HandlerFunc
	Active  gin.HandlerFunc
	Redis   *redis.Client
}

func NewPostModule(h *handlers.PostHandler, auth, active gin.HandlerFunc, rdb *redis.Client) *PostModule {
	return &PostModule{Handler: h, Auth: auth, Active: active, Redis: rdb}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/posts", readLimiter, m.Handler.List)
	rg.GET("/posts/search", readLimiter, m.Handler.Search)
	rg.GET("/posts/:id", readLimiter, m.Handler.Get)

	auth := rg.Group("/posts")
	auth.Use(m.Auth, m.Active)
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByAccount(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/like", m.Handler.Like)
		auth.POST("/:id/unlike", m.Handler.Unlike)
		auth.POST("/:id/comments", m.Handler.CreateComment)
		auth.DELETE("/:id/comments/:commentId", m.Handler.DeleteComment)
	}
}
