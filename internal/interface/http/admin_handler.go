package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/interface/middleware"
	"github.com/oksasatya/blogx-api/pkg/response"
)

type AdminHandler struct {
	Accounts *application.AccountService
	Posts    *application.PostService
	Logger   *logrus.Logger
}

func NewAdminHandler(accounts *application.AccountService, posts *application.PostService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Accounts: accounts, Posts: posts, Logger: logger}
}

func (h *AdminHandler) ListAccounts(c *gin.Context) {
	list, err := h.Accounts.ListAccounts(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccounts(list), "accounts", map[string]any{"count": len(list)})
}

func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	if err := h.Accounts.DeleteAccount(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "account deleted", nil)
}

func (h *AdminHandler) Block(c *gin.Context) {
	a, err := h.Accounts.Block(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccount(a), "account blocked", nil)
}

func (h *AdminHandler) Unblock(c *gin.Context) {
	a, err := h.Accounts.Unblock(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccount(a), "account unblocked", nil)
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	posts, err := h.Posts.AdminList(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(posts), "posts", map[string]any{"count": len(posts)})
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "post deleted", nil)
}
