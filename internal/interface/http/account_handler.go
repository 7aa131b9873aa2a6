package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/interface/middleware"
	"github.com/oksasatya/blogx-api/pkg/response"
)

type AccountHandler struct {
	Svc     *application.AccountService
	Posts   *application.PostService
	Logger  *logrus.Logger
	Uploads UploadConfig
}

func NewAccountHandler(svc *application.AccountService, posts *application.PostService, logger *logrus.Logger, uploads UploadConfig) *AccountHandler {
	return &AccountHandler{Svc: svc, Posts: posts, Logger: logger, Uploads: uploads}
}

type updateProfileRequest struct {
	Username  string `json:"username" binding:"omitempty,max=50"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

func (h *AccountHandler) Me(c *gin.Context) {
	a, err := h.Svc.Profile(c.Request.Context(), middleware.PrincipalFrom(c).ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccount(a), "profile", nil)
}

func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.PrincipalFrom(c), application.UpdateProfileInput{
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccount(a), "profile updated", nil)
}

func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	h.Uploads.limitBody(c)
	up, cleanup, err := h.Uploads.receiveImage(c, "image")
	defer cleanup()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if up == nil {
		badRequest(c, "image is required", map[string]string{"image": "is required"})
		return
	}
	a, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.PrincipalFrom(c), up)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccount(a), "avatar updated", nil)
}

func (h *AccountHandler) MyPosts(c *gin.Context) {
	h.listByOwner(c, middleware.PrincipalFrom(c).ID)
}

// AccountPosts lists the posts of any account.
func (h *AccountHandler) AccountPosts(c *gin.Context) {
	h.listByOwner(c, c.Param("id"))
}

func (h *AccountHandler) listByOwner(c *gin.Context, ownerID string) {
	posts, err := h.Posts.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(posts), "posts", map[string]any{"count": len(posts)})
}
