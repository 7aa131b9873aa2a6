package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/interface/middleware"
	"github.com/oksasatya/blogx-api/pkg/response"
	"github.com/oksasatya/blogx-api/pkg/validation"
)

type PostHandler struct {
	Svc      *application.PostService
	Comments *application.CommentService
	Logger   *logrus.Logger
	Uploads  UploadConfig
}

func NewPostHandler(svc *application.PostService, comments *application.CommentService, logger *logrus.Logger, uploads UploadConfig) *PostHandler {
	return &PostHandler{Svc: svc, Comments: comments, Logger: logger, Uploads: uploads}
}

// createPostRequest is bound from multipart forms or JSON. Tags are comma separated.
type createPostRequest struct {
	Title    string `form:"title" json:"title" binding:"required,notblank,max=200"`
	Content  string `form:"content" json:"content" binding:"required,notblank"`
	Category string `form:"category" json:"category" binding:"omitempty,max=50"`
	Tags     string `form:"tags" json:"tags"`
}

type updatePostRequest struct {
	Title    string `form:"title" json:"title" binding:"omitempty,max=200"`
	Content  string `form:"content" json:"content"`
	Category string `form:"category" json:"category" binding:"omitempty,max=50"`
	Tags     string `form:"tags" json:"tags"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required,notblank,max=2000"`
}

func bindForm(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		details := validation.ToDetails(err)
		badRequest(c, validation.Summary(details), details)
		return false
	}
	return true
}

// tagsOrNil keeps the current tags on update when the field is blank.
func tagsOrNil(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return application.ParseTags(raw)
}

func (h *PostHandler) List(c *gin.Context) {
	f := entity.PostFilter{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
	}
	posts, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(posts), "posts", map[string]any{"count": len(posts)})
}

func (h *PostHandler) Search(c *gin.Context) {
	posts, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(posts), "search results", map[string]any{"count": len(posts)})
}

func (h *PostHandler) Get(c *gin.Context) {
	d, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostDetail(d), "post", nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	h.Uploads.limitBody(c)
	up, cleanup, err := h.Uploads.receiveImage(c, "image")
	defer cleanup()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	var req createPostRequest
	if !bindForm(c, &req) {
		return
	}
	v, err := h.Svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), application.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     application.ParseTags(req.Tags),
	}, up)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPost(v), "post created", nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	h.Uploads.limitBody(c)
	up, cleanup, err := h.Uploads.receiveImage(c, "image")
	defer cleanup()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	var req updatePostRequest
	if !bindForm(c, &req) {
		return
	}
	v, err := h.Svc.Update(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), application.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     tagsOrNil(req.Tags),
	}, up)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(v), "post updated", nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "post deleted", nil)
}

func (h *PostHandler) Like(c *gin.Context) {
	n, err := h.Svc.Like(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"likes": n}, "post liked", nil)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	n, err := h.Svc.Unlike(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"likes": n}, "post unliked", nil)
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.Comments.Create(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), req.Text)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toComment(v), "comment added", nil)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	err := h.Comments.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "comment deleted", nil)
}
