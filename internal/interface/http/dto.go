package handlers

import (
	"time"

	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

type accountResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsBlocked    bool      `json:"is_blocked"`
	AvatarURL    string    `json:"avatar_url"`
	GoogleLinked bool      `json:"google_linked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAccount(a *entity.Account) accountResponse {
	return accountResponse{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Role:         string(a.Role),
		IsBlocked:    a.IsBlocked,
		AvatarURL:    a.AvatarURL,
		GoogleLinked: a.GoogleID != "",
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toAccounts(list []*entity.Account) []accountResponse {
	out := make([]accountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAccount(a))
	}
	return out
}

type summaryResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func toSummary(s *application.AccountSummary) *summaryResponse {
	if s == nil {
		return nil
	}
	return &summaryResponse{ID: s.ID, Username: s.Username, AvatarURL: s.AvatarURL}
}

type postResponse struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	ImageURL   string           `json:"image_url"`
	Category   string           `json:"category"`
	Tags       []string         `json:"tags"`
	OwnerID    string           `json:"owner_id"`
	Owner      *summaryResponse `json:"owner"`
	Likes      []string         `json:"likes"`
	LikeCount  int              `json:"like_count"`
	CommentIDs []string         `json:"comment_ids"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toPost(v *application.PostView) postResponse {
	p := v.Post
	return postResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		ImageURL:   p.ImageURL,
		Category:   p.Category,
		Tags:       nonNil(p.Tags),
		OwnerID:    p.OwnerID,
		Owner:      toSummary(v.Owner),
		Likes:      nonNil(p.Likes),
		LikeCount:  p.LikeCount(),
		CommentIDs: nonNil(p.CommentIDs),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPosts(list []application.PostView) []postResponse {
	out := make([]postResponse, 0, len(list))
	for i := range list {
		out = append(out, toPost(&list[i]))
	}
	return out
}

type commentResponse struct {
	ID        string           `json:"id"`
	PostID    string           `json:"post_id"`
	AuthorID  string           `json:"author_id"`
	Author    *summaryResponse `json:"author"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
}

func toComment(v *application.CommentView) commentResponse {
	c := v.Comment
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Author:    toSummary(v.Author),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

type postDetailResponse struct {
	postResponse
	Comments []commentResponse `json:"comments"`
}

func toPostDetail(d *application.PostDetail) postDetailResponse {
	out := postDetailResponse{postResponse: toPost(&d.PostView), Comments: make([]commentResponse, 0, len(d.Comments))}
	for i := range d.Comments {
		out.Comments = append(out.Comments, toComment(&d.Comments[i]))
	}
	return out
}

type tokenMeta struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	TokenType        string    `json:"token_type"`
}

type authResponse struct {
	Account accountResponse `json:"account"`
	Tokens  tokenMeta       `json:"tokens"`
}

func toAuth(r *application.AuthResult) authResponse {
	return authResponse{
		Account: toAccount(r.Account),
		Tokens: tokenMeta{
			AccessToken:      r.Tokens.AccessToken,
			AccessExpiresAt:  r.Tokens.AccessTokenExpiry,
			RefreshToken:     r.Tokens.RefreshToken,
			RefreshExpiresAt: r.Tokens.RefreshTokenExpiry,
			TokenType:        "Bearer",
		},
	}
}
