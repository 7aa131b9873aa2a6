package entity

import (
	"slices"
	"time"
)

// Post is a blog post. OwnerID never changes after creation.
// Likes and CommentIDs keep insertion order; Likes holds each account at most once.
type Post struct {
	ID         string
	Title      string
	Content    string
	ImageURL   string
	OwnerID    string
	Category   string
	Tags       []string
	Likes      []string
	CommentIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Post) LikedBy(accountID string) bool {
	return slices.Contains(p.Likes, accountID)
}

func (p *Post) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

func (p *Post) LikeCount() int { return len(p.Likes) }

// PostFilter narrows a post listing. Empty fields do not filter.
type PostFilter struct {
	Keyword  string
	Category string
	Tag      string
}
