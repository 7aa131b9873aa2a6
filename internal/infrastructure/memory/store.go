// Package memory is an in-process implementation of the credential and content
// stores. A single mutex guards all three collections so that operations
// spanning posts and comments stay atomic.
package memory

import (
	"slices"
	"sync"
	"time"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

type Store struct {
	mu sync.RWMutex

	accounts map[string]*entity.Account
	posts    map[string]*entity.Post
	comments map[string]*entity.Comment
	// postOrder holds post ids in creation order.
	postOrder []string

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*entity.Account),
		posts:    make(map[string]*entity.Post),
		comments: make(map[string]*entity.Comment),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }
func (s *Store) Posts() *PostRepository       { return &PostRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }

func cloneAccount(a *entity.Account) *entity.Account {
	cp := *a
	return &cp
}

func clonePost(p *entity.Post) *entity.Post {
	cp := *p
	cp.Tags = slices.Clone(p.Tags)
	cp.Likes = slices.Clone(p.Likes)
	cp.CommentIDs = slices.Clone(p.CommentIDs)
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	if cp.Likes == nil {
		cp.Likes = []string{}
	}
	if cp.CommentIDs == nil {
		cp.CommentIDs = []string{}
	}
	return &cp
}

func cloneComment(c *entity.Comment) *entity.Comment {
	cp := *c
	return &cp
}
