package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/repository"
)

type PostRepository struct {
	s *Store
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	p.Likes, p.CommentIDs = []string{}, []string{}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	r.s.posts[p.ID] = clonePost(p)
	r.s.postOrder = append(r.s.postOrder, p.ID)
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) List(_ context.Context, f entity.PostFilter) ([]*entity.Post, error) {
	keyword := strings.ToLower(f.Keyword)
	return r.collect(func(p *entity.Post) bool {
		if keyword != "" && !strings.Contains(strings.ToLower(p.Title), keyword) {
			return false
		}
		if f.Category != "" && p.Category != f.Category {
			return false
		}
		if f.Tag != "" && !p.HasTag(f.Tag) {
			return false
		}
		return true
	}), nil
}

func (r *PostRepository) ListByOwner(_ context.Context, ownerID string) ([]*entity.Post, error) {
	return r.collect(func(p *entity.Post) bool { return p.OwnerID == ownerID }), nil
}

// collect walks posts newest first.
func (r *PostRepository) collect(keep func(*entity.Post) bool) []*entity.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Post, 0)
	for i := len(r.s.postOrder) - 1; i >= 0; i-- {
		p, ok := r.s.posts[r.s.postOrder[i]]
		if ok && keep(p) {
			out = append(out, clonePost(p))
		}
	}
	return out
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.ImageURL = p.ImageURL
	stored.Category = p.Category
	stored.Tags = slices.Clone(p.Tags)
	stored.UpdatedAt = r.s.now()
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.posts, id)
	r.s.postOrder = slices.DeleteFunc(r.s.postOrder, func(v string) bool { return v == id })
	return nil
}

func (r *PostRepository) AddLike(_ context.Context, postID, accountID string) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return 0, false, repository.ErrNotFound
	}
	if slices.Contains(p.Likes, accountID) {
		return len(p.Likes), false, nil
	}
	p.Likes = append(p.Likes, accountID)
	return len(p.Likes), true, nil
}

func (r *PostRepository) RemoveLike(_ context.Context, postID, accountID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	p.Likes = slices.DeleteFunc(p.Likes, func(v string) bool { return v == accountID })
	return len(p.Likes), nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
