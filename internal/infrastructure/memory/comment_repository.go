package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/repository"
)

type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Create(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[c.PostID]
	if !ok {
		return repository.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.now()
	r.s.comments[c.ID] = cloneComment(c)
	p.CommentIDs = append(p.CommentIDs, c.ID)
	return nil
}

func (r *CommentRepository) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) ListByIDs(_ context.Context, ids []string) ([]*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.s.comments[id]; ok {
			out = append(out, cloneComment(c))
		}
	}
	return out, nil
}

func (r *CommentRepository) Delete(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[c.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, c.ID)
	for _, p := range r.s.posts {
		p.CommentIDs = slices.DeleteFunc(p.CommentIDs, func(v string) bool { return v == c.ID })
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
