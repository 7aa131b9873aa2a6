package repository

import (
	"context"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

// PostRepository is the post half of the content store.
// Listings are ordered newest first.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context, f entity.PostFilter) ([]*entity.Post, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Post, error)
	// Update persists title, content, image, category and tags. OwnerID is ignored.
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error

	// AddLike atomically adds accountID to the post's likes. added is false
	// when the account had already liked the post.
	AddLike(ctx context.Context, postID, accountID string) (likes int, added bool, err error)
	// RemoveLike atomically removes accountID from the post's likes; absent likes are a no-op.
	RemoveLike(ctx context.Context, postID, accountID string) (likes int, err error)
}

// CommentRepository is the comment half of the content store. Create and
// Delete keep the parent post's comment references in step.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Comment, error)
	Delete(ctx context.Context, c *entity.Comment) error
}
