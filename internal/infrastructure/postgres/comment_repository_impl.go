package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/repository"
)

const commentColumns = `id::text, post_id::text, author_id::text, text, created_at`

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row scanner) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// Create inserts the comment and appends its reference to the parent post in one transaction.
func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO comments (post_id, author_id, text)
			VALUES ($1, $2, $3)
			RETURNING id::text, created_at
		`, c.PostID, c.AuthorID, c.Text).Scan(&c.ID, &c.CreatedAt); err != nil {
			return translate(err)
		}
		res, err := tx.Exec(ctx, `
			UPDATE posts SET comment_ids = array_append(comment_ids, $1::uuid) WHERE id = $2
		`, c.ID, c.PostID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

// ListByIDs returns the comments that still exist, in the order of ids.
func (r *CommentRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Comment, error) {
	if len(ids) == 0 {
		return []*entity.Comment{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*entity.Comment, len(ids))
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*entity.Comment, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Delete removes the comment and every post reference to it in one transaction.
func (r *CommentRepository) Delete(ctx context.Context, c *entity.Comment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, c.ID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		_, err = tx.Exec(ctx, `
			UPDATE posts SET comment_ids = array_remove(comment_ids, $1::uuid)
			WHERE $1::uuid = ANY(comment_ids)
		`, c.ID)
		return err
	})
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
