package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/repository"
)

const postColumns = `id::text, title, content, image_url, owner_id::text, category, tags,
	like_ids::text[], comment_ids::text[], created_at, updated_at`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row scanner) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.OwnerID, &p.Category, &p.Tags,
		&p.Likes, &p.CommentIDs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Likes, p.CommentIDs = []string{}, []string{}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, content, image_url, owner_id, category, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at, updated_at
	`, p.Title, p.Content, p.ImageURL, p.OwnerID, p.Category, p.Tags)
	return translate(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// List applies the filters conjunctively: title substring (case-insensitive),
// exact category, tag membership.
func (r *PostRepository) List(ctx context.Context, f entity.PostFilter) ([]*entity.Post, error) {
	var (
		where []string
		args  []any
	)
	if f.Keyword != "" {
		args = append(args, "%"+escapeLike(f.Keyword)+"%")
		where = append(where, fmt.Sprintf(`title ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf(`category = $%d`, len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf(`$%d = ANY(tags)`, len(args)))
	}

	q := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY created_at DESC`
	return r.query(ctx, q, args...)
}

func (r *PostRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Post, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *PostRepository) query(ctx context.Context, q string, args ...any) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET title = $1, content = $2, image_url = $3, category = $4, tags = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, p.Title, p.Content, p.ImageURL, p.Category, p.Tags, p.ID)
	return translate(row.Scan(&p.UpdatedAt))
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddLike appends accountID only when it is absent. Concurrent likers serialize
// on the row lock and the guard is re-evaluated, so no like is lost or doubled.
func (r *PostRepository) AddLike(ctx context.Context, postID, accountID string) (int, bool, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET like_ids = array_append(like_ids, $2::uuid)
		WHERE id = $1 AND NOT ($2::uuid = ANY(like_ids))
		RETURNING cardinality(like_ids)
	`, postID, accountID).Scan(&n)
	if err == nil {
		return n, true, nil
	}
	if err = translate(err); !errors.Is(err, repository.ErrNotFound) {
		return 0, false, err
	}
	// Either the post is gone or the like already exists.
	if err := r.pool.QueryRow(ctx, `SELECT cardinality(like_ids) FROM posts WHERE id = $1`, postID).Scan(&n); err != nil {
		return 0, false, translate(err)
	}
	return n, false, nil
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, accountID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET like_ids = array_remove(like_ids, $2::uuid)
		WHERE id = $1
		RETURNING cardinality(like_ids)
	`, postID, accountID).Scan(&n)
	return n, translate(err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ repository.PostRepository = (*PostRepository)(nil)
