package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/repository"
)

const accountColumns = `id::text, username, email, COALESCE(password_hash, ''), role, is_blocked,
	COALESCE(google_id, ''), avatar_url, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row scanner) (*entity.Account, error) {
	a := &entity.Account{}
	var role string
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.IsBlocked,
		&a.GoogleID, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	a.Role = entity.Role(role)
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if a.Role == "" {
		a.Role = entity.RoleMember
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (username, email, password_hash, role, google_id, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at, updated_at
	`, a.Username, a.Email, nullIfEmpty(a.PasswordHash), string(a.Role), nullIfEmpty(a.GoogleID), a.AvatarURL)

	return translate(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email))
}

func (r *AccountRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE google_id = $1`, googleID))
}

func (r *AccountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET username = $1, avatar_url = $2, google_id = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, a.Username, a.AvatarURL, nullIfEmpty(a.GoogleID), a.ID)
	return translate(row.Scan(&a.UpdatedAt))
}

func (r *AccountRepository) SetBlocked(ctx context.Context, id string, blocked bool) (*entity.Account, error) {
	// The role guard makes the check and the write a single statement.
	a, err := scanAccount(r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET is_blocked = $2, updated_at = now()
		WHERE id = $1 AND (NOT $2 OR role <> 'admin')
		RETURNING `+accountColumns, id, blocked))
	if errors.Is(err, repository.ErrNotFound) {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, repository.ErrAdminImmutable
	}
	return a, err
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
