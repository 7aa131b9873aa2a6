package repository

import (
	"context"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

// AccountRepository is the credential store.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.Account, error)
	List(ctx context.Context) ([]*entity.Account, error)
	// Update persists username, avatar and google id. Role and block status
	// are only changed through SetBlocked.
	Update(ctx context.Context, a *entity.Account) error
	// SetBlocked must refuse admin accounts with ErrAdminImmutable.
	SetBlocked(ctx context.Context, id string, blocked bool) (*entity.Account, error)
	Delete(ctx context.Context, id string) error
}
