package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/repository"
)

type AccountRepository struct {
	s *Store
}

func (r *AccountRepository) Create(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return repository.ErrDuplicateEmail
		}
		if a.GoogleID != "" && existing.GoogleID == a.GoogleID {
			return repository.ErrDuplicateIdentity
		}
	}
	if a.Role == "" {
		a.Role = entity.RoleMember
	}
	if a.Role.IsAdmin() {
		a.IsBlocked = false
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *AccountRepository) GetByGoogleID(_ context.Context, googleID string) (*entity.Account, error) {
	if googleID == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(func(a *entity.Account) bool { return a.GoogleID == googleID })
}

func (r *AccountRepository) find(match func(*entity.Account) bool) (*entity.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.accounts {
		if match(a) {
			return cloneAccount(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) List(_ context.Context) ([]*entity.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, cloneAccount(a))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *AccountRepository) Update(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.accounts[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if a.GoogleID != "" {
		for id, other := range r.s.accounts {
			if id != a.ID && other.GoogleID == a.GoogleID {
				return repository.ErrDuplicateIdentity
			}
		}
	}
	stored.Username = a.Username
	stored.AvatarURL = a.AvatarURL
	stored.GoogleID = a.GoogleID
	stored.UpdatedAt = r.s.now()
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *AccountRepository) SetBlocked(_ context.Context, id string, blocked bool) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if blocked && stored.Role.IsAdmin() {
		return nil, repository.ErrAdminImmutable
	}
	stored.IsBlocked = blocked
	stored.UpdatedAt = r.s.now()
	return cloneAccount(stored), nil
}

func (r *AccountRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
