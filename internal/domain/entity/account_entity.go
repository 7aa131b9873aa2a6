package entity

import (
	"time"
)

// Account is the aggregate root for the credential store.
// PasswordHash is empty for accounts that only sign in through a federated identity.
// Invariant: an admin account is never blocked.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsBlocked    bool
	GoogleID     string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with a local password.
func (a *Account) HasPassword() bool { return a.PasswordHash != "" }

// Principal returns the request principal for this account.
func (a *Account) Principal() Principal {
	return Principal{ID: a.ID, Role: a.Role, Blocked: a.IsBlocked}
}

// Principal is the authenticated account context attached to a request.
// The zero value is the anonymous principal.
type Principal struct {
	ID      string
	Role    Role
	Blocked bool
}

func (p Principal) Anonymous() bool { return p.ID == "" }

func (p Principal) IsAdmin() bool { return p.Role.IsAdmin() }
