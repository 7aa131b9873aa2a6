package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateIdentity = errors.New("federated identity already linked")
	ErrAdminImmutable    = errors.New("admin account cannot be blocked")
)
