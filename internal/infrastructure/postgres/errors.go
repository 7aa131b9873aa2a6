package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/blogx-api/internal/domain/repository"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == "accounts_email_key":
			return repository.ErrDuplicateEmail
		case pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == "accounts_google_id_key":
			return repository.ErrDuplicateIdentity
		case pgErr.Code == codeCheckViolation && pgErr.ConstraintName == "accounts_admin_never_blocked":
			return repository.ErrAdminImmutable
		}
	}
	return err
}

// nullIfEmpty stores empty strings as NULL so partial unique indexes ignore them.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}
