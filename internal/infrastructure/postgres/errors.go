package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/taskboard/internal/domain/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeInvalidTextRepr     = "22P02"
	constraintUsersEmailKey = "users_email_lower_key"
)

// translate maps driver errors onto the repository sentinels, keeping the
// original error in the chain.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if pgErr.ConstraintName == constraintUsersEmailKey {
				return fmt.Errorf("%s: %w", op, errors.Join(repository.ErrDuplicateEmail, err))
			}
		case codeInvalidTextRepr:
			return fmt.Errorf("%s: %w", op, errors.Join(repository.ErrInvalidID, err))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
