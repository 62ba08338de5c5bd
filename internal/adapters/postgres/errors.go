package postgres

import (
	"ERecyclo/internal/core/domain"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// mapErr translates driver errors into domain errors.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", what, domain.ErrAlreadyExists)
		case foreignKeyViolation, checkViolation:
			return fmt.Errorf("%s: %w: %s", what, domain.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return err
}
