package repository

import (
	"errors"
	"strings"

	"quizforge/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapDBError classifies a store error: class 23 (integrity constraint
// violations: unique, not-null, foreign key) becomes a client-visible
// conflict, everything else a repository failure.
func mapDBError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return domain.NewConstraintViolationError(op, err)
	}
	return domain.NewRepositoryFailureError(op, err)
}
