package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate reports a unique-constraint violation. Repositories map
// PostgreSQL error 23505 to this sentinel so callers never handle raw
// driver errors.
var ErrDuplicate = errors.New("duplicate row")

// uniqueViolation converts a 23505 into ErrDuplicate, passing other errors
// through unchanged.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
