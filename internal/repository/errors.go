package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint-violation classification. Unique and exclusion violations
// are how the storage layer surfaces lost races on the cross-row
// invariants; callers treat them as retryable conflicts.

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func IsExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01"
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
