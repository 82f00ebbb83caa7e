package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes used by the repositories.
const (
	codeUniqueViolation = "23505"
	codeFKViolation     = "23503"
	codeCheckViolation  = "23514"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint. An empty constraintName matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return isPgError(err, codeUniqueViolation, constraintName)
}

// IsForeignKeyError reports a foreign key violation, optionally for a named constraint.
func IsForeignKeyError(err error, constraintName string) bool {
	return isPgError(err, codeFKViolation, constraintName)
}

// IsCheckConstraintError reports a CHECK constraint violation, optionally for a named constraint.
func IsCheckConstraintError(err error, constraintName string) bool {
	return isPgError(err, codeCheckViolation, constraintName)
}

func isPgError(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}
