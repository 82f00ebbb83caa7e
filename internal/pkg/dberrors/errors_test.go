package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "enrollments_student_term_key"})
	check := &pgconn.PgError{Code: "23514", ConstraintName: "offerings_seats_check"}

	assert.True(t, IsDuplicateConstraintError(unique, "enrollments_student_term_key"))
	assert.True(t, IsDuplicateConstraintError(unique, ""))
	assert.False(t, IsDuplicateConstraintError(unique, "other"))
	assert.False(t, IsForeignKeyError(unique, ""))

	assert.True(t, IsCheckConstraintError(check, "offerings_seats_check"))
	assert.False(t, IsCheckConstraintError(errors.New("plain"), ""))
}
