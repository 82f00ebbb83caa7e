package migrations

import (
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	goose.SetBaseFS(migrationFS)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(migrationDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, int64(2), migrations[1].Version)
}

func TestCoreMigrationDeclaresSeatConstraint(t *testing.T) {
	body, err := fs.ReadFile(migrationFS, "sql/00001_academic_core.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "offerings_seats_check")
	assert.Contains(t, string(body), "enrollments_student_term_key")
	assert.Contains(t, string(body), "grade_records_student_term_course_key")
}
