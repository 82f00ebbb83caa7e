package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/db"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

// GradeRepository handles KHS grade record database operations
type GradeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *GradeRepository) upsertQuery(g *models.GradeRecord) (string, []interface{}, error) {
	return r.sb.Insert("grade_records").
		Columns("student_id", "term", "course_id", "offering_id", "letter_grade", "numeric_grade", "graded_by", "updated_at").
		Values(g.StudentID, g.Term, g.CourseID, g.OfferingID, g.LetterGrade, g.NumericGrade, g.GradedBy, squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT ON CONSTRAINT grade_records_student_term_course_key DO UPDATE SET
			offering_id = EXCLUDED.offering_id,
			letter_grade = EXCLUDED.letter_grade,
			numeric_grade = EXCLUDED.numeric_grade,
			graded_by = EXCLUDED.graded_by,
			updated_at = EXCLUDED.updated_at
		RETURNING id, updated_at`).
		ToSql()
}

// Upsert creates or replaces the grade for (student, term, course)
func (r *GradeRepository) Upsert(ctx context.Context, g *models.GradeRecord) error {
	sql, args, err := r.upsertQuery(g)
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert grade SQL")
		return fmt.Errorf("failed to build upsert grade query: %w", err)
	}

	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&g.ID, &g.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("studentID", g.StudentID).Int64("courseID", g.CourseID).Msg("Error executing upsert grade query")
		return fmt.Errorf("error saving grade: %w", err)
	}
	return nil
}

// ListByStudent returns a student's grade records with course info.
// An empty term lists every term.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int64, term models.Term) ([]*models.GradeRecord, error) {
	q := r.sb.Select(
		"g.id", "g.student_id", "g.term", "g.course_id", "g.offering_id",
		"g.letter_grade", "g.numeric_grade", "g.graded_by", "g.updated_at",
		"c.code", "c.name", "c.credits", "c.semester_level",
	).
		From("grade_records g").
		Join("courses c ON c.id = g.course_id").
		Where(squirrel.Eq{"g.student_id": studentID})
	if term != "" {
		q = q.Where(squirrel.Eq{"g.term": term})
	}
	sql, args, err := q.OrderBy("g.term", "c.code").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list grades SQL")
		return nil, fmt.Errorf("failed to build list grades query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list grades query")
		return nil, fmt.Errorf("failed to query grades: %w", err)
	}
	defer rows.Close()

	grades := []*models.GradeRecord{}
	for rows.Next() {
		var g models.GradeRecord
		var c models.Course
		if err := rows.Scan(
			&g.ID, &g.StudentID, &g.Term, &g.CourseID, &g.OfferingID,
			&g.LetterGrade, &g.NumericGrade, &g.GradedBy, &g.UpdatedAt,
			&c.Code, &c.Name, &c.Credits, &c.SemesterLevel,
		); err != nil {
			logger.Error().Err(err).Msg("Error scanning grade row")
			return nil, fmt.Errorf("failed to scan grade row: %w", err)
		}
		c.ID = g.CourseID
		g.Course = &c
		grades = append(grades, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grade rows: %w", err)
	}
	return grades, nil
}
