package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/db"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

// PeopleRepository resolves student and instructor profiles
type PeopleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPeopleRepository creates a new PeopleRepository
func NewPeopleRepository(db *pgxpool.Pool) *PeopleRepository {
	return &PeopleRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetStudent retrieves a student profile by id
func (r *PeopleRepository) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "nim", "full_name", "study_program").
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var s models.Student
	err = db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&s.ID, &s.NIM, &s.FullName, &s.StudyProgram)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("studentID", id).Msg("Student not found")
			return nil, apperrors.NewResourceNotFoundError("student not found")
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &s, nil
}

// GetInstructor retrieves an instructor profile by id
func (r *PeopleRepository) GetInstructor(ctx context.Context, id int64) (*models.Instructor, error) {
	sql, args, err := r.sb.Select("id", "nidn", "full_name").
		From("instructors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get instructor SQL")
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	var in models.Instructor
	err = db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&in.ID, &in.NIDN, &in.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("instructorID", id).Msg("Instructor not found")
			return nil, apperrors.NewResourceNotFoundError("instructor not found")
		}
		logger.Error().Err(err).Int64("instructorID", id).Msg("Error scanning instructor row")
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}
	return &in, nil
}
