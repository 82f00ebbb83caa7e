package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/db"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/myuniba/myuniba/internal/pkg/dberrors"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

var enrollmentColumns = []string{
	"e.id", "e.student_id", "e.term", "e.status", "e.total_credits",
	"e.rejection_note", "e.decided_by", "e.created_at", "e.updated_at",
	"s.nim", "s.full_name", "s.study_program",
}

// EnrollmentRepository handles KRS and KRS line database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	var s models.Student
	err := row.Scan(
		&e.ID, &e.StudentID, &e.Term, &e.Status, &e.TotalCredits,
		&e.RejectionNote, &e.DecidedBy, &e.CreatedAt, &e.UpdatedAt,
		&s.NIM, &s.FullName, &s.StudyProgram,
	)
	if err != nil {
		return nil, err
	}
	s.ID = e.StudentID
	e.Student = &s
	return &e, nil
}

func (r *EnrollmentRepository) getOne(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) (*models.Enrollment, error) {
	q := r.sb.Select(enrollmentColumns...).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Where(where)
	if forUpdate {
		q = q.Suffix("FOR UPDATE OF e")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get enrollment SQL")
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	e, err := scanEnrollment(db.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	if e.Lines, err = r.ListLines(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

// GetByStudentTerm retrieves a student's KRS for a term, lines included.
// forUpdate locks the row until the enclosing transaction ends.
func (r *EnrollmentRepository) GetByStudentTerm(ctx context.Context, studentID int64, term models.Term, forUpdate bool) (*models.Enrollment, error) {
	return r.getOne(ctx, squirrel.Eq{"e.student_id": studentID, "e.term": term}, forUpdate)
}

// GetByID retrieves a KRS by id, lines included.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64, forUpdate bool) (*models.Enrollment, error) {
	return r.getOne(ctx, squirrel.Eq{"e.id": id}, forUpdate)
}

// Create inserts a new KRS and fills in its id and timestamps
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("student_id", "term", "status", "total_credits").
		Values(e.StudentID, e.Term, e.Status, e.TotalCredits).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create enrollment SQL")
		return fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	err = db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_student_term_key") {
			logger.Warn().Int64("studentID", e.StudentID).Str("term", e.Term.String()).Msg("KRS already exists for term")
			return fmt.Errorf("%w: KRS for term %s", apperrors.ErrResourceAlreadyExists, e.Term)
		}
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.NewResourceNotFoundError("student not found")
		}
		logger.Error().Err(err).Int64("studentID", e.StudentID).Msg("Error executing create enrollment query")
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	logger.Info().Int64("enrollmentID", e.ID).Int64("studentID", e.StudentID).Str("term", e.Term.String()).Msg("KRS created")
	return nil
}

// Update persists the mutable KRS fields: status, credits and the approval decision
func (r *EnrollmentRepository) Update(ctx context.Context, e *models.Enrollment) error {
	now := time.Now()
	sql, args, err := r.sb.Update("enrollments").
		Set("status", e.Status).
		Set("total_credits", e.TotalCredits).
		Set("rejection_note", e.RejectionNote).
		Set("decided_by", e.DecidedBy).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update enrollment SQL")
		return fmt.Errorf("failed to build update enrollment query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", e.ID).Msg("Error executing update enrollment query")
		return fmt.Errorf("error updating enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	e.UpdatedAt = now
	return nil
}

// ListLines returns the lines of a KRS with offering, course and instructor loaded
func (r *EnrollmentRepository) ListLines(ctx context.Context, enrollmentID int64) ([]*models.EnrollmentLine, error) {
	cols := append([]string{"l.id", "l.enrollment_id", "l.seat_held"}, offeringColumns...)
	sql, args, err := r.sb.Select(cols...).
		From("enrollment_lines l").
		Join("offerings o ON o.id = l.offering_id").
		Join("courses c ON c.id = o.course_id").
		Join("instructors i ON i.id = o.instructor_id").
		Where(squirrel.Eq{"l.enrollment_id": enrollmentID}).
		OrderBy("l.id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list enrollment lines SQL")
		return nil, fmt.Errorf("failed to build list lines query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", enrollmentID).Msg("Error executing list enrollment lines query")
		return nil, fmt.Errorf("failed to query enrollment lines: %w", err)
	}
	defer rows.Close()

	lines := []*models.EnrollmentLine{}
	for rows.Next() {
		var l models.EnrollmentLine
		var o models.Offering
		var c models.Course
		var in models.Instructor
		if err := rows.Scan(
			&l.ID, &l.EnrollmentID, &l.SeatHeld,
			&o.ID, &o.CourseID, &o.InstructorID, &o.Term, &o.SectionLabel,
			&o.DayOfWeek, &o.StartsAt, &o.Room, &o.Capacity, &o.SeatsRemaining,
			&c.Code, &c.Name, &c.Credits, &c.SemesterLevel,
			&in.NIDN, &in.FullName,
		); err != nil {
			logger.Error().Err(err).Msg("Error scanning enrollment line row")
			return nil, fmt.Errorf("failed to scan enrollment line: %w", err)
		}
		c.ID = o.CourseID
		in.ID = o.InstructorID
		o.Course = &c
		o.Instructor = &in
		l.OfferingID = o.ID
		l.Offering = &o
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment lines: %w", err)
	}
	return lines, nil
}

// AddLine adds an offering to a KRS
func (r *EnrollmentRepository) AddLine(ctx context.Context, line *models.EnrollmentLine) error {
	sql, args, err := r.sb.Insert("enrollment_lines").
		Columns("enrollment_id", "offering_id", "seat_held").
		Values(line.EnrollmentID, line.OfferingID, line.SeatHeld).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add enrollment line SQL")
		return fmt.Errorf("failed to build add line query: %w", err)
	}

	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&line.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollment_lines_enrollment_offering_key") {
			return fmt.Errorf("%w: offering %d already selected", apperrors.ErrResourceAlreadyExists, line.OfferingID)
		}
		logger.Error().Err(err).Int64("enrollmentID", line.EnrollmentID).Int64("offeringID", line.OfferingID).Msg("Error executing add enrollment line query")
		return fmt.Errorf("error adding enrollment line: %w", err)
	}
	return nil
}

// RemoveLine drops an offering from a KRS
func (r *EnrollmentRepository) RemoveLine(ctx context.Context, enrollmentID, offeringID int64) error {
	sql, args, err := r.sb.Delete("enrollment_lines").
		Where(squirrel.Eq{"enrollment_id": enrollmentID, "offering_id": offeringID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove enrollment line SQL")
		return fmt.Errorf("failed to build remove line query: %w", err)
	}

	if _, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("enrollmentID", enrollmentID).Int64("offeringID", offeringID).Msg("Error executing remove enrollment line query")
		return fmt.Errorf("error removing enrollment line: %w", err)
	}
	return nil
}

// SetSeatHeld records whether a line currently holds a seat
func (r *EnrollmentRepository) SetSeatHeld(ctx context.Context, enrollmentID, offeringID int64, held bool) error {
	sql, args, err := r.sb.Update("enrollment_lines").
		Set("seat_held", held).
		Where(squirrel.Eq{"enrollment_id": enrollmentID, "offering_id": offeringID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set seat held SQL")
		return fmt.Errorf("failed to build set seat held query: %w", err)
	}

	if _, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("enrollmentID", enrollmentID).Msg("Error executing set seat held query")
		return fmt.Errorf("error updating enrollment line: %w", err)
	}
	return nil
}

// ListPendingForInstructor returns pending KRS containing at least one offering the instructor teaches.
// An empty term lists all terms.
func (r *EnrollmentRepository) ListPendingForInstructor(ctx context.Context, instructorID int64, term models.Term, offset uint64, limit int) ([]*models.Enrollment, int64, error) {
	where := squirrel.And{
		squirrel.Eq{"e.status": models.EnrollmentPending},
		squirrel.Expr(`EXISTS (SELECT 1 FROM enrollment_lines l JOIN offerings o ON o.id = l.offering_id
			WHERE l.enrollment_id = e.id AND o.instructor_id = ?)`, instructorID),
	}
	if term != "" {
		where = append(where, squirrel.Eq{"e.term": term})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("enrollments e").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count pending enrollments SQL")
		return nil, 0, fmt.Errorf("failed to build count pending query: %w", err)
	}
	var total int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count pending enrollments query")
		return nil, 0, fmt.Errorf("failed to count pending enrollments: %w", err)
	}
	if total == 0 {
		return []*models.Enrollment{}, 0, nil
	}

	sql, args, err := r.sb.Select(enrollmentColumns...).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Where(where).
		OrderBy("e.updated_at ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list pending enrollments SQL")
		return nil, 0, fmt.Errorf("failed to build list pending query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error executing list pending enrollments query")
		return nil, 0, fmt.Errorf("failed to query pending enrollments: %w", err)
	}
	enrollments := []*models.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			rows.Close()
			logger.Error().Err(err).Msg("Error scanning enrollment row")
			return nil, 0, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	// Lines are loaded after the cursor is closed; a tx connection cannot run two queries at once.
	for _, e := range enrollments {
		if e.Lines, err = r.ListLines(ctx, e.ID); err != nil {
			return nil, 0, err
		}
	}
	return enrollments, total, nil
}
