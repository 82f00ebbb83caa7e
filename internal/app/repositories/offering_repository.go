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
	"github.com/myuniba/myuniba/internal/pkg/dberrors"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

// offeringColumns is the select list shared by every offering query; scanOffering reads it.
var offeringColumns = []string{
	"o.id", "o.course_id", "o.instructor_id", "o.term", "o.section_label",
	"o.day_of_week", "o.starts_at", "o.room", "o.capacity", "o.seats_remaining",
	"c.code", "c.name", "c.credits", "c.semester_level",
	"i.nidn", "i.full_name",
}

// OfferingRepository handles course offering database operations
type OfferingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewOfferingRepository creates a new OfferingRepository
func NewOfferingRepository(db *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *OfferingRepository) selectOfferings() squirrel.SelectBuilder {
	return r.sb.Select(offeringColumns...).
		From("offerings o").
		Join("courses c ON c.id = o.course_id").
		Join("instructors i ON i.id = o.instructor_id")
}

func scanOffering(row pgx.Row) (*models.Offering, error) {
	var o models.Offering
	var c models.Course
	var in models.Instructor
	err := row.Scan(
		&o.ID, &o.CourseID, &o.InstructorID, &o.Term, &o.SectionLabel,
		&o.DayOfWeek, &o.StartsAt, &o.Room, &o.Capacity, &o.SeatsRemaining,
		&c.Code, &c.Name, &c.Credits, &c.SemesterLevel,
		&in.NIDN, &in.FullName,
	)
	if err != nil {
		return nil, err
	}
	c.ID = o.CourseID
	in.ID = o.InstructorID
	o.Course = &c
	o.Instructor = &in
	return &o, nil
}

// reserveSeatQuery decrements the remaining seats only while one is left, so the
// capacity check and the decrement happen in a single statement.
func (r *OfferingRepository) reserveSeatQuery(offeringID int64) (string, []interface{}, error) {
	return r.sb.Update("offerings").
		Set("seats_remaining", squirrel.Expr("seats_remaining - 1")).
		Where(squirrel.Eq{"id": offeringID}).
		Where(squirrel.Gt{"seats_remaining": 0}).
		ToSql()
}

// releaseSeatQuery gives one seat back without ever exceeding capacity.
func (r *OfferingRepository) releaseSeatQuery(offeringID int64) (string, []interface{}, error) {
	return r.sb.Update("offerings").
		Set("seats_remaining", squirrel.Expr("LEAST(seats_remaining + 1, capacity)")).
		Where(squirrel.Eq{"id": offeringID}).
		ToSql()
}

// ReserveSeat takes one seat of the offering.
// Returns ErrOfferingNotFound for an unknown offering and ErrCapacityExceeded when it is full.
func (r *OfferingRepository) ReserveSeat(ctx context.Context, offeringID int64) error {
	sql, args, err := r.reserveSeatQuery(offeringID)
	if err != nil {
		logger.Error().Err(err).Msg("Error building reserve seat SQL")
		return fmt.Errorf("failed to build reserve seat query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckConstraintError(err, "offerings_seats_check") {
			return apperrors.ErrCapacityExceeded
		}
		logger.Error().Err(err).Int64("offeringID", offeringID).Msg("Error executing reserve seat query")
		return fmt.Errorf("error reserving seat: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	exists, err := r.exists(ctx, offeringID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrOfferingNotFound
	}
	logger.Debug().Int64("offeringID", offeringID).Msg("Offering is full")
	return apperrors.ErrCapacityExceeded
}

// ReleaseSeat gives one seat of the offering back, capped at capacity.
func (r *OfferingRepository) ReleaseSeat(ctx context.Context, offeringID int64) error {
	sql, args, err := r.releaseSeatQuery(offeringID)
	if err != nil {
		logger.Error().Err(err).Msg("Error building release seat SQL")
		return fmt.Errorf("failed to build release seat query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("offeringID", offeringID).Msg("Error executing release seat query")
		return fmt.Errorf("error releasing seat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrOfferingNotFound
	}
	return nil
}

func (r *OfferingRepository) exists(ctx context.Context, offeringID int64) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM offerings WHERE id = $1)`, offeringID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking offering existence: %w", err)
	}
	return exists, nil
}

// GetByID retrieves an offering with its course and instructor
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*models.Offering, error) {
	sql, args, err := r.selectOfferings().Where(squirrel.Eq{"o.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get offering SQL")
		return nil, fmt.Errorf("failed to build get offering query: %w", err)
	}

	offering, err := scanOffering(db.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfferingNotFound
		}
		logger.Error().Err(err).Int64("offeringID", id).Msg("Error scanning offering row")
		return nil, fmt.Errorf("error retrieving offering: %w", err)
	}
	return offering, nil
}

// GetByIDs retrieves the offerings with the given ids; unknown ids are simply absent from the result.
func (r *OfferingRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Offering, error) {
	if len(ids) == 0 {
		return []*models.Offering{}, nil
	}
	return r.list(ctx, r.selectOfferings().Where(squirrel.Eq{"o.id": ids}).OrderBy("o.id"))
}

// ListAvailable returns the term's offerings that still have seats, optionally for one section.
func (r *OfferingRepository) ListAvailable(ctx context.Context, term models.Term, section string, offset uint64, limit int) ([]*models.Offering, int64, error) {
	where := squirrel.And{
		squirrel.Eq{"o.term": term},
		squirrel.Gt{"o.seats_remaining": 0},
	}
	if section != "" {
		where = append(where, squirrel.Eq{"o.section_label": section})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("offerings o").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count available offerings SQL")
		return nil, 0, fmt.Errorf("failed to build count offerings query: %w", err)
	}
	var total int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count available offerings query")
		return nil, 0, fmt.Errorf("failed to count offerings: %w", err)
	}
	if total == 0 {
		return []*models.Offering{}, 0, nil
	}

	offerings, err := r.list(ctx, r.selectOfferings().
		Where(where).
		OrderBy("c.semester_level", "c.code", "o.section_label").
		Limit(uint64(limit)).
		Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return offerings, total, nil
}

// ListByInstructor returns the offerings an instructor teaches, optionally restricted to a term.
func (r *OfferingRepository) ListByInstructor(ctx context.Context, instructorID int64, term models.Term) ([]*models.Offering, error) {
	q := r.selectOfferings().Where(squirrel.Eq{"o.instructor_id": instructorID})
	if term != "" {
		q = q.Where(squirrel.Eq{"o.term": term})
	}
	return r.list(ctx, q.OrderBy("o.term DESC", "c.code", "o.section_label"))
}

// ListByTerm returns every offering of a term, full ones included.
func (r *OfferingRepository) ListByTerm(ctx context.Context, term models.Term) ([]*models.Offering, error) {
	return r.list(ctx, r.selectOfferings().
		Where(squirrel.Eq{"o.term": term}).
		OrderBy("c.code", "o.section_label"))
}

func (r *OfferingRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Offering, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list offerings SQL")
		return nil, fmt.Errorf("failed to build list offerings query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list offerings query")
		return nil, fmt.Errorf("failed to query offerings: %w", err)
	}
	defer rows.Close()

	offerings := []*models.Offering{}
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning offering row")
			return nil, fmt.Errorf("failed to scan offering row: %w", err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offering rows: %w", err)
	}
	return offerings, nil
}

// Roster lists the students whose KRS contains the offering, with any grade already recorded.
func (r *OfferingRepository) Roster(ctx context.Context, offeringID int64) ([]*models.RosterEntry, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.nim", "s.full_name", "s.study_program", "e.status",
		"g.letter_grade", "g.numeric_grade",
	).
		From("enrollment_lines l").
		Join("enrollments e ON e.id = l.enrollment_id").
		Join("students s ON s.id = e.student_id").
		Join("offerings o ON o.id = l.offering_id").
		LeftJoin("grade_records g ON g.student_id = s.id AND g.term = o.term AND g.course_id = o.course_id").
		Where(squirrel.Eq{"l.offering_id": offeringID}).
		OrderBy("s.nim").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building roster SQL")
		return nil, fmt.Errorf("failed to build roster query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("offeringID", offeringID).Msg("Error executing roster query")
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	entries := []*models.RosterEntry{}
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(
			&e.Student.ID, &e.Student.NIM, &e.Student.FullName, &e.Student.StudyProgram,
			&e.KRSStatus, &e.LetterGrade, &e.NumericGrade,
		); err != nil {
			logger.Error().Err(err).Msg("Error scanning roster row")
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster rows: %w", err)
	}
	return entries, nil
}
