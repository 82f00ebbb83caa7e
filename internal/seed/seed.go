package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/rs/zerolog"
)

// TokenIssuer signs development access tokens
type TokenIssuer interface {
	GenerateToken(userID int64, role models.RoleType, ttl time.Duration) (string, error)
}

type studentSeed struct{ nim, name, program string }
type instructorSeed struct{ nidn, name string }
type courseSeed struct {
	code, name     string
	credits, level int
}
type offeringSeed struct {
	courseCode, instructorNIDN, section, day, startsAt, room string
	capacity                                                 int
}

var (
	seedTerm = models.Term("20251")

	students = []studentSeed{
		{"2201010001", "Siti Rahma", "Informatika"},
		{"2201010002", "Andi Pratama", "Informatika"},
		{"2201010003", "Dewi Lestari", "Sistem Informasi"},
	}
	instructors = []instructorSeed{
		{"0011017801", "Dr. Budi Santoso"},
		{"0022028502", "Dr. Rina Wulandari"},
	}
	courses = []courseSeed{
		{"IF101", "Algoritma dan Pemrograman", 3, 1},
		{"IF102", "Basis Data", 3, 3},
		{"IF103", "Matematika Diskrit", 2, 1},
		{"IF104", "Jaringan Komputer", 3, 5},
	}
	offerings = []offeringSeed{
		{"IF101", "0011017801", "A", "Senin", "08:00", "R.301", 40},
		{"IF101", "0011017801", "B", "Selasa", "10:00", "R.302", 40},
		{"IF102", "0022028502", "A", "Rabu", "13:00", "Lab-1", 30},
		{"IF103", "0022028502", "A", "Kamis", "08:00", "R.205", 35},
		{"IF104", "0011017801", "A", "Jumat", "09:00", "Lab-2", 2},
	}
)

// CreateDefaultData inserts development students, instructors, courses, offerings and a bill
// when they are missing, then logs access tokens for the first student and instructor.
func CreateDefaultData(ctx context.Context, pool *pgxpool.Pool, tokens TokenIssuer, lgr zerolog.Logger) error {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	lgr.Info().Msg("Checking/Creating default academic data...")
	var finalErr error

	studentIDs := map[string]int64{}
	for _, s := range students {
		id, err := ensure(ctx, pool,
			sb.Insert("students").Columns("nim", "full_name", "study_program").Values(s.nim, s.name, s.program).Suffix("ON CONFLICT (nim) DO NOTHING"),
			sb.Select("id").From("students").Where(squirrel.Eq{"nim": s.nim}))
		if err != nil {
			lgr.Error().Err(err).Str("nim", s.nim).Msg("Error creating student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		studentIDs[s.nim] = id
	}

	instructorIDs := map[string]int64{}
	for _, i := range instructors {
		id, err := ensure(ctx, pool,
			sb.Insert("instructors").Columns("nidn", "full_name").Values(i.nidn, i.name).Suffix("ON CONFLICT (nidn) DO NOTHING"),
			sb.Select("id").From("instructors").Where(squirrel.Eq{"nidn": i.nidn}))
		if err != nil {
			lgr.Error().Err(err).Str("nidn", i.nidn).Msg("Error creating instructor")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		instructorIDs[i.nidn] = id
	}

	courseIDs := map[string]int64{}
	for _, c := range courses {
		id, err := ensure(ctx, pool,
			sb.Insert("courses").Columns("code", "name", "credits", "semester_level").Values(c.code, c.name, c.credits, c.level).Suffix("ON CONFLICT (code) DO NOTHING"),
			sb.Select("id").From("courses").Where(squirrel.Eq{"code": c.code}))
		if err != nil {
			lgr.Error().Err(err).Str("code", c.code).Msg("Error creating course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		courseIDs[c.code] = id
	}

	for _, o := range offerings {
		courseID, instructorID := courseIDs[o.courseCode], instructorIDs[o.instructorNIDN]
		if courseID == 0 || instructorID == 0 {
			continue
		}
		_, err := ensure(ctx, pool,
			sb.Insert("offerings").
				Columns("course_id", "instructor_id", "term", "section_label", "day_of_week", "starts_at", "room", "capacity", "seats_remaining").
				Values(courseID, instructorID, seedTerm, o.section, o.day, o.startsAt, o.room, o.capacity, o.capacity).
				Suffix("ON CONFLICT ON CONSTRAINT offerings_course_term_section_key DO NOTHING"),
			sb.Select("id").From("offerings").Where(squirrel.Eq{"course_id": courseID, "term": seedTerm, "section_label": o.section}))
		if err != nil {
			lgr.Error().Err(err).Str("course", o.courseCode).Str("section", o.section).Msg("Error creating offering")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if studentID := studentIDs["2201010002"]; studentID > 0 {
		bill := models.Bill{StudentID: studentID, Term: seedTerm, Kind: "ukt", Amount: 4500000, Status: models.BillUnpaid}
		if err := ensureBill(ctx, pool, sb, bill); err != nil {
			lgr.Error().Err(err).Msg("Error creating bill")
			finalErr = errors.Join(finalErr, err)
		}
	}

	logDevToken(lgr, tokens, studentIDs[students[0].nim], models.RoleStudent, students[0].name)
	logDevToken(lgr, tokens, instructorIDs[instructors[0].nidn], models.RoleInstructor, instructors[0].name)

	if finalErr == nil {
		lgr.Info().Msg("Default academic data is in place.")
	}
	return finalErr
}

// ensure runs an idempotent insert and returns the id of the matching row.
func ensure(ctx context.Context, pool *pgxpool.Pool, insert squirrel.InsertBuilder, lookup squirrel.SelectBuilder) (int64, error) {
	sql, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	if _, err := pool.Exec(ctx, sql, args...); err != nil {
		return 0, err
	}

	sql, args, err = lookup.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build lookup: %w", err)
	}
	var id int64
	if err := pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureBill(ctx context.Context, pool *pgxpool.Pool, sb squirrel.StatementBuilderType, bill models.Bill) error {
	sql, args, err := sb.Select("COUNT(*)").From("bills").
		Where(squirrel.Eq{"student_id": bill.StudentID, "term": bill.Term, "kind": bill.Kind}).ToSql()
	if err != nil {
		return err
	}
	var n int
	if err := pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	sql, args, err = sb.Insert("bills").
		Columns("student_id", "term", "kind", "amount", "due_at", "status").
		Values(bill.StudentID, bill.Term, bill.Kind, bill.Amount, time.Now().AddDate(0, 1, 0), bill.Status).
		ToSql()
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, sql, args...)
	return err
}

func logDevToken(lgr zerolog.Logger, tokens TokenIssuer, id int64, role models.RoleType, name string) {
	if id == 0 || tokens == nil {
		return
	}
	token, err := tokens.GenerateToken(id, role, 24*time.Hour)
	if err != nil {
		lgr.Error().Err(err).Str("role", string(role)).Msg("Failed to sign development token")
		return
	}
	lgr.Info().Int64("userId", id).Str("role", string(role)).Str("name", name).Str("token", token).Msg("Development access token")
}
