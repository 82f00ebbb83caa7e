package services

import (
	"context"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/repositories"
	"github.com/myuniba/myuniba/internal/db"
)

// Services defined in this package:
// - OfferingService: available offerings, instructor classes and rosters
// - EnrollmentService: the KRS lifecycle (draft, submit, cancel, approve, reject)
// - GradeService: grade submission and KHS reports
// - ExamCardService: exam card eligibility
// - DashboardService: the student and instructor landing pages

// Transactor runs fn in a transaction carried by the context it is given.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OfferingStore is the offering persistence used by the services.
type OfferingStore interface {
	ReserveSeat(ctx context.Context, offeringID int64) error
	ReleaseSeat(ctx context.Context, offeringID int64) error
	GetByID(ctx context.Context, id int64) (*models.Offering, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Offering, error)
	ListAvailable(ctx context.Context, term models.Term, section string, offset uint64, limit int) ([]*models.Offering, int64, error)
	ListByInstructor(ctx context.Context, instructorID int64, term models.Term) ([]*models.Offering, error)
	ListByTerm(ctx context.Context, term models.Term) ([]*models.Offering, error)
	Roster(ctx context.Context, offeringID int64) ([]*models.RosterEntry, error)
}

// EnrollmentStore is the KRS persistence used by the services.
type EnrollmentStore interface {
	GetByStudentTerm(ctx context.Context, studentID int64, term models.Term, forUpdate bool) (*models.Enrollment, error)
	GetByID(ctx context.Context, id int64, forUpdate bool) (*models.Enrollment, error)
	Create(ctx context.Context, e *models.Enrollment) error
	Update(ctx context.Context, e *models.Enrollment) error
	ListLines(ctx context.Context, enrollmentID int64) ([]*models.EnrollmentLine, error)
	AddLine(ctx context.Context, line *models.EnrollmentLine) error
	RemoveLine(ctx context.Context, enrollmentID, offeringID int64) error
	SetSeatHeld(ctx context.Context, enrollmentID, offeringID int64, held bool) error
	ListPendingForInstructor(ctx context.Context, instructorID int64, term models.Term, offset uint64, limit int) ([]*models.Enrollment, int64, error)
}

// GradeStore is the grade persistence used by the services.
type GradeStore interface {
	Upsert(ctx context.Context, g *models.GradeRecord) error
	ListByStudent(ctx context.Context, studentID int64, term models.Term) ([]*models.GradeRecord, error)
}

// BillStore reads bill status.
type BillStore interface {
	HasUnpaid(ctx context.Context, studentID int64) (bool, error)
	TotalUnpaid(ctx context.Context, studentID int64) (float64, error)
}

// PeopleStore resolves student and instructor profiles.
type PeopleStore interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetInstructor(ctx context.Context, id int64) (*models.Instructor, error)
}

var (
	_ Transactor      = (*db.PostgresDB)(nil)
	_ OfferingStore   = (*repositories.OfferingRepository)(nil)
	_ EnrollmentStore = (*repositories.EnrollmentRepository)(nil)
	_ GradeStore      = (*repositories.GradeRepository)(nil)
	_ BillStore       = (*repositories.BillRepository)(nil)
	_ PeopleStore     = (*repositories.PeopleRepository)(nil)
)
