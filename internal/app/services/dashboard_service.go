package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
)

// DashboardService defines the interface for the landing page read models
type DashboardService interface {
	StudentDashboard(ctx context.Context, studentID int64, term models.Term, day models.Weekday) (*models.StudentDashboard, error)
	InstructorDashboard(ctx context.Context, instructorID int64, term models.Term, day models.Weekday) (*models.InstructorDashboard, error)
}

type dashboardServiceImpl struct {
	enrollments EnrollmentStore
	offerings   OfferingStore
	grades      GradeStore
	bills       BillStore
	khs         GradeService
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(enrollments EnrollmentStore, offerings OfferingStore, grades GradeStore, bills BillStore, khs GradeService) DashboardService {
	return &dashboardServiceImpl{
		enrollments: enrollments,
		offerings:   offerings,
		grades:      grades,
		bills:       bills,
		khs:         khs,
	}
}

func validateDay(day models.Weekday) error {
	if !day.Valid() {
		return fmt.Errorf("%w: unknown day %q", apperrors.ErrValidationFailed, day)
	}
	return nil
}

// StudentDashboard collects the day's classes from the term's KRS, the unpaid bill
// total and the latest KHS
func (s *dashboardServiceImpl) StudentDashboard(ctx context.Context, studentID int64, term models.Term, day models.Weekday) (*models.StudentDashboard, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	if err := validateDay(day); err != nil {
		return nil, err
	}

	dash := &models.StudentDashboard{
		StudentID:    studentID,
		Term:         term,
		Day:          day,
		TodayClasses: []*models.Offering{},
	}

	e, err := s.enrollments.GetByStudentTerm(ctx, studentID, term, false)
	switch {
	case errors.Is(err, apperrors.ErrEnrollmentNotFound):
	case err != nil:
		return nil, err
	default:
		for _, l := range e.Lines {
			if l.Offering != nil && models.Weekday(l.Offering.DayOfWeek) == day {
				dash.TodayClasses = append(dash.TodayClasses, l.Offering)
			}
		}
	}

	if dash.UnpaidTotal, err = s.bills.TotalUnpaid(ctx, studentID); err != nil {
		return nil, err
	}

	graded, err := s.grades.ListByStudent(ctx, studentID, "")
	if err != nil {
		return nil, err
	}
	var latest models.Term
	for _, g := range graded {
		if g.Term <= term && g.Term > latest {
			latest = g.Term
		}
	}
	if latest != "" {
		if dash.LatestKHS, err = s.khs.GetKHS(ctx, studentID, latest); err != nil {
			return nil, err
		}
	}

	return dash, nil
}

// InstructorDashboard collects the instructor's classes on day and the number of
// pending KRS waiting on them
func (s *dashboardServiceImpl) InstructorDashboard(ctx context.Context, instructorID int64, term models.Term, day models.Weekday) (*models.InstructorDashboard, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	if err := validateDay(day); err != nil {
		return nil, err
	}

	classes, err := s.offerings.ListByInstructor(ctx, instructorID, term)
	if err != nil {
		return nil, err
	}
	dash := &models.InstructorDashboard{
		InstructorID: instructorID,
		Term:         term,
		Day:          day,
		TodayClasses: []*models.Offering{},
	}
	for _, o := range classes {
		if models.Weekday(o.DayOfWeek) == day {
			dash.TodayClasses = append(dash.TodayClasses, o)
		}
	}

	if _, dash.PendingKRSCount, err = s.enrollments.ListPendingForInstructor(ctx, instructorID, term, 0, 1); err != nil {
		return nil, err
	}

	return dash, nil
}
