package controllers

import (
	"context"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/services"
)

type stubOfferingService struct {
	listAvailable    func(term models.Term, section string, page, size int) ([]*models.Offering, int64, error)
	listByInstructor func(instructorID int64, term models.Term) ([]*models.Offering, error)
	roster           func(offeringID, instructorID int64) ([]*models.RosterEntry, error)
}

func (s *stubOfferingService) ListAvailable(_ context.Context, term models.Term, section string, page, size int) ([]*models.Offering, int64, error) {
	return s.listAvailable(term, section, page, size)
}

func (s *stubOfferingService) ListByInstructor(_ context.Context, instructorID int64, term models.Term) ([]*models.Offering, error) {
	return s.listByInstructor(instructorID, term)
}

func (s *stubOfferingService) Roster(_ context.Context, offeringID, instructorID int64) ([]*models.RosterEntry, error) {
	return s.roster(offeringID, instructorID)
}

func (s *stubOfferingService) SeatReport(context.Context, models.Term) ([]*models.Offering, error) {
	return nil, nil
}

// stubEnrollmentService records the last call and answers with result/err.
type stubEnrollmentService struct {
	calls       []string
	studentID   int64
	term        models.Term
	offeringIDs []int64
	note        string
	result      *models.Enrollment
	pending     []*models.Enrollment
	err         error
}

func (s *stubEnrollmentService) record(name string, studentID int64, term models.Term) (*models.Enrollment, error) {
	s.calls = append(s.calls, name)
	s.studentID, s.term = studentID, term
	return s.result, s.err
}

func (s *stubEnrollmentService) Get(_ context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	return s.record("Get", studentID, term)
}

func (s *stubEnrollmentService) SaveDraft(_ context.Context, studentID int64, term models.Term, ids []int64) (*models.Enrollment, error) {
	s.offeringIDs = ids
	return s.record("SaveDraft", studentID, term)
}

func (s *stubEnrollmentService) Submit(_ context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	return s.record("Submit", studentID, term)
}

func (s *stubEnrollmentService) SubmitSelection(_ context.Context, studentID int64, term models.Term, ids []int64) (*models.Enrollment, error) {
	s.offeringIDs = ids
	return s.record("SubmitSelection", studentID, term)
}

func (s *stubEnrollmentService) Cancel(_ context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	return s.record("Cancel", studentID, term)
}

func (s *stubEnrollmentService) Reopen(_ context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	return s.record("Reopen", studentID, term)
}

func (s *stubEnrollmentService) Approve(_ context.Context, enrollmentID, instructorID int64) (*models.Enrollment, error) {
	return s.record("Approve", instructorID, "")
}

func (s *stubEnrollmentService) Reject(_ context.Context, enrollmentID, instructorID int64, note string) (*models.Enrollment, error) {
	s.note = note
	return s.record("Reject", instructorID, "")
}

func (s *stubEnrollmentService) ListPendingForInstructor(_ context.Context, instructorID int64, term models.Term, page, size int) ([]*models.Enrollment, int64, error) {
	s.calls = append(s.calls, "ListPendingForInstructor")
	s.studentID, s.term = instructorID, term
	return s.pending, int64(len(s.pending)), s.err
}

type stubGradeService struct {
	entries []services.GradeEntry
	results []services.GradeEntryResult
	khs     *models.KHS
	err     error
}

func (s *stubGradeService) SubmitGrades(_ context.Context, _, _ int64, entries []services.GradeEntry) ([]services.GradeEntryResult, error) {
	s.entries = entries
	return s.results, s.err
}

func (s *stubGradeService) GetKHS(context.Context, int64, models.Term) (*models.KHS, error) {
	return s.khs, s.err
}

type stubExamCardService struct {
	card *models.ExamCard
	err  error
}

func (s *stubExamCardService) Get(context.Context, int64, models.Term) (*models.ExamCard, error) {
	return s.card, s.err
}

// stubDashboardService records the arguments of the last call.
type stubDashboardService struct {
	userID     int64
	term       models.Term
	day        models.Weekday
	student    *models.StudentDashboard
	instructor *models.InstructorDashboard
	err        error
}

func (s *stubDashboardService) StudentDashboard(_ context.Context, studentID int64, term models.Term, day models.Weekday) (*models.StudentDashboard, error) {
	s.userID, s.term, s.day = studentID, term, day
	return s.student, s.err
}

func (s *stubDashboardService) InstructorDashboard(_ context.Context, instructorID int64, term models.Term, day models.Weekday) (*models.InstructorDashboard, error) {
	s.userID, s.term, s.day = instructorID, term, day
	return s.instructor, s.err
}
