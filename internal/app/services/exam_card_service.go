package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
)

// ExamCardService defines the interface for exam card operations
type ExamCardService interface {
	Get(ctx context.Context, studentID int64, term models.Term) (*models.ExamCard, error)
}

type examCardServiceImpl struct {
	people      PeopleStore
	enrollments EnrollmentStore
	bills       BillStore
}

// NewExamCardService creates a new exam card service instance
func NewExamCardService(people PeopleStore, enrollments EnrollmentStore, bills BillStore) ExamCardService {
	return &examCardServiceImpl{
		people:      people,
		enrollments: enrollments,
		bills:       bills,
	}
}

// Get issues the exam card when the term's KRS is approved and no bill is unpaid
func (s *examCardServiceImpl) Get(ctx context.Context, studentID int64, term models.Term) (*models.ExamCard, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}

	student, err := s.people.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	e, err := s.enrollments.GetByStudentTerm(ctx, studentID, term, false)
	if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("%w: no KRS for term %s", apperrors.ErrExamCardUnavailable, term)
	}
	if err != nil {
		return nil, err
	}
	if e.Status != models.EnrollmentApproved {
		return nil, fmt.Errorf("%w: KRS is %s", apperrors.ErrExamCardUnavailable, e.Status)
	}

	unpaid, err := s.bills.HasUnpaid(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if unpaid {
		return nil, fmt.Errorf("%w: unpaid bills outstanding", apperrors.ErrExamCardUnavailable)
	}

	return &models.ExamCard{Student: *student, Term: term, Enrollment: e}, nil
}
