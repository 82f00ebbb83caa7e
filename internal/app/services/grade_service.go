package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/myuniba/myuniba/internal/app/auth"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

// GradeOutcome tells what happened to one submitted grade entry
type GradeOutcome string

const (
	GradeWritten GradeOutcome = "written"
	GradeSkipped GradeOutcome = "skipped"
)

// GradeEntry is one student's grade in a submission
type GradeEntry struct {
	StudentID    int64
	LetterGrade  models.LetterGrade
	NumericGrade float64
}

// GradeEntryResult reports the outcome of one GradeEntry
type GradeEntryResult struct {
	StudentID int64
	Outcome   GradeOutcome
	Reason    string
}

// GradeService defines the interface for KHS operations
type GradeService interface {
	SubmitGrades(ctx context.Context, offeringID, instructorID int64, entries []GradeEntry) ([]GradeEntryResult, error)
	GetKHS(ctx context.Context, studentID int64, term models.Term) (*models.KHS, error)
}

// GradeOptions tunes grade validation
type GradeOptions struct {
	// EnforceCanonicalMapping requires the numeric grade to equal the letter's grade point.
	EnforceCanonicalMapping bool
}

type gradeServiceImpl struct {
	tx          Transactor
	grades      GradeStore
	enrollments EnrollmentStore
	authz       *auth.AuthorizationService
	opts        GradeOptions
}

// NewGradeService creates a new grade service instance
func NewGradeService(tx Transactor, grades GradeStore, enrollments EnrollmentStore, authz *auth.AuthorizationService, opts GradeOptions) GradeService {
	return &gradeServiceImpl{
		tx:          tx,
		grades:      grades,
		enrollments: enrollments,
		authz:       authz,
		opts:        opts,
	}
}

func (s *gradeServiceImpl) validateEntry(e GradeEntry) error {
	if !e.LetterGrade.Valid() {
		return fmt.Errorf("%w %q for student %d", apperrors.ErrInvalidLetterGrade, e.LetterGrade, e.StudentID)
	}
	if e.NumericGrade < 0 || e.NumericGrade > 4 {
		return fmt.Errorf("%w (student %d: %.2f)", apperrors.ErrInvalidNumericGrade, e.StudentID, e.NumericGrade)
	}
	if s.opts.EnforceCanonicalMapping && !e.LetterGrade.MatchesCanonical(e.NumericGrade) {
		return fmt.Errorf("%w (student %d: %s/%.2f)", apperrors.ErrGradeMismatch, e.StudentID, e.LetterGrade, e.NumericGrade)
	}
	return nil
}

// SubmitGrades records grades for an offering taught by instructorID.
// The batch is validated as a whole before anything is written. Entries for students
// without an approved KRS containing the offering are skipped and reported as such.
func (s *gradeServiceImpl) SubmitGrades(ctx context.Context, offeringID, instructorID int64, entries []GradeEntry) ([]GradeEntryResult, error) {
	offering, err := s.authz.ValidateOfferingInstructor(ctx, offeringID, instructorID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, apperrors.NewValidationError("at least one grade entry is required")
	}
	for _, e := range entries {
		if err := s.validateEntry(e); err != nil {
			return nil, err
		}
	}

	results := make([]GradeEntryResult, 0, len(entries))
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, entry := range entries {
			reason, err := s.ineligibleReason(ctx, entry.StudentID, offering)
			if err != nil {
				return err
			}
			if reason != "" {
				logger.Debug().Int64("studentID", entry.StudentID).Int64("offeringID", offeringID).Str("reason", reason).Msg("Grade entry skipped")
				results = append(results, GradeEntryResult{StudentID: entry.StudentID, Outcome: GradeSkipped, Reason: reason})
				continue
			}

			record := &models.GradeRecord{
				StudentID:    entry.StudentID,
				Term:         offering.Term,
				CourseID:     offering.CourseID,
				OfferingID:   offering.ID,
				LetterGrade:  entry.LetterGrade,
				NumericGrade: entry.NumericGrade,
				GradedBy:     instructorID,
			}
			if err := s.grades.Upsert(ctx, record); err != nil {
				return err
			}
			results = append(results, GradeEntryResult{StudentID: entry.StudentID, Outcome: GradeWritten})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("offeringID", offeringID).Int64("instructorID", instructorID).Int("entries", len(entries)).Msg("Grades submitted")
	return results, nil
}

// ineligibleReason returns why the student cannot be graded for the offering, or "" when they can.
func (s *gradeServiceImpl) ineligibleReason(ctx context.Context, studentID int64, offering *models.Offering) (string, error) {
	e, err := s.enrollments.GetByStudentTerm(ctx, studentID, offering.Term, false)
	if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return "no KRS for the offering's term", nil
	}
	if err != nil {
		return "", err
	}
	if e.Status != models.EnrollmentApproved {
		return fmt.Sprintf("KRS is %s, not approved", e.Status), nil
	}
	if !e.HasOffering(offering.ID) {
		return "approved KRS does not contain this offering", nil
	}
	return "", nil
}

// GetKHS builds the student's grade report for a term.
// IPS covers the term only; IPK covers every term up to and including it.
func (s *gradeServiceImpl) GetKHS(ctx context.Context, studentID int64, term models.Term) (*models.KHS, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}

	all, err := s.grades.ListByStudent(ctx, studentID, "")
	if err != nil {
		return nil, err
	}

	khs := &models.KHS{StudentID: studentID, Term: term, Lines: []*models.GradeRecord{}}
	var upToTerm []*models.GradeRecord
	for _, g := range all {
		if g.Term == term {
			khs.Lines = append(khs.Lines, g)
		}
		// terms are YYYYS so lexical order is chronological
		if g.Term <= term {
			upToTerm = append(upToTerm, g)
		}
	}
	khs.IPS, khs.TotalCredits = models.GradePointAverage(khs.Lines)
	khs.IPK, _ = models.GradePointAverage(upToTerm)
	return khs, nil
}
