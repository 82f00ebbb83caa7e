package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/myuniba/myuniba/internal/app/auth"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/myuniba/myuniba/internal/pkg/helpers"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

// EnrollmentService defines the interface for KRS operations
type EnrollmentService interface {
	Get(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error)
	SaveDraft(ctx context.Context, studentID int64, term models.Term, offeringIDs []int64) (*models.Enrollment, error)
	Submit(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error)
	SubmitSelection(ctx context.Context, studentID int64, term models.Term, offeringIDs []int64) (*models.Enrollment, error)
	Cancel(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error)
	Reopen(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error)
	Approve(ctx context.Context, enrollmentID, instructorID int64) (*models.Enrollment, error)
	Reject(ctx context.Context, enrollmentID, instructorID int64, note string) (*models.Enrollment, error)
	ListPendingForInstructor(ctx context.Context, instructorID int64, term models.Term, page, size int) ([]*models.Enrollment, int64, error)
}

// EnrollmentOptions tunes the KRS workflow
type EnrollmentOptions struct {
	// RestoreSeatsOnCancel releases held seats when a pending KRS is cancelled or rejected.
	RestoreSeatsOnCancel bool
}

type enrollmentServiceImpl struct {
	tx          Transactor
	enrollments EnrollmentStore
	offerings   OfferingStore
	authz       *auth.AuthorizationService
	opts        EnrollmentOptions
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(tx Transactor, enrollments EnrollmentStore, offerings OfferingStore, authz *auth.AuthorizationService, opts EnrollmentOptions) EnrollmentService {
	return &enrollmentServiceImpl{
		tx:          tx,
		enrollments: enrollments,
		offerings:   offerings,
		authz:       authz,
		opts:        opts,
	}
}

// inTx runs fn in a transaction and returns the enrollment it produced.
func (s *enrollmentServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) (*models.Enrollment, error)) (*models.Enrollment, error) {
	var out *models.Enrollment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := fn(ctx)
		out = e
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a student's KRS for a term
func (s *enrollmentServiceImpl) Get(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	return s.enrollments.GetByStudentTerm(ctx, studentID, term, false)
}

// SaveDraft makes the draft selection equal to offeringIDs, reserving seats for
// added offerings and releasing the seats of dropped ones.
func (s *enrollmentServiceImpl) SaveDraft(ctx context.Context, studentID int64, term models.Term, offeringIDs []int64) (*models.Enrollment, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	return s.inTx(ctx, func(ctx context.Context) (*models.Enrollment, error) {
		return s.saveDraft(ctx, studentID, term, offeringIDs)
	})
}

// Submit requests approval for the student's draft KRS
func (s *enrollmentServiceImpl) Submit(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	return s.inTx(ctx, func(ctx context.Context) (*models.Enrollment, error) {
		e, err := s.enrollments.GetByStudentTerm(ctx, studentID, term, true)
		if err != nil {
			return nil, err
		}
		return s.submit(ctx, e)
	})
}

// SubmitSelection saves the selection and requests approval atomically
func (s *enrollmentServiceImpl) SubmitSelection(ctx context.Context, studentID int64, term models.Term, offeringIDs []int64) (*models.Enrollment, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	return s.inTx(ctx, func(ctx context.Context) (*models.Enrollment, error) {
		e, err := s.saveDraft(ctx, studentID, term, offeringIDs)
		if err != nil {
			return nil, err
		}
		return s.submit(ctx, e)
	})
}

// Cancel withdraws a pending approval request back to draft
func (s *enrollmentServiceImpl) Cancel(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	return s.inTx(ctx, func(ctx context.Context) (*models.Enrollment, error) {
		e, err := s.enrollments.GetByStudentTerm(ctx, studentID, term, true)
		if err != nil {
			return nil, err
		}
		if e.Status != models.EnrollmentPending {
			return nil, fmt.Errorf("%w: only a pending KRS can be cancelled (status %s)", apperrors.ErrInvalidState, e.Status)
		}
		if s.opts.RestoreSeatsOnCancel {
			if err := s.releaseHeldSeats(ctx, e); err != nil {
				return nil, err
			}
		}
		e.Status = models.EnrollmentDraft
		if err := s.enrollments.Update(ctx, e); err != nil {
			return nil, err
		}
		logger.Info().Int64("enrollmentID", e.ID).Bool("seatsRestored", s.opts.RestoreSeatsOnCancel).Msg("KRS approval request cancelled")
		return e, nil
	})
}

// Reopen returns a rejected KRS to draft so it can be edited and resubmitted
func (s *enrollmentServiceImpl) Reopen(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	return s.inTx(ctx, func(ctx context.Context) (*models.Enrollment, error) {
		e, err := s.enrollments.GetByStudentTerm(ctx, studentID, term, true)
		if err != nil {
			return nil, err
		}
		if e.Status != models.EnrollmentRejected {
			return nil, fmt.Errorf("%w: only a rejected KRS can be reopened (status %s)", apperrors.ErrInvalidState, e.Status)
		}
		e.Status = models.EnrollmentDraft
		if err := s.enrollments.Update(ctx, e); err != nil {
			return nil, err
		}
		return e, nil
	})
}

// Approve approves a whole pending KRS on behalf of instructorID
func (s *enrollmentServiceImpl) Approve(ctx context.Context, enrollmentID, instructorID int64) (*models.Enrollment, error) {
	return s.inTx(ctx, func(ctx context.Context) (*models.Enrollment, error) {
		e, err := s.loadForDecision(ctx, enrollmentID, instructorID)
		if err != nil {
			return nil, err
		}
		e.Status = models.EnrollmentApproved
		e.RejectionNote = nil
		e.DecidedBy = &instructorID
		if err := s.enrollments.Update(ctx, e); err != nil {
			return nil, err
		}
		logger.Info().Int64("enrollmentID", e.ID).Int64("instructorID", instructorID).Msg("KRS approved")
		return e, nil
	})
}

// Reject rejects a whole pending KRS with a note
func (s *enrollmentServiceImpl) Reject(ctx context.Context, enrollmentID, instructorID int64, note string) (*models.Enrollment, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperrors.ErrRejectionNoteReq
	}
	return s.inTx(ctx, func(ctx context.Context) (*models.Enrollment, error) {
		e, err := s.loadForDecision(ctx, enrollmentID, instructorID)
		if err != nil {
			return nil, err
		}
		if s.opts.RestoreSeatsOnCancel {
			if err := s.releaseHeldSeats(ctx, e); err != nil {
				return nil, err
			}
		}
		e.Status = models.EnrollmentRejected
		e.RejectionNote = &note
		e.DecidedBy = &instructorID
		if err := s.enrollments.Update(ctx, e); err != nil {
			return nil, err
		}
		logger.Info().Int64("enrollmentID", e.ID).Int64("instructorID", instructorID).Msg("KRS rejected")
		return e, nil
	})
}

// ListPendingForInstructor lists pending KRS that include one of the instructor's offerings
func (s *enrollmentServiceImpl) ListPendingForInstructor(ctx context.Context, instructorID int64, term models.Term, page, size int) ([]*models.Enrollment, int64, error) {
	if term != "" {
		if err := validateTerm(term); err != nil {
			return nil, 0, err
		}
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.enrollments.ListPendingForInstructor(ctx, instructorID, term, offset, limit)
}

// loadForDecision locks the KRS and checks the approver and the pending state, in that order.
func (s *enrollmentServiceImpl) loadForDecision(ctx context.Context, enrollmentID, instructorID int64) (*models.Enrollment, error) {
	e, err := s.enrollments.GetByID(ctx, enrollmentID, true)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateApprover(e, instructorID); err != nil {
		return nil, err
	}
	if e.Status != models.EnrollmentPending {
		return nil, fmt.Errorf("%w: only a pending KRS can be decided (status %s)", apperrors.ErrInvalidState, e.Status)
	}
	return e, nil
}

// draftFor returns the student's editable KRS for the term, creating it on first use.
// A rejected KRS is reopened; a pending or approved one cannot be edited.
func (s *enrollmentServiceImpl) draftFor(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error) {
	e, err := s.enrollments.GetByStudentTerm(ctx, studentID, term, true)
	if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		e = &models.Enrollment{
			StudentID: studentID,
			Term:      term,
			Status:    models.EnrollmentDraft,
		}
		if err := s.enrollments.Create(ctx, e); err != nil {
			return nil, err
		}
		return e, nil
	}
	if err != nil {
		return nil, err
	}

	switch e.Status {
	case models.EnrollmentDraft:
	case models.EnrollmentRejected:
		e.Status = models.EnrollmentDraft
	default:
		return nil, fmt.Errorf("%w (status %s)", apperrors.ErrAlreadySubmitted, e.Status)
	}
	return e, nil
}

func (s *enrollmentServiceImpl) saveDraft(ctx context.Context, studentID int64, term models.Term, offeringIDs []int64) (*models.Enrollment, error) {
	e, err := s.draftFor(ctx, studentID, term)
	if err != nil {
		return nil, err
	}

	wanted := uniqueIDs(offeringIDs)
	offerings, err := s.offerings.GetByIDs(ctx, wanted)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Offering, len(offerings))
	for _, o := range offerings {
		byID[o.ID] = o
	}
	credits := 0
	for _, id := range wanted {
		o, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", apperrors.ErrOfferingNotFound, id)
		}
		if o.Term != term {
			return nil, fmt.Errorf("%w: offering %d is in term %s", apperrors.ErrTermMismatch, id, o.Term)
		}
		if o.Course != nil {
			credits += o.Course.Credits
		}
	}

	keep := make(map[int64]bool, len(wanted))
	for _, id := range wanted {
		keep[id] = true
	}
	existing := make(map[int64]bool, len(e.Lines))
	for _, l := range e.Lines {
		existing[l.OfferingID] = true
		if keep[l.OfferingID] {
			continue
		}
		if l.SeatHeld {
			if err := s.offerings.ReleaseSeat(ctx, l.OfferingID); err != nil {
				return nil, err
			}
		}
		if err := s.enrollments.RemoveLine(ctx, e.ID, l.OfferingID); err != nil {
			return nil, err
		}
	}

	for _, id := range wanted {
		if existing[id] {
			continue
		}
		if err := s.offerings.ReserveSeat(ctx, id); err != nil {
			return nil, fmt.Errorf("offering %d: %w", id, err)
		}
		line := &models.EnrollmentLine{EnrollmentID: e.ID, OfferingID: id, SeatHeld: true}
		if err := s.enrollments.AddLine(ctx, line); err != nil {
			return nil, err
		}
	}

	e.TotalCredits = credits
	if err := s.enrollments.Update(ctx, e); err != nil {
		return nil, err
	}
	if e.Lines, err = s.enrollments.ListLines(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

// submit reserves seats for lines that do not hold one and marks the KRS pending.
// Lines that already hold a seat are never reserved again.
func (s *enrollmentServiceImpl) submit(ctx context.Context, e *models.Enrollment) (*models.Enrollment, error) {
	if e.Status != models.EnrollmentDraft {
		return nil, fmt.Errorf("%w (status %s)", apperrors.ErrAlreadySubmitted, e.Status)
	}
	if len(e.Lines) == 0 {
		return nil, apperrors.ErrEmptySelection
	}

	for _, l := range e.Lines {
		if l.SeatHeld {
			continue
		}
		if err := s.offerings.ReserveSeat(ctx, l.OfferingID); err != nil {
			return nil, fmt.Errorf("offering %d: %w", l.OfferingID, err)
		}
		if err := s.enrollments.SetSeatHeld(ctx, e.ID, l.OfferingID, true); err != nil {
			return nil, err
		}
		l.SeatHeld = true
	}

	e.Status = models.EnrollmentPending
	e.RejectionNote = nil
	e.DecidedBy = nil
	if err := s.enrollments.Update(ctx, e); err != nil {
		return nil, err
	}
	logger.Info().Int64("enrollmentID", e.ID).Int64("studentID", e.StudentID).Int("credits", e.TotalCredits).Msg("KRS submitted for approval")
	return e, nil
}

func (s *enrollmentServiceImpl) releaseHeldSeats(ctx context.Context, e *models.Enrollment) error {
	for _, l := range e.Lines {
		if !l.SeatHeld {
			continue
		}
		if err := s.offerings.ReleaseSeat(ctx, l.OfferingID); err != nil {
			return err
		}
		if err := s.enrollments.SetSeatHeld(ctx, e.ID, l.OfferingID, false); err != nil {
			return err
		}
		l.SeatHeld = false
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
