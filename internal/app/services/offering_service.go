package services

import (
	"context"
	"fmt"

	"github.com/myuniba/myuniba/internal/app/auth"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/myuniba/myuniba/internal/pkg/helpers"
)

// OfferingService defines the interface for course offering operations
type OfferingService interface {
	ListAvailable(ctx context.Context, term models.Term, section string, page, size int) ([]*models.Offering, int64, error)
	ListByInstructor(ctx context.Context, instructorID int64, term models.Term) ([]*models.Offering, error)
	Roster(ctx context.Context, offeringID, instructorID int64) ([]*models.RosterEntry, error)
	SeatReport(ctx context.Context, term models.Term) ([]*models.Offering, error)
}

type offeringServiceImpl struct {
	offerings OfferingStore
	authz     *auth.AuthorizationService
}

// NewOfferingService creates a new offering service instance
func NewOfferingService(offerings OfferingStore, authz *auth.AuthorizationService) OfferingService {
	return &offeringServiceImpl{
		offerings: offerings,
		authz:     authz,
	}
}

func validateTerm(term models.Term) error {
	if err := term.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	return nil
}

// ListAvailable lists the term's offerings that still have seats
func (s *offeringServiceImpl) ListAvailable(ctx context.Context, term models.Term, section string, page, size int) ([]*models.Offering, int64, error) {
	if err := validateTerm(term); err != nil {
		return nil, 0, err
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.offerings.ListAvailable(ctx, term, section, offset, limit)
}

// ListByInstructor lists the classes an instructor teaches; an empty term lists all terms
func (s *offeringServiceImpl) ListByInstructor(ctx context.Context, instructorID int64, term models.Term) ([]*models.Offering, error) {
	if term != "" {
		if err := validateTerm(term); err != nil {
			return nil, err
		}
	}
	return s.offerings.ListByInstructor(ctx, instructorID, term)
}

// Roster lists the students of an offering taught by instructorID
func (s *offeringServiceImpl) Roster(ctx context.Context, offeringID, instructorID int64) ([]*models.RosterEntry, error) {
	if _, err := s.authz.ValidateOfferingInstructor(ctx, offeringID, instructorID); err != nil {
		return nil, err
	}
	return s.offerings.Roster(ctx, offeringID)
}

// SeatReport lists every offering of the term with its seat counts
func (s *offeringServiceImpl) SeatReport(ctx context.Context, term models.Term) ([]*models.Offering, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}
	return s.offerings.ListByTerm(ctx, term)
}
