package auth

import (
	"context"
	"fmt"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

// ApprovalPolicy decides whether an instructor may approve or reject a whole KRS.
type ApprovalPolicy func(e *models.Enrollment, instructorID int64) bool

// AnyLineInstructorPolicy allows the decision when the instructor teaches at least
// one selected offering. A single such instructor decides for every line.
func AnyLineInstructorPolicy(e *models.Enrollment, instructorID int64) bool {
	for _, l := range e.Lines {
		if l.Offering != nil && l.Offering.TaughtBy(instructorID) {
			return true
		}
	}
	return false
}

// EveryLineInstructorPolicy allows the decision only when the instructor teaches every selected offering.
func EveryLineInstructorPolicy(e *models.Enrollment, instructorID int64) bool {
	if len(e.Lines) == 0 {
		return false
	}
	for _, l := range e.Lines {
		if l.Offering == nil || !l.Offering.TaughtBy(instructorID) {
			return false
		}
	}
	return true
}

// PolicyByName resolves a configured approval policy name.
func PolicyByName(name string) (ApprovalPolicy, error) {
	switch name {
	case "", "any_line":
		return AnyLineInstructorPolicy, nil
	case "every_line":
		return EveryLineInstructorPolicy, nil
	default:
		return nil, fmt.Errorf("unknown approval policy %q", name)
	}
}

// OfferingFinder loads a single offering.
type OfferingFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Offering, error)
}

// AuthorizationService handles authorization checks on offerings and KRS decisions
type AuthorizationService struct {
	offerings OfferingFinder
	policy    ApprovalPolicy
}

// NewAuthorizationService creates a new AuthorizationService. A nil policy means AnyLineInstructorPolicy.
func NewAuthorizationService(offerings OfferingFinder, policy ApprovalPolicy) *AuthorizationService {
	if policy == nil {
		policy = AnyLineInstructorPolicy
	}
	return &AuthorizationService{
		offerings: offerings,
		policy:    policy,
	}
}

// ValidateOfferingInstructor loads the offering and checks that instructorID teaches it.
func (s *AuthorizationService) ValidateOfferingInstructor(ctx context.Context, offeringID, instructorID int64) (*models.Offering, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if !offering.TaughtBy(instructorID) {
		logger.Warn().Int64("offeringID", offeringID).Int64("instructorID", instructorID).Msg("Instructor does not teach offering")
		return nil, apperrors.NewForbiddenError("you do not teach this offering")
	}
	return offering, nil
}

// ValidateApprover checks the configured approval policy for a KRS decision.
func (s *AuthorizationService) ValidateApprover(e *models.Enrollment, instructorID int64) error {
	if !s.policy(e, instructorID) {
		logger.Warn().Int64("enrollmentID", e.ID).Int64("instructorID", instructorID).Msg("Instructor may not decide on KRS")
		return apperrors.NewForbiddenError("you are not allowed to decide on this KRS")
	}
	return nil
}
