package auth

import (
	"context"
	"testing"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offeringMap map[int64]*models.Offering

func (m offeringMap) GetByID(_ context.Context, id int64) (*models.Offering, error) {
	if o, ok := m[id]; ok {
		return o, nil
	}
	return nil, apperrors.ErrOfferingNotFound
}

func enrollmentTaughtBy(instructors ...int64) *models.Enrollment {
	e := &models.Enrollment{ID: 1}
	for i, in := range instructors {
		id := int64(i + 1)
		e.Lines = append(e.Lines, &models.EnrollmentLine{
			OfferingID: id,
			Offering:   &models.Offering{ID: id, InstructorID: in},
		})
	}
	return e
}

func TestApprovalPolicies(t *testing.T) {
	tests := []struct {
		name       string
		policy     ApprovalPolicy
		enrollment *models.Enrollment
		instructor int64
		want       bool
	}{
		{"any line: teaches one of two", AnyLineInstructorPolicy, enrollmentTaughtBy(10, 20), 10, true},
		{"any line: teaches none", AnyLineInstructorPolicy, enrollmentTaughtBy(10, 20), 30, false},
		{"any line: empty selection", AnyLineInstructorPolicy, enrollmentTaughtBy(), 10, false},
		{"every line: teaches one of two", EveryLineInstructorPolicy, enrollmentTaughtBy(10, 20), 10, false},
		{"every line: teaches all", EveryLineInstructorPolicy, enrollmentTaughtBy(10, 10), 10, true},
		{"every line: empty selection", EveryLineInstructorPolicy, enrollmentTaughtBy(), 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy(tt.enrollment, tt.instructor))
		})
	}
}

func TestPolicyByName(t *testing.T) {
	for _, name := range []string{"", "any_line", "every_line"} {
		p, err := PolicyByName(name)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}

	_, err := PolicyByName("dean_only")
	assert.Error(t, err)
}

func TestValidateOfferingInstructor(t *testing.T) {
	svc := NewAuthorizationService(offeringMap{1: {ID: 1, InstructorID: 10}}, nil)
	ctx := context.Background()

	o, err := svc.ValidateOfferingInstructor(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)

	_, err = svc.ValidateOfferingInstructor(ctx, 1, 11)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ValidateOfferingInstructor(ctx, 2, 10)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestValidateApproverDefaultsToAnyLine(t *testing.T) {
	svc := NewAuthorizationService(offeringMap{}, nil)

	assert.NoError(t, svc.ValidateApprover(enrollmentTaughtBy(10, 20), 20))
	assert.ErrorIs(t, svc.ValidateApprover(enrollmentTaughtBy(10, 20), 30), apperrors.ErrPermissionDenied)
}
