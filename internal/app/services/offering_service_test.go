package services

import (
	"context"
	"testing"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAvailable_HidesFullAndOtherTermOfferings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.enrollments.SaveDraft(ctx, studentA, term20251, []int64{offeringO1})
	require.NoError(t, err)

	offerings, total, err := f.offerings.ListAvailable(ctx, term20251, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	ids := []int64{}
	for _, o := range offerings {
		ids = append(ids, o.ID)
		assert.Equal(t, term20251, o.Term)
		assert.NotNil(t, o.Course)
	}
	assert.Equal(t, []int64{offeringO2, offeringO3}, ids)

	bySection, total, err := f.offerings.ListAvailable(ctx, term20251, "B", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, offeringO3, bySection[0].ID)

	_, _, err = f.offerings.ListAvailable(ctx, "20253", "", 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListByInstructor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	classes, err := f.offerings.ListByInstructor(ctx, instructorX, term20251)
	require.NoError(t, err)
	assert.Len(t, classes, 2)

	all, err := f.offerings.ListByInstructor(ctx, instructorY, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.approve(t, studentA, instructorX, offeringO3)
	_, err := f.enrollments.SubmitSelection(ctx, studentB, term20251, []int64{offeringO3})
	require.NoError(t, err)
	_, err = f.grades.SubmitGrades(ctx, offeringO3, instructorX, []GradeEntry{{StudentID: studentA, LetterGrade: models.GradeA, NumericGrade: 4}})
	require.NoError(t, err)

	roster, err := f.offerings.Roster(ctx, offeringO3, instructorX)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, models.EnrollmentApproved, roster[0].KRSStatus)
	require.NotNil(t, roster[0].LetterGrade)
	assert.Equal(t, models.GradeA, *roster[0].LetterGrade)
	assert.Equal(t, models.EnrollmentPending, roster[1].KRSStatus)
	assert.Nil(t, roster[1].LetterGrade)

	_, err = f.offerings.Roster(ctx, offeringO3, instructorY)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestSeatReport(t *testing.T) {
	f := newFixture(t)

	offerings, err := f.offerings.SeatReport(context.Background(), term20242)
	require.NoError(t, err)
	require.Len(t, offerings, 1)
	assert.Equal(t, offeringO4, offerings[0].ID)
}
