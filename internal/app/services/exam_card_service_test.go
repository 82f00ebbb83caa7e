package services

import (
	"context"
	"testing"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamCard(t *testing.T) {
	ctx := context.Background()

	t.Run("approved KRS and settled bills", func(t *testing.T) {
		f := newFixture(t)
		f.approve(t, studentA, instructorX, offeringO3, offeringO2)

		card, err := f.examCards.Get(ctx, studentA, term20251)
		require.NoError(t, err)
		assert.Equal(t, "Ani", card.Student.FullName)
		assert.Equal(t, term20251, card.Term)
		require.Len(t, card.Enrollment.Lines, 2)
		assert.Equal(t, "Dr. Xaverius", card.Enrollment.Lines[0].Offering.Instructor.FullName)
	})

	t.Run("unpaid bill", func(t *testing.T) {
		f := newFixture(t)
		f.approve(t, studentA, instructorX, offeringO3)
		f.db.addBill(studentA, term20242, 4500000, models.BillUnpaid)

		_, err := f.examCards.Get(ctx, studentA, term20251)
		assert.ErrorIs(t, err, apperrors.ErrExamCardUnavailable)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("KRS not approved yet", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.enrollments.SubmitSelection(ctx, studentA, term20251, []int64{offeringO3})
		require.NoError(t, err)

		_, err = f.examCards.Get(ctx, studentA, term20251)
		assert.ErrorIs(t, err, apperrors.ErrExamCardUnavailable)
	})

	t.Run("no KRS", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.examCards.Get(ctx, studentA, term20251)
		assert.ErrorIs(t, err, apperrors.ErrExamCardUnavailable)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.examCards.Get(ctx, 404, term20251)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}
