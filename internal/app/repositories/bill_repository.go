package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/db"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

// BillRepository reads bill status written by the finance service
type BillRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBillRepository creates a new BillRepository
func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// HasUnpaid reports whether the student has any bill still marked unpaid, in any term.
func (r *BillRepository) HasUnpaid(ctx context.Context, studentID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("bills").
		Where(squirrel.Eq{"student_id": studentID, "status": models.BillUnpaid}).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building unpaid bills SQL")
		return false, fmt.Errorf("failed to build unpaid bills query: %w", err)
	}

	var exists bool
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing unpaid bills query")
		return false, fmt.Errorf("error checking unpaid bills: %w", err)
	}
	return exists, nil
}

// TotalUnpaid sums the amount of every bill still marked unpaid, in any term.
func (r *BillRepository) TotalUnpaid(ctx context.Context, studentID int64) (float64, error) {
	sql, args, err := r.unpaidTotalQuery(studentID)
	if err != nil {
		logger.Error().Err(err).Msg("Error building unpaid total SQL")
		return 0, fmt.Errorf("failed to build unpaid total query: %w", err)
	}

	var total float64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing unpaid total query")
		return 0, fmt.Errorf("error summing unpaid bills: %w", err)
	}
	return total, nil
}

func (r *BillRepository) unpaidTotalQuery(studentID int64) (string, []interface{}, error) {
	return r.sb.Select("COALESCE(SUM(amount), 0)::float8").
		From("bills").
		Where(squirrel.Eq{"student_id": studentID, "status": models.BillUnpaid}).
		ToSql()
}
