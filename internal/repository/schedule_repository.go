package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/loanworks/loan-engine/internal/domain"
)

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const insertRowQuery = `
	INSERT INTO schedule_rows (id, loan_id, period_number, payment_date, payment_amount,
		principal_portion, interest_portion, ending_balance, row_type, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (r *scheduleRepository) InsertRows(ctx context.Context, rows []*domain.ScheduleRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRows(ctx, tx, rows); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *scheduleRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.ScheduleRow, error) {
	query := r.db.Rebind(`
		SELECT id, loan_id, period_number, payment_date, payment_amount,
			principal_portion, interest_portion, ending_balance, row_type, created_at
		FROM schedule_rows
		WHERE loan_id = ?
		ORDER BY period_number
	`)

	var rows []*domain.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, loanID); err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *scheduleRepository) ReplaceFromPeriod(ctx context.Context, loanID string, fromPeriod int, rows []*domain.ScheduleRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := r.db.Rebind(`
		DELETE FROM schedule_rows
		WHERE loan_id = ? AND period_number >= ?
	`)
	if _, err := tx.ExecContext(ctx, deleteQuery, loanID, fromPeriod); err != nil {
		return err
	}

	if err := insertRows(ctx, tx, rows); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRows(ctx context.Context, tx *sqlx.Tx, rows []*domain.ScheduleRow) error {
	query := tx.Rebind(insertRowQuery)
	for _, row := range rows {
		_, err := tx.ExecContext(ctx, query,
			row.ID,
			row.LoanID,
			row.PeriodNumber,
			row.PaymentDate,
			row.PaymentAmount,
			row.PrincipalPortion,
			row.InterestPortion,
			row.EndingBalance,
			row.RowType,
			row.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
