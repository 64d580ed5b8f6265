package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/loanworks/loan-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

// NewLoanRepository returns a LoanRepository over an sqlx handle. Queries are
// written with ? placeholders and rebound per driver, so the same
// implementation serves postgres and sqlite.
func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := r.db.Rebind(`
		INSERT INTO loans (id, loan_id, principal, current_balance, annual_rate, term_periods, current_period,
			frequency, custom_periods_per_year, periodic_payment, status, start_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.LoanID,
		loan.Principal,
		loan.CurrentBalance,
		loan.AnnualRate,
		loan.TermPeriods,
		loan.CurrentPeriod,
		loan.Frequency,
		loan.CustomPeriodsPerYear,
		loan.PeriodicPayment,
		loan.Status,
		loan.StartDate,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := r.db.Rebind(`
		SELECT id, loan_id, principal, current_balance, annual_rate, term_periods, current_period,
			frequency, custom_periods_per_year, periodic_payment, status, start_date, created_at, updated_at
		FROM loans
		WHERE loan_id = ?
	`)

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, loanID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := r.db.Rebind(`
		UPDATE loans
		SET current_balance = ?, term_periods = ?, current_period = ?, periodic_payment = ?, status = ?, updated_at = ?
		WHERE loan_id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		loan.CurrentBalance,
		loan.TermPeriods,
		loan.CurrentPeriod,
		loan.PeriodicPayment,
		loan.Status,
		time.Now(),
		loan.LoanID,
	)

	return err
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	query := r.db.Rebind(`
		SELECT id, loan_id, principal, current_balance, annual_rate, term_periods, current_period,
			frequency, custom_periods_per_year, periodic_payment, status, start_date, created_at, updated_at
		FROM loans
		WHERE status = ?
		ORDER BY loan_id
	`)

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive); err != nil {
		return nil, err
	}

	return loans, nil
}
