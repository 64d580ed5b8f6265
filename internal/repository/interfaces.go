package repository

import (
	"context"

	"github.com/loanworks/loan-engine/internal/domain"
)

// LoanRepository defines the interface for loan state operations. Updates to a
// single loan must be atomic; callers serialize concurrent events per loan.
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// Update writes the loan's mutable state back
	Update(ctx context.Context, loan *domain.Loan) error

	// ListActive returns all loans with active status
	ListActive(ctx context.Context) ([]*domain.Loan, error)
}

// ScheduleRepository defines the interface for schedule row operations. The
// schedule holds exactly one row per period; regeneration replaces a period
// range via delete-then-insert.
type ScheduleRepository interface {
	// InsertRows appends schedule rows
	InsertRows(ctx context.Context, rows []*domain.ScheduleRow) error

	// GetByLoanID retrieves the schedule ordered by period number
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.ScheduleRow, error)

	// ReplaceFromPeriod deletes all rows with period_number >= fromPeriod and
	// inserts the given rows in one transaction
	ReplaceFromPeriod(ctx context.Context, loanID string, fromPeriod int, rows []*domain.ScheduleRow) error
}
