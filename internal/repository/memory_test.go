package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-engine/internal/domain"
)

func TestMemoryStore_Loans(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetByLoanID(ctx, "LOAN123")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	loan := &domain.Loan{LoanID: "LOAN123", CurrentBalance: decimal.NewFromInt(1000), Status: domain.LoanStatusActive}
	require.NoError(t, store.Create(ctx, loan))

	got, err := store.GetByLoanID(ctx, "LOAN123")
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(1000)))

	// Stored loans are copies; mutating the returned value must not leak back
	got.CurrentBalance = decimal.Zero
	again, err := store.GetByLoanID(ctx, "LOAN123")
	require.NoError(t, err)
	assert.True(t, again.CurrentBalance.Equal(decimal.NewFromInt(1000)))

	loan.Status = domain.LoanStatusClosed
	require.NoError(t, store.Update(ctx, loan))

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMemoryStore_ReplaceFromPeriod(t *testing.T) {
	store := NewMemoryStore()
	schedules := ScheduleStore{MemoryStore: store}
	ctx := context.Background()

	rows := []*domain.ScheduleRow{
		{LoanID: "LOAN123", PeriodNumber: 1, RowType: domain.RowTypeScheduled},
		{LoanID: "LOAN123", PeriodNumber: 2, RowType: domain.RowTypeScheduled},
		{LoanID: "LOAN123", PeriodNumber: 3, RowType: domain.RowTypeScheduled},
	}
	require.NoError(t, schedules.InsertRows(ctx, rows))

	replacement := []*domain.ScheduleRow{
		{LoanID: "LOAN123", PeriodNumber: 2, RowType: domain.RowTypeExtraPayment},
		{LoanID: "LOAN123", PeriodNumber: 3, RowType: domain.RowTypeRecalculated},
	}
	require.NoError(t, schedules.ReplaceFromPeriod(ctx, "LOAN123", 2, replacement))

	got, err := schedules.GetByLoanID(ctx, "LOAN123")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Exactly one row per period after replacement
	assert.Equal(t, domain.RowTypeScheduled, got[0].RowType)
	assert.Equal(t, domain.RowTypeExtraPayment, got[1].RowType)
	assert.Equal(t, domain.RowTypeRecalculated, got[2].RowType)
	for i, row := range got {
		assert.Equal(t, i+1, row.PeriodNumber)
	}
}
