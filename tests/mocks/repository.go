package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/loanworks/loan-engine/internal/domain"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) InsertRows(ctx context.Context, rows []*domain.ScheduleRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.ScheduleRow, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduleRow), args.Error(1)
}

func (m *MockScheduleRepository) ReplaceFromPeriod(ctx context.Context, loanID string, fromPeriod int, rows []*domain.ScheduleRow) error {
	args := m.Called(ctx, loanID, fromPeriod, rows)
	return args.Error(0)
}
