package service

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-engine/internal/config"
	"github.com/loanworks/loan-engine/internal/domain"
	customError "github.com/loanworks/loan-engine/pkg/errors"
	"github.com/loanworks/loan-engine/tests/mocks"
)

func newTestService(loanRepo *mocks.MockLoanRepository, scheduleRepo *mocks.MockScheduleRepository) *LoanService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewLoanService(loanRepo, scheduleRepo, nil, logger, &config.Config{})
}

func TestCreateLoan(t *testing.T) {
	tests := []struct {
		name           string
		request        *domain.CreateLoanRequest
		setupMocks     func(*mocks.MockLoanRepository, *mocks.MockScheduleRepository)
		expectedErr    error
		validateResult func(*testing.T, *domain.Loan, []*domain.ScheduleRow)
	}{
		{
			name: "Success - monthly loan",
			request: &domain.CreateLoanRequest{
				LoanID:      "LOAN123",
				Principal:   decimal.NewFromInt(10000),
				AnnualRate:  decimal.NewFromInt(5),
				TermPeriods: 12,
				Frequency:   domain.FrequencyMonthly,
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository, scheduleRepo *mocks.MockScheduleRepository) {
				loanRepo.On("GetByLoanID", mock.Anything, "LOAN123").Return(nil, sql.ErrNoRows)
				loanRepo.On("Create", mock.Anything, mock.MatchedBy(func(loan *domain.Loan) bool {
					return loan.LoanID == "LOAN123" &&
						loan.PeriodicPayment.Equal(decimal.NewFromFloat(856.07)) &&
						loan.CurrentBalance.Equal(decimal.NewFromInt(10000)) &&
						loan.Status == domain.LoanStatusActive
				})).Return(nil)
				scheduleRepo.On("InsertRows", mock.Anything, mock.MatchedBy(func(rows []*domain.ScheduleRow) bool {
					return len(rows) == 12
				})).Return(nil)
			},
			validateResult: func(t *testing.T, loan *domain.Loan, schedule []*domain.ScheduleRow) {
				assert.Equal(t, 1, loan.CurrentPeriod)
				require.Len(t, schedule, 12)
				assert.True(t, schedule[11].EndingBalance.IsZero())
			},
		},
		{
			name: "Failure - loan already exists",
			request: &domain.CreateLoanRequest{
				LoanID:      "LOAN456",
				Principal:   decimal.NewFromInt(10000),
				AnnualRate:  decimal.NewFromInt(5),
				TermPeriods: 12,
				Frequency:   domain.FrequencyMonthly,
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository, scheduleRepo *mocks.MockScheduleRepository) {
				loanRepo.On("GetByLoanID", mock.Anything, "LOAN456").Return(&domain.Loan{LoanID: "LOAN456"}, nil)
			},
			expectedErr: customError.ErrLoanAlreadyExists,
		},
		{
			name: "Failure - non-positive principal",
			request: &domain.CreateLoanRequest{
				LoanID:      "LOAN789",
				Principal:   decimal.Zero,
				AnnualRate:  decimal.NewFromInt(5),
				TermPeriods: 12,
				Frequency:   domain.FrequencyMonthly,
			},
			setupMocks:  func(*mocks.MockLoanRepository, *mocks.MockScheduleRepository) {},
			expectedErr: customError.ErrInvalidArgument,
		},
		{
			name: "Failure - unsupported frequency",
			request: &domain.CreateLoanRequest{
				LoanID:      "LOAN790",
				Principal:   decimal.NewFromInt(10000),
				AnnualRate:  decimal.NewFromInt(5),
				TermPeriods: 12,
				Frequency:   "fortnightly",
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository, scheduleRepo *mocks.MockScheduleRepository) {
				loanRepo.On("GetByLoanID", mock.Anything, "LOAN790").Return(nil, sql.ErrNoRows)
			},
			expectedErr: customError.ErrUnsupportedFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loanRepo := &mocks.MockLoanRepository{}
			scheduleRepo := &mocks.MockScheduleRepository{}
			tt.setupMocks(loanRepo, scheduleRepo)

			service := newTestService(loanRepo, scheduleRepo)
			loan, schedule, err := service.CreateLoan(context.Background(), tt.request)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, loan)
			} else {
				require.NoError(t, err)
				tt.validateResult(t, loan, schedule)
			}

			loanRepo.AssertExpectations(t)
			scheduleRepo.AssertExpectations(t)
		})
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	scheduleRepo := &mocks.MockScheduleRepository{}
	loanRepo.On("GetByLoanID", mock.Anything, "MISSING").Return(nil, sql.ErrNoRows)

	service := newTestService(loanRepo, scheduleRepo)
	_, err := service.GetLoan(context.Background(), "MISSING")
	assert.ErrorIs(t, err, customError.ErrLoanNotFound)
}

func TestGetOutstanding(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	scheduleRepo := &mocks.MockScheduleRepository{}

	loan := &domain.Loan{
		LoanID:         "LOAN123",
		CurrentBalance: decimal.NewFromFloat(5000.50),
		CurrentPeriod:  2,
		Status:         domain.LoanStatusActive,
	}
	schedule := []*domain.ScheduleRow{
		{LoanID: "LOAN123", PeriodNumber: 1, PrincipalPortion: decimal.NewFromInt(800), InterestPortion: decimal.NewFromInt(50), PaymentAmount: decimal.NewFromInt(850)},
		{LoanID: "LOAN123", PeriodNumber: 2, PrincipalPortion: decimal.NewFromInt(810), InterestPortion: decimal.NewFromInt(40), PaymentAmount: decimal.NewFromInt(850)},
		{LoanID: "LOAN123", PeriodNumber: 3, PrincipalPortion: decimal.NewFromInt(820), InterestPortion: decimal.NewFromInt(30), PaymentAmount: decimal.NewFromInt(850)},
	}

	loanRepo.On("GetByLoanID", mock.Anything, "LOAN123").Return(loan, nil)
	scheduleRepo.On("GetByLoanID", mock.Anything, "LOAN123").Return(schedule, nil)

	service := newTestService(loanRepo, scheduleRepo)
	outstanding, err := service.GetOutstanding(context.Background(), "LOAN123")
	require.NoError(t, err)

	// Period 1 is behind the loan; only periods 2 and 3 remain
	assert.Equal(t, 2, outstanding.RemainingPeriods)
	assert.True(t, outstanding.RemainingPrincipal.Equal(decimal.NewFromInt(1630)))
	assert.True(t, outstanding.RemainingInterest.Equal(decimal.NewFromInt(70)))
	assert.True(t, outstanding.RemainingTotal.Equal(decimal.NewFromInt(1700)))
}
