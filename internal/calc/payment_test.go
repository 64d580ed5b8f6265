package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-engine/internal/domain"
	customError "github.com/loanworks/loan-engine/pkg/errors"
)

func TestPeriodsPerYear(t *testing.T) {
	tests := []struct {
		frequency domain.Frequency
		expected  int
	}{
		{domain.FrequencyMonthly, 12},
		{domain.FrequencyBiweekly, 26},
		{domain.FrequencyWeekly, 52},
		{domain.FrequencyDaily, 365},
		{domain.FrequencyAnnual, 1},
		{domain.FrequencySemiAnnual, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			periods, err := PeriodsPerYear(tt.frequency)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, periods)
		})
	}
}

func TestPeriodsPerYear_Unsupported(t *testing.T) {
	for _, frequency := range []domain.Frequency{domain.FrequencyCustom, "fortnightly", ""} {
		_, err := PeriodsPerYear(frequency)
		assert.ErrorIs(t, err, customError.ErrUnsupportedFrequency)
	}
}

func TestLoanPeriodsPerYear_Custom(t *testing.T) {
	loan := &domain.Loan{Frequency: domain.FrequencyCustom, CustomPeriodsPerYear: 4}
	periods, err := LoanPeriodsPerYear(loan)
	require.NoError(t, err)
	assert.Equal(t, 4, periods)

	loan.CustomPeriodsPerYear = 0
	_, err = LoanPeriodsPerYear(loan)
	assert.ErrorIs(t, err, customError.ErrInvalidArgument)
}

func TestFixedPayment(t *testing.T) {
	// 10000 at 5% over 12 monthly periods
	rate := PeriodicRate(decimal.NewFromInt(5), 12)
	payment, err := FixedPayment(decimal.NewFromInt(10000), decimal.NewFromInt(5), rate, 12)
	require.NoError(t, err)
	assert.True(t, payment.Equal(decimal.NewFromFloat(856.07)), "got %s", payment)
}

func TestFixedPayment_ZeroRate(t *testing.T) {
	// Zero rate degrades to straight division
	payment, err := FixedPayment(decimal.NewFromInt(10000), decimal.Zero, decimal.Zero, 12)
	require.NoError(t, err)
	assert.True(t, payment.Equal(decimal.NewFromFloat(833.33)), "got %s", payment)
}

func TestFixedPayment_InvalidArguments(t *testing.T) {
	rate := PeriodicRate(decimal.NewFromInt(5), 12)

	_, err := FixedPayment(decimal.NewFromInt(10000), decimal.NewFromInt(5), rate, 0)
	assert.ErrorIs(t, err, customError.ErrInvalidArgument)

	_, err = FixedPayment(decimal.Zero, decimal.NewFromInt(5), rate, 12)
	assert.ErrorIs(t, err, customError.ErrInvalidArgument)

	_, err = FixedPayment(decimal.NewFromInt(10000), decimal.NewFromInt(-5), rate, 12)
	assert.ErrorIs(t, err, customError.ErrInvalidArgument)
}

func TestPeriodicRate(t *testing.T) {
	rate := PeriodicRate(decimal.NewFromInt(6), 12)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.005)), "got %s", rate)
}
