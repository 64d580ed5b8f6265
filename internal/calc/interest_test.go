package calc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-engine/internal/domain"
	customError "github.com/loanworks/loan-engine/pkg/errors"
)

func TestPeriodicInterest(t *testing.T) {
	interest, err := PeriodicInterest(decimal.NewFromInt(10000), decimal.NewFromInt(5), domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.True(t, interest.Equal(decimal.NewFromFloat(41.67)), "got %s", interest)
}

func TestPeriodicInterest_RejectsNegative(t *testing.T) {
	_, err := PeriodicInterest(decimal.NewFromInt(-1), decimal.NewFromInt(5), domain.FrequencyMonthly)
	assert.ErrorIs(t, err, customError.ErrInvalidArgument)

	_, err = PeriodicInterest(decimal.NewFromInt(10000), decimal.NewFromInt(-5), domain.FrequencyMonthly)
	assert.ErrorIs(t, err, customError.ErrInvalidArgument)
}

func TestSimpleInterest(t *testing.T) {
	interest, err := SimpleInterest(decimal.NewFromInt(10000), decimal.NewFromInt(5), decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, interest.Equal(decimal.NewFromInt(1000)), "got %s", interest)

	_, err = SimpleInterest(decimal.NewFromInt(10000), decimal.NewFromInt(5), decimal.Zero)
	assert.ErrorIs(t, err, customError.ErrInvalidArgument)
}

func TestCompoundInterest(t *testing.T) {
	interest, err := CompoundInterest(decimal.NewFromInt(10000), decimal.NewFromInt(5), 12, domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.InDelta(t, 511.62, interest.InexactFloat64(), 0.01)
}

func TestDailyInterest(t *testing.T) {
	daily, err := DailyInterest(decimal.NewFromInt(10000), decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, daily.Equal(decimal.NewFromFloat(1.37)), "got %s", daily)
}

func TestInterestAccrual(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	accrued, err := InterestAccrual(decimal.NewFromInt(10000), decimal.NewFromInt(5), start, end)
	require.NoError(t, err)
	assert.True(t, accrued.Equal(decimal.NewFromFloat(41.10)), "got %s", accrued)
}

func TestInterestAccrual_InvalidDateRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := InterestAccrual(decimal.NewFromInt(10000), decimal.NewFromInt(5), start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, customError.ErrInvalidDateRange)
}

func TestAPYFromAPR(t *testing.T) {
	apy, err := APYFromAPR(decimal.NewFromInt(5), domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.InDelta(t, 5.1162, apy.InexactFloat64(), 0.0001)
}

func TestAPRFromAPY_RoundTrip(t *testing.T) {
	apy, err := APYFromAPR(decimal.NewFromInt(5), domain.FrequencyMonthly)
	require.NoError(t, err)

	apr, err := APRFromAPY(apy, domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, apr.InexactFloat64(), 0.001)
}

func TestConvertRate(t *testing.T) {
	// Monthly periodic rate rescaled to annual by the ratio of periods
	annual, err := ConvertRate(decimal.NewFromFloat(0.5), domain.FrequencyMonthly, domain.FrequencyAnnual)
	require.NoError(t, err)
	assert.True(t, annual.Equal(decimal.NewFromInt(6)), "got %s", annual)

	monthly, err := ConvertRate(decimal.NewFromInt(6), domain.FrequencyAnnual, domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.True(t, monthly.Equal(decimal.NewFromFloat(0.5)), "got %s", monthly)
}

func TestConvertRate_UnsupportedFrequency(t *testing.T) {
	_, err := ConvertRate(decimal.NewFromInt(6), domain.FrequencyCustom, domain.FrequencyMonthly)
	assert.ErrorIs(t, err, customError.ErrUnsupportedFrequency)
}
