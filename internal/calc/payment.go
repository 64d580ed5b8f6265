// Package calc is the pure formula library behind the amortization engine:
// periods-per-year lookup, the annuity payment formula and the interest
// calculators. Everything is decimal-based; monetary results are rounded
// half-up to the cent, rates to four places.
package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-engine/internal/domain"
	customError "github.com/loanworks/loan-engine/pkg/errors"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// PeriodsPerYear maps a named payment frequency to its number of periods per
// year. The custom frequency has no fixed mapping and is rejected here; loans
// with a custom cadence carry their own periods-per-year (see
// LoanPeriodsPerYear).
func PeriodsPerYear(frequency domain.Frequency) (int, error) {
	switch frequency {
	case domain.FrequencyMonthly:
		return 12, nil
	case domain.FrequencyBiweekly:
		return 26, nil
	case domain.FrequencyWeekly:
		return 52, nil
	case domain.FrequencyDaily:
		return 365, nil
	case domain.FrequencyAnnual:
		return 1, nil
	case domain.FrequencySemiAnnual:
		return 2, nil
	default:
		return 0, customError.WrapUnsupportedFrequency(string(frequency))
	}
}

// LoanPeriodsPerYear resolves the periods-per-year for a loan, honoring an
// explicit custom cadence before the fixed table.
func LoanPeriodsPerYear(loan *domain.Loan) (int, error) {
	if loan.Frequency == domain.FrequencyCustom {
		if loan.CustomPeriodsPerYear <= 0 {
			return 0, customError.WrapInvalidArgument("custom frequency requires custom_periods_per_year > 0")
		}
		return loan.CustomPeriodsPerYear, nil
	}
	return PeriodsPerYear(loan.Frequency)
}

// PeriodicRate converts a nominal annual rate in percent to the per-period
// rate for the given periods-per-year. The result is kept at full precision;
// rounding happens only on monetary amounts.
func PeriodicRate(annualRatePercent decimal.Decimal, periodsPerYear int) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(decimal.NewFromInt(int64(periodsPerYear)))
}

// FixedPayment computes the fixed periodic payment that retires principal over
// totalPeriods at periodicRate: P = B*r*(1+r)^n / ((1+r)^n - 1). A zero rate
// degrades to straight division of the principal.
func FixedPayment(principal, annualRatePercent, periodicRate decimal.Decimal, totalPeriods int) (decimal.Decimal, error) {
	if totalPeriods <= 0 {
		return decimal.Zero, customError.WrapInvalidArgument(fmt.Sprintf("total periods must be positive, got %d", totalPeriods))
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, customError.WrapInvalidArgument(fmt.Sprintf("principal must be positive, got %s", principal))
	}
	if annualRatePercent.IsNegative() || periodicRate.IsNegative() {
		return decimal.Zero, customError.WrapInvalidArgument("interest rate must not be negative")
	}

	n := decimal.NewFromInt(int64(totalPeriods))
	if periodicRate.IsZero() {
		return principal.Div(n).Round(2), nil
	}

	compounded := one.Add(periodicRate).Pow(n)
	numerator := principal.Mul(periodicRate).Mul(compounded)
	denominator := compounded.Sub(one)

	return numerator.Div(denominator).Round(2), nil
}
