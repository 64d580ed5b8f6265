package calc

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-engine/internal/domain"
	customError "github.com/loanworks/loan-engine/pkg/errors"
)

var daysPerYear = decimal.NewFromInt(365)

// PeriodicInterest returns one period's interest on a balance:
// balance * (rate/100) / periodsPerYear, rounded to the cent.
func PeriodicInterest(balance, annualRatePercent decimal.Decimal, frequency domain.Frequency) (decimal.Decimal, error) {
	if err := checkBalanceAndRate(balance, annualRatePercent); err != nil {
		return decimal.Zero, err
	}
	periods, err := PeriodsPerYear(frequency)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Mul(PeriodicRate(annualRatePercent, periods)).Round(2), nil
}

// PeriodicInterestAtRate is PeriodicInterest with a pre-resolved periodic
// rate, used where the caller already knows the loan's cadence.
func PeriodicInterestAtRate(balance, periodicRate decimal.Decimal) decimal.Decimal {
	return balance.Mul(periodicRate).Round(2)
}

// SimpleInterest returns P*r*t for a term expressed in years.
func SimpleInterest(principal, annualRatePercent, years decimal.Decimal) (decimal.Decimal, error) {
	if err := checkBalanceAndRate(principal, annualRatePercent); err != nil {
		return decimal.Zero, err
	}
	if years.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, customError.WrapInvalidArgument(fmt.Sprintf("years must be positive, got %s", years))
	}
	return principal.Mul(annualRatePercent.Div(hundred)).Mul(years).Round(2), nil
}

// CompoundInterest returns the interest earned compounding the periodic rate
// over the given number of periods: P*(1+r)^n - P.
func CompoundInterest(principal, annualRatePercent decimal.Decimal, periods int, frequency domain.Frequency) (decimal.Decimal, error) {
	if err := checkBalanceAndRate(principal, annualRatePercent); err != nil {
		return decimal.Zero, err
	}
	if periods <= 0 {
		return decimal.Zero, customError.WrapInvalidArgument(fmt.Sprintf("periods must be positive, got %d", periods))
	}
	perYear, err := PeriodsPerYear(frequency)
	if err != nil {
		return decimal.Zero, err
	}
	rate := PeriodicRate(annualRatePercent, perYear)
	compounded := one.Add(rate).Pow(decimal.NewFromInt(int64(periods)))
	return principal.Mul(compounded).Sub(principal).Round(2), nil
}

// DailyInterest returns one day's interest on a balance at the annual rate,
// on a 365-day year.
func DailyInterest(balance, annualRatePercent decimal.Decimal) (decimal.Decimal, error) {
	if err := checkBalanceAndRate(balance, annualRatePercent); err != nil {
		return decimal.Zero, err
	}
	return balance.Mul(annualRatePercent.Div(hundred)).Div(daysPerYear).Round(2), nil
}

// InterestAccrual returns the simple interest accrued on a balance between
// two dates, counting whole days.
func InterestAccrual(balance, annualRatePercent decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, customError.WrapInvalidDateRange(start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	daily, err := DailyInterest(balance, annualRatePercent)
	if err != nil {
		return decimal.Zero, err
	}
	days := int64(end.Sub(start).Hours() / 24)
	return daily.Mul(decimal.NewFromInt(days)), nil
}

// APYFromAPR converts a nominal annual rate to the effective annual yield for
// the compounding frequency: ((1+r)^n - 1) * 100, rounded to four places.
func APYFromAPR(aprPercent decimal.Decimal, frequency domain.Frequency) (decimal.Decimal, error) {
	if aprPercent.IsNegative() {
		return decimal.Zero, customError.WrapInvalidArgument("rate must not be negative")
	}
	periods, err := PeriodsPerYear(frequency)
	if err != nil {
		return decimal.Zero, err
	}
	rate := PeriodicRate(aprPercent, periods)
	compounded := one.Add(rate).Pow(decimal.NewFromInt(int64(periods)))
	return compounded.Sub(one).Mul(hundred).Round(4), nil
}

// APRFromAPY is the inverse of APYFromAPR: the nominal rate whose compounding
// at the given frequency produces the effective yield. The fractional root is
// taken in float64; four decimal places absorb the conversion noise.
func APRFromAPY(apyPercent decimal.Decimal, frequency domain.Frequency) (decimal.Decimal, error) {
	if apyPercent.IsNegative() {
		return decimal.Zero, customError.WrapInvalidArgument("rate must not be negative")
	}
	periods, err := PeriodsPerYear(frequency)
	if err != nil {
		return decimal.Zero, err
	}
	apy := apyPercent.Div(hundred).InexactFloat64()
	apr := float64(periods) * (math.Pow(1+apy, 1/float64(periods)) - 1) * 100
	return decimal.NewFromFloat(apr).Round(4), nil
}

// ConvertRate rescales a periodic rate between frequencies by the ratio of
// periods per year. This is a linear approximation, not a
// compounding-equivalent conversion; callers needing yield-accurate figures
// must go through APYFromAPR/APRFromAPY.
func ConvertRate(rate decimal.Decimal, from, to domain.Frequency) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, customError.WrapInvalidArgument("rate must not be negative")
	}
	fromPeriods, err := PeriodsPerYear(from)
	if err != nil {
		return decimal.Zero, err
	}
	toPeriods, err := PeriodsPerYear(to)
	if err != nil {
		return decimal.Zero, err
	}
	ratio := decimal.NewFromInt(int64(fromPeriods)).Div(decimal.NewFromInt(int64(toPeriods)))
	return rate.Mul(ratio).Round(4), nil
}

func checkBalanceAndRate(balance, annualRatePercent decimal.Decimal) error {
	if balance.IsNegative() {
		return customError.WrapInvalidArgument(fmt.Sprintf("balance must not be negative, got %s", balance))
	}
	if annualRatePercent.IsNegative() {
		return customError.WrapInvalidArgument(fmt.Sprintf("rate must not be negative, got %s", annualRatePercent))
	}
	return nil
}
