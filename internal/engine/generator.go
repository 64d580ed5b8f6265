// Package engine generates amortization schedules. It is purely computational:
// every function is a deterministic mapping from loan parameters to schedule
// rows, with persistence left to the service layer.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-engine/internal/calc"
	"github.com/loanworks/loan-engine/internal/domain"
	customError "github.com/loanworks/loan-engine/pkg/errors"
)

// Balances within epsilon of zero terminate the schedule.
var epsilon = decimal.New(1, -2)

// MaxSchedulePeriods caps generation against runaway schedules when a payment
// barely covers interest.
const MaxSchedulePeriods = 3600

// GenerateSchedule produces the full amortization schedule for a loan from
// period 1, using the loan's periodic payment. Generation exits early once the
// balance reaches zero, and the final period absorbs any residual so the
// terminal balance is exactly zero.
func GenerateSchedule(loan *domain.Loan) ([]*domain.ScheduleRow, error) {
	if loan.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidArgument("principal must be positive")
	}
	if loan.TermPeriods <= 0 {
		return nil, customError.WrapInvalidArgument("term must be positive")
	}

	periodsPerYear, err := calc.LoanPeriodsPerYear(loan)
	if err != nil {
		return nil, err
	}
	rate := calc.PeriodicRate(loan.AnnualRate, periodsPerYear)

	return amortize(tailParams{
		loanID:      loan.LoanID,
		balance:     loan.Principal,
		rate:        rate,
		payment:     loan.PeriodicPayment,
		startPeriod: 1,
		endPeriod:   loan.TermPeriods,
		rowType:     domain.RowTypeScheduled,
		loan:        loan,
	}), nil
}

// RecalculateTail regenerates the schedule rows for periods
// startPeriod..endPeriod after a mutating event, starting from the given
// balance and payment. Rows are tagged recalculated; both event handlers share
// this path so their tails cannot diverge.
func RecalculateTail(loan *domain.Loan, balance, payment decimal.Decimal, startPeriod, endPeriod int) ([]*domain.ScheduleRow, error) {
	if startPeriod <= 0 || endPeriod < startPeriod {
		return nil, customError.WrapInvalidArgument("invalid recalculation period range")
	}

	periodsPerYear, err := calc.LoanPeriodsPerYear(loan)
	if err != nil {
		return nil, err
	}
	rate := calc.PeriodicRate(loan.AnnualRate, periodsPerYear)

	return amortize(tailParams{
		loanID:      loan.LoanID,
		balance:     balance,
		rate:        rate,
		payment:     payment,
		startPeriod: startPeriod,
		endPeriod:   endPeriod,
		rowType:     domain.RowTypeRecalculated,
		loan:        loan,
	}), nil
}

type tailParams struct {
	loanID      string
	balance     decimal.Decimal
	rate        decimal.Decimal
	payment     decimal.Decimal
	startPeriod int
	endPeriod   int
	rowType     string
	loan        *domain.Loan
}

func amortize(p tailParams) []*domain.ScheduleRow {
	endPeriod := p.endPeriod
	if endPeriod > p.startPeriod+MaxSchedulePeriods {
		endPeriod = p.startPeriod + MaxSchedulePeriods
	}

	rows := make([]*domain.ScheduleRow, 0, endPeriod-p.startPeriod+1)
	balance := p.balance

	for period := p.startPeriod; period <= endPeriod; period++ {
		if balance.LessThanOrEqual(epsilon) {
			break
		}

		interest := calc.PeriodicInterestAtRate(balance, p.rate)
		principal := p.payment.Sub(interest)
		if principal.IsNegative() {
			// Payment smaller than accrued interest would amortize
			// negatively; absorb the whole balance instead.
			principal = balance
		}

		if period == endPeriod || balance.LessThan(p.payment) || principal.GreaterThanOrEqual(balance) {
			// Final period: the remaining balance becomes the principal
			// portion, leaving the terminal balance at exactly zero.
			principal = balance
			balance = decimal.Zero
		} else {
			balance = balance.Sub(principal)
		}

		rows = append(rows, &domain.ScheduleRow{
			ID:               uuid.New(),
			LoanID:           p.loanID,
			PeriodNumber:     period,
			PaymentDate:      PaymentDate(p.loan, period),
			PaymentAmount:    principal.Add(interest).Round(2),
			PrincipalPortion: principal.Round(2),
			InterestPortion:  interest,
			EndingBalance:    balance,
			RowType:          p.rowType,
		})
	}

	return rows
}

// PaymentDate returns the due date of a period, stepped from the loan start
// date by the loan's cadence. Custom-frequency loans are spaced evenly across
// a 365-day year.
func PaymentDate(loan *domain.Loan, period int) time.Time {
	switch loan.Frequency {
	case domain.FrequencyMonthly:
		return loan.StartDate.AddDate(0, period, 0)
	case domain.FrequencyBiweekly:
		return loan.StartDate.AddDate(0, 0, 14*period)
	case domain.FrequencyWeekly:
		return loan.StartDate.AddDate(0, 0, 7*period)
	case domain.FrequencyDaily:
		return loan.StartDate.AddDate(0, 0, period)
	case domain.FrequencyAnnual:
		return loan.StartDate.AddDate(period, 0, 0)
	case domain.FrequencySemiAnnual:
		return loan.StartDate.AddDate(0, 6*period, 0)
	default:
		days := 365
		if loan.CustomPeriodsPerYear > 0 {
			days = 365 / loan.CustomPeriodsPerYear
		}
		return loan.StartDate.AddDate(0, 0, days*period)
	}
}
