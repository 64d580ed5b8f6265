package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// Frequency names the payment cadence of a loan.
type Frequency string

const (
	FrequencyMonthly    Frequency = "monthly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyDaily      Frequency = "daily"
	FrequencyAnnual     Frequency = "annual"
	FrequencySemiAnnual Frequency = "semi_annual"
	FrequencyCustom     Frequency = "custom"
)

// Loan represents an installment loan aggregate. CurrentBalance, TermPeriods,
// CurrentPeriod and PeriodicPayment are mutated by schedule events; the
// remaining fields are fixed at origination.
type Loan struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	LoanID               string          `json:"loan_id" db:"loan_id"`
	Principal            decimal.Decimal `json:"principal" db:"principal"`
	CurrentBalance       decimal.Decimal `json:"current_balance" db:"current_balance"`
	AnnualRate           decimal.Decimal `json:"annual_rate" db:"annual_rate"`
	TermPeriods          int             `json:"term_periods" db:"term_periods"`
	CurrentPeriod        int             `json:"current_period" db:"current_period"`
	Frequency            Frequency       `json:"frequency" db:"frequency"`
	CustomPeriodsPerYear int             `json:"custom_periods_per_year,omitempty" db:"custom_periods_per_year"`
	PeriodicPayment      decimal.Decimal `json:"periodic_payment" db:"periodic_payment"`
	Status               string          `json:"status" db:"status"`
	StartDate            time.Time       `json:"start_date" db:"start_date"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// RemainingPeriods returns the number of payment periods still ahead of the
// loan, counting the current one.
func (l *Loan) RemainingPeriods() int {
	remaining := l.TermPeriods - (l.CurrentPeriod - 1)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	LoanID               string          `json:"loan_id" validate:"required"`
	Principal            decimal.Decimal `json:"principal" validate:"required"`
	AnnualRate           decimal.Decimal `json:"annual_rate"`
	TermPeriods          int             `json:"term_periods" validate:"required,gt=0"`
	Frequency            Frequency       `json:"frequency" validate:"required"`
	CustomPeriodsPerYear int             `json:"custom_periods_per_year,omitempty" validate:"omitempty,gt=0"`
	StartDate            string          `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CreateLoanResponse struct {
	Loan     *Loan          `json:"loan"`
	Schedule []*ScheduleRow `json:"schedule"`
}

type OutstandingResponse struct {
	LoanID             string          `json:"loan_id"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	RemainingInterest  decimal.Decimal `json:"remaining_interest"`
	RemainingTotal     decimal.Decimal `json:"remaining_total"`
	RemainingPeriods   int             `json:"remaining_periods"`
}
