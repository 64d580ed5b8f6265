package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypeExtraPayment = "extra_payment"
	EventTypeSkipPayment  = "skip_payment"
)

// LoanEvent is a request to mutate a loan's schedule. It is not persisted by
// the engine; handlers validate it, mutate the loan and append schedule rows.
type LoanEvent struct {
	LoanID string          `json:"loan_id" validate:"required"`
	Type   string          `json:"type" validate:"required,oneof=extra_payment skip_payment"`
	Date   string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount decimal.Decimal `json:"amount,omitempty"`
	Notes  string          `json:"notes,omitempty"`
}

// ParseDate returns the event date, or the zero time when absent.
func (e *LoanEvent) ParseDate() (time.Time, error) {
	if e.Date == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", e.Date)
}

// ExtraPaymentResult summarizes the effect of a one-time extra principal
// payment. InterestSavings is the simplified rate-times-periods estimate, not
// an exact present-value difference.
type ExtraPaymentResult struct {
	LoanID          string          `json:"loan_id"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	OriginalBalance decimal.Decimal `json:"original_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	InterestSavings decimal.Decimal `json:"interest_savings"`
	OriginalTerm    int             `json:"original_term"`
	NewTerm         int             `json:"new_term"`
	OriginalPayment decimal.Decimal `json:"original_payment"`
	NewPayment      decimal.Decimal `json:"new_payment"`
	PeriodsSaved    int             `json:"periods_saved"`
}

// SkipPaymentResult summarizes a skipped payment: the missed interest is
// capitalized into the balance and the term extends by one period.
type SkipPaymentResult struct {
	LoanID          string          `json:"loan_id"`
	OriginalBalance decimal.Decimal `json:"original_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	OriginalTerm    int             `json:"original_term"`
	NewTerm         int             `json:"new_term"`
	NewPayment      decimal.Decimal `json:"new_payment"`
	SkipDate        string          `json:"skip_date"`
}
