package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RowTypeScheduled    = "scheduled"
	RowTypeExtraPayment = "extra_payment"
	RowTypeSkipPayment  = "skip_payment"
	RowTypeRecalculated = "recalculated"
)

// ScheduleRow is one period of an amortization schedule. Rows are immutable
// once written; recalculation replaces a period range rather than editing rows
// in place.
type ScheduleRow struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	LoanID           string          `json:"loan_id" db:"loan_id"`
	PeriodNumber     int             `json:"period_number" db:"period_number"`
	PaymentDate      time.Time       `json:"payment_date" db:"payment_date"`
	PaymentAmount    decimal.Decimal `json:"payment_amount" db:"payment_amount"`
	PrincipalPortion decimal.Decimal `json:"principal_portion" db:"principal_portion"`
	InterestPortion  decimal.Decimal `json:"interest_portion" db:"interest_portion"`
	EndingBalance    decimal.Decimal `json:"ending_balance" db:"ending_balance"`
	RowType          string          `json:"row_type" db:"row_type"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

type ScheduleResponse struct {
	LoanID   string         `json:"loan_id"`
	Schedule []*ScheduleRow `json:"schedule"`
}
