package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loanworks/loan-engine/internal/calc"
	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/engine"
	customError "github.com/loanworks/loan-engine/pkg/errors"
)

// HandleEvent dispatches a loan event to its handler.
func (s *LoanService) HandleEvent(ctx context.Context, event *domain.LoanEvent) (interface{}, error) {
	switch event.Type {
	case domain.EventTypeExtraPayment:
		return s.HandleExtraPayment(ctx, event)
	case domain.EventTypeSkipPayment:
		return s.HandleSkipPayment(ctx, event)
	default:
		return nil, customError.WrapInvalidEvent(fmt.Sprintf("unknown event type %q", event.Type))
	}
}

// HandleExtraPayment applies a one-time extra principal payment: the balance
// drops by the payment amount, the remaining term is re-derived from the
// annuity formula and the schedule tail is regenerated. Validation happens
// before any state is touched.
func (s *LoanService) HandleExtraPayment(ctx context.Context, event *domain.LoanEvent) (*domain.ExtraPaymentResult, error) {
	if event.LoanID == "" {
		return nil, customError.WrapInvalidEvent("loan_id is required")
	}
	if event.Type != domain.EventTypeExtraPayment {
		return nil, customError.WrapInvalidEvent(fmt.Sprintf("expected type %s, got %q", domain.EventTypeExtraPayment, event.Type))
	}
	if event.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidEvent(fmt.Sprintf("amount must be positive, got %s", event.Amount))
	}

	loan, err := s.GetLoan(ctx, event.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, customError.WrapLoanClosed(loan.LoanID)
	}
	if event.Amount.GreaterThan(loan.CurrentBalance) {
		return nil, customError.WrapExtraPaymentExceedsBalance(event.Amount.String(), loan.CurrentBalance.String())
	}

	periodsPerYear, err := calc.LoanPeriodsPerYear(loan)
	if err != nil {
		return nil, err
	}
	rate := calc.PeriodicRate(loan.AnnualRate, periodsPerYear)

	remainingPeriods := loan.RemainingPeriods()
	// Simplified estimate of avoided interest, not an NPV difference.
	interestSavings := event.Amount.Mul(rate).Mul(decimal.NewFromInt(int64(remainingPeriods))).Round(2)

	result := &domain.ExtraPaymentResult{
		LoanID:          loan.LoanID,
		PaymentAmount:   event.Amount,
		OriginalBalance: loan.CurrentBalance,
		OriginalTerm:    loan.TermPeriods,
		OriginalPayment: loan.PeriodicPayment,
		InterestSavings: interestSavings,
	}

	newBalance := loan.CurrentBalance.Sub(event.Amount)
	newTerm, err := remainingTerm(newBalance, loan.PeriodicPayment, rate)
	if err != nil {
		return nil, err
	}

	newPayment := decimal.Zero
	if newTerm > 0 {
		newPayment, err = calc.FixedPayment(newBalance, loan.AnnualRate, rate, newTerm)
		if err != nil {
			return nil, err
		}
	}

	result.NewBalance = newBalance
	result.NewTerm = newTerm
	result.NewPayment = newPayment
	if saved := result.OriginalTerm - newTerm; saved > 0 {
		result.PeriodsSaved = saved
	}

	loan.CurrentBalance = newBalance
	loan.TermPeriods = newTerm
	loan.PeriodicPayment = newPayment
	if newBalance.IsZero() {
		loan.Status = domain.LoanStatusClosed
	}
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	eventRow := s.newEventRow(loan, event, domain.RowTypeExtraPayment, event.Amount, decimal.Zero, newBalance)
	if err := s.replaceTail(ctx, loan, eventRow, newBalance, newPayment, newTerm); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id":     loan.LoanID,
		"amount":      event.Amount,
		"new_balance": newBalance,
		"new_term":    newTerm,
	}).Info("extra payment applied")

	return result, nil
}

// HandleSkipPayment applies a skipped payment: one period's interest is
// capitalized into the balance, the term extends by one period and the
// payment is re-derived for the larger balance.
func (s *LoanService) HandleSkipPayment(ctx context.Context, event *domain.LoanEvent) (*domain.SkipPaymentResult, error) {
	if event.LoanID == "" {
		return nil, customError.WrapInvalidEvent("loan_id is required")
	}
	if event.Type != domain.EventTypeSkipPayment {
		return nil, customError.WrapInvalidEvent(fmt.Sprintf("expected type %s, got %q", domain.EventTypeSkipPayment, event.Type))
	}
	if event.Date == "" {
		return nil, customError.WrapInvalidEvent("date is required for skip_payment")
	}
	if _, err := event.ParseDate(); err != nil {
		return nil, customError.WrapInvalidEvent("date must be YYYY-MM-DD")
	}

	loan, err := s.GetLoan(ctx, event.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, customError.WrapLoanClosed(loan.LoanID)
	}

	periodsPerYear, err := calc.LoanPeriodsPerYear(loan)
	if err != nil {
		return nil, err
	}
	rate := calc.PeriodicRate(loan.AnnualRate, periodsPerYear)

	accruedInterest := calc.PeriodicInterestAtRate(loan.CurrentBalance, rate)
	newBalance := loan.CurrentBalance.Add(accruedInterest)
	newTerm := loan.TermPeriods + 1

	newPayment, err := calc.FixedPayment(newBalance, loan.AnnualRate, rate, newTerm)
	if err != nil {
		return nil, err
	}

	result := &domain.SkipPaymentResult{
		LoanID:          loan.LoanID,
		OriginalBalance: loan.CurrentBalance,
		NewBalance:      newBalance,
		AccruedInterest: accruedInterest,
		OriginalTerm:    loan.TermPeriods,
		NewTerm:         newTerm,
		NewPayment:      newPayment,
		SkipDate:        event.Date,
	}

	loan.CurrentBalance = newBalance
	loan.TermPeriods = newTerm
	loan.PeriodicPayment = newPayment
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	eventRow := s.newEventRow(loan, event, domain.RowTypeSkipPayment, decimal.Zero, accruedInterest, newBalance)
	if err := s.replaceTail(ctx, loan, eventRow, newBalance, newPayment, newTerm); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id":          loan.LoanID,
		"accrued_interest": accruedInterest,
		"new_balance":      newBalance,
		"new_term":         newTerm,
	}).Info("skipped payment capitalized")

	return result, nil
}

// remainingTerm solves the annuity formula for the number of payments needed
// to retire a balance: ceil(ln(p / (p - r*B)) / ln(1+r)). Zero-rate loans
// degrade to straight division; a retired balance needs no further periods.
func remainingTerm(balance, payment, rate decimal.Decimal) (int, error) {
	if balance.LessThanOrEqual(decimal.Zero) {
		return 0, nil
	}
	if rate.IsZero() {
		return int(balance.Div(payment).Ceil().IntPart()), nil
	}

	denominator := payment.Sub(rate.Mul(balance))
	if denominator.LessThanOrEqual(decimal.Zero) {
		return 0, customError.NewBusinessError(
			customError.ErrCodeInvalidArgument,
			fmt.Sprintf("payment %s does not cover periodic interest on balance %s", payment, balance),
			customError.ErrPaymentBelowPeriodicInterest,
		)
	}

	ratio := payment.Div(denominator).InexactFloat64()
	growth := rate.InexactFloat64()
	return int(math.Ceil(math.Log(ratio) / math.Log(1+growth))), nil
}

// newEventRow builds the marker row an event leaves at the loan's current
// period.
func (s *LoanService) newEventRow(loan *domain.Loan, event *domain.LoanEvent, rowType string, principal, interest, balance decimal.Decimal) *domain.ScheduleRow {
	paymentDate := engine.PaymentDate(loan, loan.CurrentPeriod)
	if eventDate, err := event.ParseDate(); err == nil && !eventDate.IsZero() {
		paymentDate = eventDate
	}

	return &domain.ScheduleRow{
		ID:               uuid.New(),
		LoanID:           loan.LoanID,
		PeriodNumber:     loan.CurrentPeriod,
		PaymentDate:      paymentDate,
		PaymentAmount:    principal.Add(interest),
		PrincipalPortion: principal,
		InterestPortion:  interest,
		EndingBalance:    balance,
		RowType:          rowType,
		CreatedAt:        time.Now(),
	}
}

// replaceTail persists the event marker row and the regenerated tail in one
// replace, leaving exactly one row per period from the current period onward.
func (s *LoanService) replaceTail(ctx context.Context, loan *domain.Loan, eventRow *domain.ScheduleRow, balance, payment decimal.Decimal, newTerm int) error {
	rows := []*domain.ScheduleRow{eventRow}

	if newTerm > loan.CurrentPeriod && balance.GreaterThan(decimal.Zero) {
		tail, err := engine.RecalculateTail(loan, balance, payment, loan.CurrentPeriod+1, newTerm)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, row := range tail {
			row.CreatedAt = now
		}
		rows = append(rows, tail...)
	}

	if err := s.scheduleRepo.ReplaceFromPeriod(ctx, loan.LoanID, loan.CurrentPeriod, rows); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateSchedule(ctx, loan.LoanID)
	return nil
}
