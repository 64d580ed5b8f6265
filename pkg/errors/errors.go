package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidArgument              = errors.New("invalid argument")
	ErrUnsupportedFrequency         = errors.New("unsupported payment frequency")
	ErrInvalidDateRange             = errors.New("end date precedes start date")
	ErrLoanNotFound                 = errors.New("loan not found")
	ErrLoanAlreadyExists            = errors.New("loan already exists")
	ErrLoanClosed                   = errors.New("loan is closed")
	ErrExtraPaymentExceedsBalance   = errors.New("extra payment exceeds outstanding balance")
	ErrInvalidEvent                 = errors.New("invalid loan event")
	ErrPaymentBelowPeriodicInterest = errors.New("payment does not cover periodic interest")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidArgument            = "INVALID_ARGUMENT"
	ErrCodeUnsupportedFrequency       = "UNSUPPORTED_FREQUENCY"
	ErrCodeInvalidDateRange           = "INVALID_DATE_RANGE"
	ErrCodeLoanNotFound               = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyExists          = "LOAN_ALREADY_EXISTS"
	ErrCodeLoanClosed                 = "LOAN_CLOSED"
	ErrCodeExtraPaymentExceedsBalance = "EXTRA_PAYMENT_EXCEEDS_BALANCE"
	ErrCodeInvalidEvent               = "INVALID_EVENT"
	ErrCodeDatabaseError              = "DATABASE_ERROR"
	ErrCodeCacheError                 = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapInvalidArgument(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidArgument,
		reason,
		ErrInvalidArgument,
	)
}

func WrapUnsupportedFrequency(frequency string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnsupportedFrequency,
		fmt.Sprintf("Payment frequency %q is not supported", frequency),
		ErrUnsupportedFrequency,
	)
}

func WrapInvalidDateRange(start, end string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDateRange,
		fmt.Sprintf("End date %s precedes start date %s", end, start),
		ErrInvalidDateRange,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyExists(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyExists,
		fmt.Sprintf("Loan with ID %s already exists", loanID),
		ErrLoanAlreadyExists,
	)
}

func WrapLoanClosed(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanClosed,
		fmt.Sprintf("Loan with ID %s is closed", loanID),
		ErrLoanClosed,
	)
}

func WrapExtraPaymentExceedsBalance(amount, balance string) *BusinessError {
	return NewBusinessError(
		ErrCodeExtraPaymentExceedsBalance,
		fmt.Sprintf("Extra payment %s exceeds outstanding balance %s", amount, balance),
		ErrExtraPaymentExceedsBalance,
	)
}

func WrapInvalidEvent(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidEvent,
		reason,
		ErrInvalidEvent,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
