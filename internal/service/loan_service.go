package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loanworks/loan-engine/internal/calc"
	"github.com/loanworks/loan-engine/internal/config"
	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/engine"
	"github.com/loanworks/loan-engine/internal/repository"
	customError "github.com/loanworks/loan-engine/pkg/errors"
)

// LoanService creates loans, generates their schedules and answers schedule
// and balance queries. Mutating events live in EventService.
type LoanService struct {
	loanRepo     repository.LoanRepository
	scheduleRepo repository.ScheduleRepository
	redis        *redis.Client
	logger       *logrus.Logger
	config       *config.Config
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	scheduleRepo repository.ScheduleRepository,
	redisClient *redis.Client,
	logger *logrus.Logger,
	cfg *config.Config,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		redis:        redisClient,
		logger:       logger,
		config:       cfg,
	}
}

// CreateLoan derives the fixed periodic payment for the requested terms,
// generates the full amortization schedule and persists both.
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.ScheduleRow, error) {
	if request.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, nil, customError.WrapInvalidArgument(fmt.Sprintf("principal must be positive, got %s", request.Principal))
	}
	if request.AnnualRate.IsNegative() {
		return nil, nil, customError.WrapInvalidArgument("annual rate must not be negative")
	}

	existingLoan, err := s.loanRepo.GetByLoanID(ctx, request.LoanID)
	if err == nil && existingLoan != nil {
		return nil, nil, customError.WrapLoanAlreadyExists(request.LoanID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	startDate := time.Now().Truncate(24 * time.Hour)
	if request.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", request.StartDate)
		if err != nil {
			return nil, nil, customError.WrapInvalidArgument("start_date must be YYYY-MM-DD")
		}
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:                   uuid.New(),
		LoanID:               request.LoanID,
		Principal:            request.Principal,
		CurrentBalance:       request.Principal,
		AnnualRate:           request.AnnualRate,
		TermPeriods:          request.TermPeriods,
		CurrentPeriod:        1,
		Frequency:            request.Frequency,
		CustomPeriodsPerYear: request.CustomPeriodsPerYear,
		Status:               domain.LoanStatusActive,
		StartDate:            startDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	periodsPerYear, err := calc.LoanPeriodsPerYear(loan)
	if err != nil {
		return nil, nil, err
	}
	periodicRate := calc.PeriodicRate(loan.AnnualRate, periodsPerYear)

	loan.PeriodicPayment, err = calc.FixedPayment(loan.Principal, loan.AnnualRate, periodicRate, loan.TermPeriods)
	if err != nil {
		return nil, nil, err
	}

	schedule, err := engine.GenerateSchedule(loan)
	if err != nil {
		return nil, nil, err
	}
	for _, row := range schedule {
		row.CreatedAt = now
	}

	if err = s.loanRepo.Create(ctx, loan); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	if err = s.scheduleRepo.InsertRows(ctx, schedule); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.cacheSchedule(ctx, loan.LoanID, schedule)

	s.logger.WithFields(logrus.Fields{
		"loan_id":          loan.LoanID,
		"principal":        loan.Principal,
		"term_periods":     loan.TermPeriods,
		"periodic_payment": loan.PeriodicPayment,
	}).Info("loan created")

	return loan, schedule, nil
}

// GetLoan returns the loan aggregate.
func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// GetSchedule returns the loan's schedule, read through the redis cache.
func (s *LoanService) GetSchedule(ctx context.Context, loanID string) ([]*domain.ScheduleRow, error) {
	if cached := s.cachedSchedule(ctx, loanID); cached != nil {
		return cached, nil
	}

	// Existence check so a missing loan surfaces as not-found rather than an
	// empty schedule.
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheSchedule(ctx, loanID, schedule)
	return schedule, nil
}

// GetOutstanding summarizes the remaining obligations of a loan from its
// current balance and the schedule rows not yet reached.
func (s *LoanService) GetOutstanding(ctx context.Context, loanID string) (*domain.OutstandingResponse, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.GetSchedule(ctx, loanID)
	if err != nil {
		return nil, err
	}

	resp := &domain.OutstandingResponse{
		LoanID:         loan.LoanID,
		CurrentBalance: loan.CurrentBalance,
	}
	for _, row := range schedule {
		if row.PeriodNumber < loan.CurrentPeriod {
			continue
		}
		resp.RemainingPrincipal = resp.RemainingPrincipal.Add(row.PrincipalPortion)
		resp.RemainingInterest = resp.RemainingInterest.Add(row.InterestPortion)
		resp.RemainingTotal = resp.RemainingTotal.Add(row.PaymentAmount)
		resp.RemainingPeriods++
	}

	return resp, nil
}

func scheduleCacheKey(loanID string) string {
	return "schedule:" + loanID
}

// cacheSchedule stores the schedule in redis. Cache failures are logged and
// swallowed; the database stays authoritative.
func (s *LoanService) cacheSchedule(ctx context.Context, loanID string, schedule []*domain.ScheduleRow) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(schedule)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, scheduleCacheKey(loanID), payload, s.config.GetScheduleCacheTTL()).Err(); err != nil {
		s.logger.WithError(err).WithField("loan_id", loanID).Warn("failed to cache schedule")
	}
}

func (s *LoanService) cachedSchedule(ctx context.Context, loanID string) []*domain.ScheduleRow {
	if s.redis == nil {
		return nil
	}
	payload, err := s.redis.Get(ctx, scheduleCacheKey(loanID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).WithField("loan_id", loanID).Warn("schedule cache read failed")
		}
		return nil
	}
	var schedule []*domain.ScheduleRow
	if err := json.Unmarshal(payload, &schedule); err != nil {
		return nil
	}
	return schedule
}

func (s *LoanService) invalidateSchedule(ctx context.Context, loanID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, scheduleCacheKey(loanID)).Err(); err != nil {
		s.logger.WithError(err).WithField("loan_id", loanID).Warn("failed to invalidate schedule cache")
	}
}
