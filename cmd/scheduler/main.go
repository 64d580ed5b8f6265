package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/loanworks/loan-engine/internal/calc"
	"github.com/loanworks/loan-engine/internal/config"
	"github.com/loanworks/loan-engine/internal/repository"
)

// The scheduler runs the daily accrual job: for every active loan it computes
// the day's interest at the loan's annual rate and stores a snapshot in redis
// for dashboards and reporting.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	_, err = c.AddFunc(cfg.Scheduler.AccrualSpec, func() {
		snapshotAccruals(loanRepo, redisClient, cfg, logger)
	})
	if err != nil {
		logger.Fatalf("Failed to schedule accrual job: %v", err)
	}

	c.Start()
	logger.Info("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("Scheduler stopped")
}

type accrualSnapshot struct {
	LoanID        string    `json:"loan_id"`
	Balance       string    `json:"balance"`
	DailyInterest string    `json:"daily_interest"`
	ComputedAt    time.Time `json:"computed_at"`
}

func snapshotAccruals(loanRepo repository.LoanRepository, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	loans, err := loanRepo.ListActive(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to list active loans for accrual")
		return
	}

	for _, loan := range loans {
		daily, err := calc.DailyInterest(loan.CurrentBalance, loan.AnnualRate)
		if err != nil {
			logger.WithError(err).WithField("loan_id", loan.LoanID).Warn("accrual calculation failed")
			continue
		}

		payload, err := json.Marshal(accrualSnapshot{
			LoanID:        loan.LoanID,
			Balance:       loan.CurrentBalance.String(),
			DailyInterest: daily.String(),
			ComputedAt:    time.Now(),
		})
		if err != nil {
			continue
		}

		key := "accrual:" + loan.LoanID
		if err := redisClient.Set(ctx, key, payload, cfg.GetAccrualTTL()).Err(); err != nil {
			logger.WithError(err).WithField("loan_id", loan.LoanID).Warn("failed to store accrual snapshot")
		}
	}

	logger.WithField("loans", len(loans)).Info("accrual snapshots stored")
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.Driver == "sqlite" {
		return repository.OpenSQLite(cfg.Database.SQLitePath)
	}
	return repository.OpenPostgres(
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.GetConnMaxLifetime(),
	)
}
