package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/loanworks/loan-engine/internal/domain"
)

// MemoryStore is an in-memory implementation of both repositories, used in
// tests and ephemeral deployments. It mirrors the SQL adapters' contracts,
// including sql.ErrNoRows for missing loans.
type MemoryStore struct {
	mu    sync.RWMutex
	loans map[string]domain.Loan
	rows  map[string][]domain.ScheduleRow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		loans: make(map[string]domain.Loan),
		rows:  make(map[string][]domain.ScheduleRow),
	}
}

func (s *MemoryStore) Create(ctx context.Context, loan *domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[loan.LoanID] = *loan
	return nil
}

func (s *MemoryStore) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loan, ok := s.loans[loanID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &loan, nil
}

func (s *MemoryStore) Update(ctx context.Context, loan *domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[loan.LoanID]; !ok {
		return sql.ErrNoRows
	}
	s.loans[loan.LoanID] = *loan
	return nil
}

func (s *MemoryStore) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []*domain.Loan
	for _, loan := range s.loans {
		if loan.Status == domain.LoanStatusActive {
			l := loan
			active = append(active, &l)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].LoanID < active[j].LoanID })
	return active, nil
}

func (s *MemoryStore) InsertRows(ctx context.Context, rows []*domain.ScheduleRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendRows(rows)
	return nil
}

func (s *MemoryStore) GetByLoanIDSchedule(ctx context.Context, loanID string) ([]*domain.ScheduleRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.rows[loanID]
	out := make([]*domain.ScheduleRow, len(stored))
	for i := range stored {
		row := stored[i]
		out[i] = &row
	}
	return out, nil
}

func (s *MemoryStore) ReplaceFromPeriod(ctx context.Context, loanID string, fromPeriod int, rows []*domain.ScheduleRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[loanID][:0]
	for _, row := range s.rows[loanID] {
		if row.PeriodNumber < fromPeriod {
			kept = append(kept, row)
		}
	}
	s.rows[loanID] = kept
	s.appendRows(rows)
	return nil
}

func (s *MemoryStore) appendRows(rows []*domain.ScheduleRow) {
	for _, row := range rows {
		s.rows[row.LoanID] = append(s.rows[row.LoanID], *row)
	}
	for loanID := range s.rows {
		stored := s.rows[loanID]
		sort.Slice(stored, func(i, j int) bool { return stored[i].PeriodNumber < stored[j].PeriodNumber })
	}
}

// ScheduleStore adapts a MemoryStore to the ScheduleRepository interface; the
// schedule GetByLoanID would otherwise collide with the loan method.
type ScheduleStore struct {
	*MemoryStore
}

func (s ScheduleStore) GetByLoanID(ctx context.Context, loanID string) ([]*domain.ScheduleRow, error) {
	return s.MemoryStore.GetByLoanIDSchedule(ctx, loanID)
}
