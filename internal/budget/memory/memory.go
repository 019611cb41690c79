package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
)

// Store keeps budget history and expenses for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	budgets  map[int64][]decimal.Decimal
	expenses map[int64]*budget.Expense
}

func New() *Store {
	return &Store{
		budgets:  make(map[int64][]decimal.Decimal),
		expenses: make(map[int64]*budget.Expense),
	}
}

func (s *Store) AppendBudget(_ context.Context, userID int64, total decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budgets[userID] = append(s.budgets[userID], total)

	return nil
}

func (s *Store) LatestBudget(_ context.Context, userID int64) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.budgets[userID]
	if len(history) == 0 {
		return decimal.Zero, nil
	}

	return history[len(history)-1], nil
}

func (s *Store) CreateExpense(_ context.Context, e *budget.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e.ID = s.nextID

	stored := *e
	s.expenses[e.ID] = &stored

	return nil
}

// ListExpenses returns copies ordered newest first.
func (s *Store) ListExpenses(_ context.Context, userID int64) ([]*budget.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*budget.Expense

	for _, e := range s.expenses {
		if e.UserID != userID {
			continue
		}

		c := *e
		out = append(out, &c)
	}

	slices.SortFunc(out, func(a, b *budget.Expense) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.expenses[id]; ok && e.UserID == userID {
		delete(s.expenses, id)
	}

	return nil
}
