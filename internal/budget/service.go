package budget

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	AppendBudget(ctx context.Context, userID int64, total decimal.Decimal) error
	LatestBudget(ctx context.Context, userID int64) (decimal.Decimal, error)

	CreateExpense(ctx context.Context, e *Expense) error
	ListExpenses(ctx context.Context, userID int64) ([]*Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

type Advisor interface {
	Suggest(ctx context.Context, total decimal.Decimal, expenses []analytics.Record) string
}

type Service struct {
	repo    Repository
	advisor Advisor
	now     func() time.Time
}

func NewService(repo Repository, advisor Advisor) *Service {
	return &Service{repo: repo, advisor: advisor, now: time.Now}
}

// SetBudget records a new total rounded to cents. Older totals are kept as
// history.
func (s *Service) SetBudget(ctx context.Context, userID int64, total decimal.Decimal) error {
	total = total.Round(2)
	if total.Abs().GreaterThan(finance.MaxAmount) {
		return ErrInvalidPayload
	}

	if err := s.repo.AppendBudget(ctx, userID, total); err != nil {
		return fmt.Errorf("appending budget: %w", err)
	}

	return nil
}

func (s *Service) CurrentBudget(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.repo.LatestBudget(ctx, userID)
}

// Snapshot loads the current total and all expenses in parallel.
func (s *Service) Snapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.repo.LatestBudget(gctx, userID)
		if err != nil {
			return fmt.Errorf("loading budget: %w", err)
		}

		snap.Total = total

		return nil
	})

	g.Go(func() error {
		expenses, err := s.repo.ListExpenses(gctx, userID)
		if err != nil {
			return fmt.Errorf("loading expenses: %w", err)
		}

		snap.Expenses = expenses

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snap, nil
}

type ExpenseParams struct {
	Label    string
	Category string
	Amount   decimal.Decimal
	Date     *time.Time
}

func (s *Service) AddExpense(ctx context.Context, userID int64, params ExpenseParams) (*Expense, error) {
	label := strings.TrimSpace(params.Label)
	amount, ok := finance.RoundMoney(params.Amount)

	if label == "" || !ok {
		return nil, ErrInvalidPayload
	}

	e := &Expense{
		UserID:    userID,
		Label:     label,
		Category:  strings.TrimSpace(params.Category),
		Amount:    amount,
		CreatedAt: s.now(),
	}

	if e.Category == "" {
		e.Category = string(finance.CategoryGeneral)
	}

	if params.Date != nil {
		e.CreatedAt = *params.Date
	}

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	return e, nil
}

func (s *Service) ListExpenses(ctx context.Context, userID int64, filter analytics.Filter) ([]*Expense, error) {
	expenses, err := s.repo.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	out := make([]*Expense, 0, len(expenses))

	for _, e := range expenses {
		if filter.Match(e.Record()) {
			out = append(out, e)
		}
	}

	return out, nil
}

// DeleteExpense removes the expense if the user owns it. Deleting a missing
// expense is not an error.
func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	return s.repo.DeleteExpense(ctx, userID, id)
}

// Overview aggregates the current budget against the filtered expenses.
func (s *Service) Overview(ctx context.Context, userID int64, filter analytics.Filter) (analytics.Overview, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return analytics.Overview{}, err
	}

	records := filter.Apply(Records(snap.Expenses))

	return analytics.BuildOverview(snap.Total, records), nil
}

// Series buckets the filtered expenses by day, month or year.
func (s *Service) Series(ctx context.Context, userID int64, filter analytics.Filter, g analytics.Granularity, topN int) (analytics.Series, error) {
	expenses, err := s.ListExpenses(ctx, userID, filter)
	if err != nil {
		return analytics.Series{}, err
	}

	return analytics.BuildSeries(Records(expenses), g, topN), nil
}

// Insight always produces advisory text. When the budget cannot be loaded it
// advises on an empty budget.
func (s *Service) Insight(ctx context.Context, userID int64) *Insight {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		slog.Error("failed to load budget for insight", "user_id", userID, "error", err)

		snap = &Snapshot{Total: decimal.Zero}
	}

	records := Records(snap.Expenses)

	return &Insight{
		Total: snap.Total,
		Spent: analytics.Spent(records),
		Text:  s.advisor.Suggest(ctx, snap.Total, records),
	}
}
