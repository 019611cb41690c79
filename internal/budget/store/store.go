package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AppendBudget(ctx context.Context, userID int64, total decimal.Decimal) error {
	query := `INSERT INTO user_budgets (user_id, total_budget, created_at) VALUES ($1, $2, NOW())`

	if _, err := s.db.ExecContext(ctx, query, userID, total); err != nil {
		return fmt.Errorf("inserting budget: %w", err)
	}

	return nil
}

// LatestBudget returns the most recently set total, or zero when the user
// never set one.
func (s *Store) LatestBudget(ctx context.Context, userID int64) (decimal.Decimal, error) {
	query := `
		SELECT total_budget
		FROM user_budgets
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1
	`

	var total decimal.Decimal

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}

		return decimal.Zero, fmt.Errorf("selecting budget: %w", err)
	}

	return total, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *budget.Expense) error {
	query := `
		INSERT INTO user_expenses (user_id, label, category, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, e.UserID, e.Label, e.Category, e.Amount, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}

	return nil
}

func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]*budget.Expense, error) {
	query := `
		SELECT id, user_id, label, category, amount, created_at
		FROM user_expenses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("selecting expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*budget.Expense

	for rows.Next() {
		var e budget.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Label, &e.Category, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM user_expenses WHERE id = $1 AND user_id = $2`

	if _, err := s.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return nil
}
