package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/budget/memory"
)

func TestStore_LatestBudget(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	total, err := s.LatestBudget(ctx, 1)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	require.NoError(t, s.AppendBudget(ctx, 1, decimal.NewFromInt(1000)))
	require.NoError(t, s.AppendBudget(ctx, 1, decimal.NewFromInt(1500)))
	require.NoError(t, s.AppendBudget(ctx, 2, decimal.NewFromInt(10)))

	total, err = s.LatestBudget(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1500", total.String())
}

func TestStore_Expenses(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	older := &budget.Expense{UserID: 1, Label: "Coffee", Amount: decimal.NewFromInt(4), CreatedAt: day}
	newer := &budget.Expense{UserID: 1, Label: "Rent", Amount: decimal.NewFromInt(900), CreatedAt: day.AddDate(0, 0, 1)}
	other := &budget.Expense{UserID: 2, Label: "Taxi", Amount: decimal.NewFromInt(20), CreatedAt: day}

	for _, e := range []*budget.Expense{older, newer, other} {
		require.NoError(t, s.CreateExpense(ctx, e))
	}

	assert.Equal(t, int64(1), older.ID)
	assert.Equal(t, int64(3), other.ID)

	got, err := s.ListExpenses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rent", got[0].Label)
	assert.Equal(t, "Coffee", got[1].Label)

	// Another user's expense is left alone.
	require.NoError(t, s.DeleteExpense(ctx, 1, other.ID))
	// Missing ids are not an error.
	require.NoError(t, s.DeleteExpense(ctx, 1, 99))
	require.NoError(t, s.DeleteExpense(ctx, 1, older.ID))

	got, err = s.ListExpenses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = s.ListExpenses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
