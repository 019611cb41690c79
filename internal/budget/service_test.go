package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/budget"
)

func TestService_AddExpense(t *testing.T) {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	type args struct {
		params budget.ExpenseParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *budget.MockRepository)
		wantErr   error
		verify    func(t *testing.T, e *budget.Expense)
	}

	tests := []testCase{
		{
			name: "DefaultsCategory",
			args: args{params: budget.ExpenseParams{Label: " Lunch ", Amount: decimal.RequireFromString("12.5"), Date: &date}},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *budget.Expense) error {
					e.ID = 7
					return nil
				})
			},
			verify: func(t *testing.T, e *budget.Expense) {
				assert.Equal(t, int64(7), e.ID)
				assert.Equal(t, "Lunch", e.Label)
				assert.Equal(t, "General", e.Category)
				assert.Equal(t, date, e.CreatedAt)
			},
		},
		{
			name: "KeepsCategory",
			args: args{params: budget.ExpenseParams{Label: "Bus", Category: "Transport", Amount: decimal.NewFromInt(3)}},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, e *budget.Expense) {
				assert.Equal(t, "Transport", e.Category)
				assert.False(t, e.CreatedAt.IsZero())
			},
		},
		{
			name:    "MissingLabel",
			args:    args{params: budget.ExpenseParams{Amount: decimal.NewFromInt(3)}},
			wantErr: budget.ErrInvalidPayload,
		},
		{
			name:    "ZeroAmount",
			args:    args{params: budget.ExpenseParams{Label: "Free"}},
			wantErr: budget.ErrInvalidPayload,
		},
		{
			name: "AmountRoundedToCents",
			args: args{params: budget.ExpenseParams{Label: "Fuel", Amount: decimal.RequireFromString("40.005")}},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, e *budget.Expense) {
				assert.True(t, decimal.RequireFromString("40.01").Equal(e.Amount), e.Amount.String())
			},
		},
		{
			name:    "AmountRoundsToZero",
			args:    args{params: budget.ExpenseParams{Label: "Dust", Amount: decimal.RequireFromString("0.004")}},
			wantErr: budget.ErrInvalidPayload,
		},
		{
			name:    "AmountTooLarge",
			args:    args{params: budget.ExpenseParams{Label: "Yacht", Amount: decimal.RequireFromString("12345678901")}},
			wantErr: budget.ErrInvalidPayload,
		},
		{
			name:    "NegativeAmount",
			args:    args{params: budget.ExpenseParams{Label: "Refund", Amount: decimal.NewFromInt(-4)}},
			wantErr: budget.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := budget.NewService(repo, nil).AddExpense(context.Background(), 1, tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.verify(t, got)
		})
	}
}

func TestService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().LatestBudget(gomock.Any(), int64(1)).Return(decimal.NewFromInt(100), nil)
	repo.EXPECT().ListExpenses(gomock.Any(), int64(1)).Return([]*budget.Expense{
		{Label: "Rent", Category: "Housing", Amount: decimal.NewFromInt(80)},
		{Label: "Pizza", Category: "Food", Amount: decimal.NewFromInt(30)},
		{Label: "Salad", Category: "Food", Amount: decimal.NewFromInt(10)},
	}, nil)

	got, err := budget.NewService(repo, nil).Overview(context.Background(), 1, analytics.Filter{})
	require.NoError(t, err)

	assert.Equal(t, "100", got.Total.String())
	assert.Equal(t, "120", got.Spent.String())
	assert.True(t, got.Remaining.IsZero())
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "Housing", got.Categories[0].Category)
	assert.Equal(t, "40", got.Categories[1].Total.String())
}

func TestService_Overview_Filtered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().LatestBudget(gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(100), nil)
	repo.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return([]*budget.Expense{
		{Label: "Rent", Category: "Housing", Amount: decimal.NewFromInt(80)},
		{Label: "Pizza", Category: "Food", Amount: decimal.NewFromInt(15)},
	}, nil)

	food := "Food"

	got, err := budget.NewService(repo, nil).Overview(context.Background(), 1, analytics.Filter{Category: &food})
	require.NoError(t, err)
	assert.Equal(t, "15", got.Spent.String())
	assert.Equal(t, "85", got.Remaining.String())
}

func TestService_Series(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	day := func(s string) time.Time {
		d, err := time.Parse(time.DateOnly, s)
		require.NoError(t, err)

		return d
	}

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().ListExpenses(gomock.Any(), int64(1)).Return([]*budget.Expense{
		{Label: "Rent", Category: "Housing", Amount: decimal.NewFromInt(800), CreatedAt: day("2024-01-01")},
		{Label: "Pizza", Category: "Food", Amount: decimal.NewFromInt(30), CreatedAt: day("2024-01-15")},
		{Label: "Salad", Category: "Food", Amount: decimal.NewFromInt(10), CreatedAt: day("2024-02-03")},
		{Label: "Bus", Category: "Transport", Amount: decimal.NewFromInt(5), CreatedAt: day("2023-12-30")},
	}, nil)

	from := day("2024-01-01")

	got, err := budget.NewService(repo, nil).Series(context.Background(), 1, analytics.Filter{From: &from}, analytics.GranularityMonth, 1)
	require.NoError(t, err)

	assert.Equal(t, analytics.GranularityMonth, got.Granularity)
	assert.Equal(t, []string{"Housing"}, got.TopCategories)
	require.Len(t, got.Buckets, 2)
	assert.Equal(t, "2024-01", got.Buckets[0].Key)
	assert.Equal(t, "830", got.Buckets[0].Spent.String())
	assert.Equal(t, 2, got.Buckets[0].Count)
	assert.Equal(t, "800", got.Buckets[0].Categories["Housing"].String())
	assert.Equal(t, "2024-02", got.Buckets[1].Key)
	assert.Equal(t, "0", got.Buckets[1].Categories["Housing"].String())
}

func TestService_Series_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().ListExpenses(gomock.Any(), int64(1)).Return(nil, errors.New("db down"))

	_, err := budget.NewService(repo, nil).Series(context.Background(), 1, analytics.Filter{}, analytics.GranularityDay, 0)
	assert.Error(t, err)
}

func TestService_Snapshot_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().LatestBudget(gomock.Any(), gomock.Any()).Return(decimal.Zero, errors.New("db down"))
	repo.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := budget.NewService(repo, nil).Snapshot(context.Background(), 1)
	assert.Error(t, err)
}

func TestService_Insight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	adv := budget.NewMockAdvisor(ctrl)

	repo.EXPECT().LatestBudget(gomock.Any(), int64(2)).Return(decimal.NewFromInt(200), nil)
	repo.EXPECT().ListExpenses(gomock.Any(), int64(2)).Return([]*budget.Expense{
		{Label: "Pizza", Category: "Food", Amount: decimal.NewFromInt(50)},
	}, nil)
	adv.EXPECT().
		Suggest(gomock.Any(), decimal.NewFromInt(200), gomock.Len(1)).
		Return("Keep going.")

	got := budget.NewService(repo, adv).Insight(context.Background(), 2)

	assert.Equal(t, "Keep going.", got.Text)
	assert.Equal(t, "50", got.Spent.String())
}

func TestService_Insight_StoreFailureStillAdvises(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	adv := budget.NewMockAdvisor(ctrl)

	repo.EXPECT().LatestBudget(gomock.Any(), gomock.Any()).Return(decimal.Zero, errors.New("db down")).AnyTimes()
	repo.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down")).AnyTimes()
	adv.EXPECT().Suggest(gomock.Any(), gomock.Any(), gomock.Len(0)).Return("Set a budget first.")

	got := budget.NewService(repo, adv).Insight(context.Background(), 2)

	assert.Equal(t, "Set a budget first.", got.Text)
	assert.True(t, got.Total.IsZero())
}

func TestService_DeleteExpense(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().DeleteExpense(gomock.Any(), int64(1), int64(3)).Return(nil)

	svc := budget.NewService(repo, nil)

	require.NoError(t, svc.DeleteExpense(context.Background(), 1, 3))
	assert.ErrorIs(t, svc.DeleteExpense(context.Background(), 1, 0), budget.ErrInvalidID)
}
