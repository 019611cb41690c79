package transaction_test

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
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newService(repo transaction.Repository, hints transaction.CategoryHinter) *transaction.Service {
	return transaction.NewService(repo, classifier.NewWithClock(func() time.Time { return fixedNow }), hints)
}

func TestService_Create(t *testing.T) {
	date := time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC)

	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   bool
		wantErrIs error
		verify    func(t *testing.T, tx *transaction.Transaction)
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Type:       finance.TypeIncome,
					Label:      "Salary",
					Category:   "Income",
					Amount:     decimal.NewFromInt(3000),
					OccurredAt: &date,
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, int64(9), tx.UserID)
						tx.ID = 1
						return nil
					})
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, int64(1), tx.ID)
				assert.Equal(t, finance.TypeIncome, tx.Type)
				assert.Equal(t, date, tx.OccurredAt)
			},
		},
		{
			name: "Defaults",
			args: args{params: transaction.CreateParams{Label: "Snack", Amount: decimal.NewFromInt(2)}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, finance.TypeExpense, tx.Type)
				assert.Equal(t, "General", tx.Category)
				assert.False(t, tx.OccurredAt.IsZero())
			},
		},
		{
			name:      "MissingLabel",
			args:      args{params: transaction.CreateParams{Amount: decimal.NewFromInt(2)}},
			wantErr:   true,
			wantErrIs: transaction.ErrInvalidPayload,
		},
		{
			name:      "NonPositiveAmount",
			args:      args{params: transaction.CreateParams{Label: "x", Amount: decimal.Zero}},
			wantErr:   true,
			wantErrIs: transaction.ErrInvalidPayload,
		},
		{
			name: "AmountRoundedToCents",
			args: args{params: transaction.CreateParams{Label: "Fuel", Amount: decimal.RequireFromString("12.345")}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "12.35", tx.Amount.StringFixed(2))
				assert.True(t, decimal.RequireFromString("12.35").Equal(tx.Amount))
			},
		},
		{
			name:      "AmountRoundsToZero",
			args:      args{params: transaction.CreateParams{Label: "x", Amount: decimal.RequireFromString("0.004")}},
			wantErr:   true,
			wantErrIs: transaction.ErrInvalidPayload,
		},
		{
			name:      "AmountTooLarge",
			args:      args{params: transaction.CreateParams{Label: "x", Amount: decimal.RequireFromString("10000000000")}},
			wantErr:   true,
			wantErrIs: transaction.ErrInvalidPayload,
		},
		{
			name:      "InvalidType",
			args:      args{params: transaction.CreateParams{Label: "x", Amount: decimal.NewFromInt(1), Type: "transfer"}},
			wantErr:   true,
			wantErrIs: transaction.ErrInvalidType,
		},
		{
			name: "RepoError",
			args: args{params: transaction.CreateParams{Label: "x", Amount: decimal.NewFromInt(5)}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newService(repo, nil).Create(context.Background(), 9, tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}

				return
			}

			require.NoError(t, err)
			tt.verify(t, got)
		})
	}
}

func TestService_List(t *testing.T) {
	food := "Food"
	filter := analytics.Filter{Category: &food}

	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), int64(1), filter).
					Return([]*transaction.Transaction{{ID: 1}, {ID: 2}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), int64(1), filter).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := newService(repo, nil).List(context.Background(), 1, filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update(t *testing.T) {
	stored := func() *transaction.Transaction {
		return &transaction.Transaction{
			ID:       4,
			UserID:   1,
			Type:     finance.TypeExpense,
			Label:    "Lunch",
			Category: "Food",
			Amount:   decimal.NewFromInt(12),
		}
	}

	type testCase struct {
		name      string
		params    transaction.UpdateParams
		setupMock func(m *transaction.MockRepository)
		wantErr   error
		verify    func(t *testing.T, tx *transaction.Transaction)
	}

	tests := []testCase{
		{
			name:   "MergesProvidedFields",
			params: transaction.UpdateParams{Amount: new(decimal.NewFromInt(15)), Category: new("Shopping")},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(1), int64(4)).Return(stored(), nil)
				m.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "Lunch", tx.Label)
				assert.Equal(t, "Shopping", tx.Category)
				assert.Equal(t, "15", tx.Amount.String())
			},
		},
		{
			name:   "EmptyCategoryBecomesGeneral",
			params: transaction.UpdateParams{Category: new("")},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(1), int64(4)).Return(stored(), nil)
				m.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, "General", tx.Category)
						return nil
					})
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "General", tx.Category)
			},
		},
		{
			name:   "AmountRoundedToCents",
			params: transaction.UpdateParams{Amount: new(decimal.RequireFromString("7.125"))},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(1), int64(4)).Return(stored(), nil)
				m.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.True(t, decimal.RequireFromString("7.13").Equal(tx.Amount), tx.Amount.String())
			},
		},
		{
			name:   "AmountRoundsToZero",
			params: transaction.UpdateParams{Amount: new(decimal.RequireFromString("0.001"))},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(1), int64(4)).Return(stored(), nil)
			},
			wantErr: transaction.ErrInvalidPayload,
		},
		{
			name:    "NoFields",
			params:  transaction.UpdateParams{},
			wantErr: transaction.ErrNoFields,
		},
		{
			name:    "InvalidType",
			params:  transaction.UpdateParams{Type: new(finance.Type("gift"))},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name:   "EmptyLabelRejected",
			params: transaction.UpdateParams{Label: new("  ")},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(1), int64(4)).Return(stored(), nil)
			},
			wantErr: transaction.ErrInvalidPayload,
		},
		{
			name:   "NotFound",
			params: transaction.UpdateParams{Label: new("x")},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(1), int64(4)).Return(nil, transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newService(repo, nil).Update(context.Background(), 1, 4, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.verify(t, got)
		})
	}
}

func TestService_Propose(t *testing.T) {
	type testCase struct {
		name      string
		text      string
		setupMock func(h *transaction.MockCategoryHinter)
		wantCat   finance.Category
		wantErr   error
	}

	tests := []testCase{
		{
			name:    "ClassifierCategoryKept",
			text:    "-$12.50 coffee",
			wantCat: finance.CategoryFood,
		},
		{
			name: "HintReplacesGeneral",
			text: "paid 30 netflix",
			setupMock: func(h *transaction.MockCategoryHinter) {
				h.EXPECT().Suggest(gomock.Any(), int64(1), "paid 30 netflix").Return(finance.CategoryShopping, nil)
			},
			wantCat: finance.CategoryShopping,
		},
		{
			name: "HintFailureKeepsGeneral",
			text: "paid 30 netflix",
			setupMock: func(h *transaction.MockCategoryHinter) {
				h.EXPECT().Suggest(gomock.Any(), gomock.Any(), gomock.Any()).Return(finance.Category(""), errors.New("db down"))
			},
			wantCat: finance.CategoryGeneral,
		},
		{
			name:    "Unparseable",
			text:    "went for a walk",
			wantErr: classifier.ErrUnparseable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			hints := transaction.NewMockCategoryHinter(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(hints)
			}

			got, err := newService(transaction.NewMockRepository(ctrl), hints).Propose(context.Background(), 1, tt.text)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCat, got.Category)
		})
	}
}

func TestService_ApplyHints(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hints := transaction.NewMockCategoryHinter(ctrl)
	hints.EXPECT().Suggest(gomock.Any(), int64(1), "NETFLIX.COM").Return(finance.CategoryShopping, nil)
	hints.EXPECT().Suggest(gomock.Any(), int64(1), "ATM 123").Return(finance.Category(""), nil)

	params := []transaction.CreateParams{
		{Label: "NETFLIX.COM", Category: string(finance.CategoryGeneral)},
		{Label: "UBER TRIP", Category: string(finance.CategoryTransport)},
		{Label: "ATM 123", Category: string(finance.CategoryGeneral)},
	}

	newService(transaction.NewMockRepository(ctrl), hints).ApplyHints(context.Background(), 1, params)

	assert.Equal(t, string(finance.CategoryShopping), params[0].Category)
	assert.Equal(t, string(finance.CategoryTransport), params[1].Category)
	assert.Equal(t, string(finance.CategoryGeneral), params[2].Category)
}

func TestService_QuickAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = 3
			return nil
		})

	got, err := newService(repo, nil).QuickAdd(context.Background(), 1, "+200 freelance payment")
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, finance.TypeIncome, got.Type)
	assert.Equal(t, "Income", got.Category)
	assert.Equal(t, "200", got.Amount.String())
	assert.Equal(t, fixedNow, got.OccurredAt)
}

func coffee(date time.Time) transaction.CreateParams {
	return transaction.CreateParams{
		Type:       finance.TypeExpense,
		Label:      "Coffee Shop",
		Category:   "Food",
		Amount:     decimal.RequireFromString("3.50"),
		OccurredAt: &date,
	}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{coffee(date)}

	repo.EXPECT().BeginImport(gomock.Any(), int64(1), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(1)).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := newService(repo, nil).ImportBatch(context.Background(), 1, params)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, int64(1), result.Imported[0].UserID)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	lunch := coffee(date)
	lunch.Label = "Lunch Place"
	lunch.Amount = decimal.NewFromInt(20)

	params := []transaction.CreateParams{coffee(date), lunch}

	existing := &transaction.Transaction{
		ID:         8,
		Type:       finance.TypeExpense,
		Label:      "COFFEE SHOP",
		Amount:     decimal.RequireFromString("3.5"),
		OccurredAt: date.Add(10 * time.Hour),
	}

	repo.EXPECT().BeginImport(gomock.Any(), int64(1), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(2)).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := newService(repo, nil).ImportBatch(context.Background(), 1, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	result, err := newService(transaction.NewMockRepository(ctrl), nil).ImportBatch(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bad := coffee(time.Now())
	bad.Amount = decimal.Zero

	_, err := newService(transaction.NewMockRepository(ctrl), nil).
		ImportBatch(context.Background(), 1, []transaction.CreateParams{bad})
	assert.ErrorIs(t, err, transaction.ErrInvalidPayload)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	later := date.AddDate(0, 0, 3)

	repo.EXPECT().BeginImport(gomock.Any(), int64(1), date, later).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := newService(repo, nil).CreateBatch(context.Background(), 1, []transaction.CreateParams{coffee(later), coffee(date)})
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, "3.5", txs[0].Amount.String())
	assert.Equal(t, finance.TypeExpense, txs[0].Type)
}

func TestService_Views(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	rows := []*transaction.Transaction{
		{Type: finance.TypeIncome, Label: "Salary", Category: "Income", Amount: decimal.NewFromInt(1000), OccurredAt: feb},
		{Type: finance.TypeExpense, Label: "Rent", Category: "Housing", Amount: decimal.NewFromInt(700), OccurredAt: feb},
		{Type: finance.TypeExpense, Label: "Pizza", Category: "Food", Amount: decimal.NewFromInt(400), OccurredAt: jan},
	}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), int64(1), gomock.Any()).Return(rows, nil).Times(4)

	svc := newService(repo, nil)
	ctx := context.Background()

	summary, err := svc.Summary(ctx, 1, analytics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "-100", summary.Savings.String())

	cats, err := svc.Categories(ctx, 1, analytics.Filter{})
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Housing", cats[0].Category)

	trend, err := svc.Trends(ctx, 1, analytics.Filter{})
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-01", trend[0].Month)

	series, err := svc.Series(ctx, 1, analytics.Filter{}, analytics.GranularityMonth, analytics.DefaultTopCategories)
	require.NoError(t, err)
	assert.Len(t, series.Buckets, 2)
}
