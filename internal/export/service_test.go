package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type listerFunc func(ctx context.Context, userID int64, filter analytics.Filter) ([]*transaction.Transaction, error)

func (f listerFunc) List(ctx context.Context, userID int64, filter analytics.Filter) ([]*transaction.Transaction, error) {
	return f(ctx, userID, filter)
}

func sample() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			ID:         2,
			Type:       finance.TypeIncome,
			Label:      "Salary",
			Category:   "Income",
			Amount:     decimal.NewFromInt(2500),
			OccurredAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         1,
			Type:       finance.TypeExpense,
			Label:      "Coffee, large",
			Amount:     decimal.RequireFromString("3.5"),
			OccurredAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestService_Export_OldestFirst(t *testing.T) {
	svc := export.NewService(listerFunc(func(_ context.Context, userID int64, _ analytics.Filter) ([]*transaction.Transaction, error) {
		assert.Equal(t, int64(7), userID)
		return sample(), nil
	}))

	txs, err := svc.Export(context.Background(), 7, analytics.Filter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(1), txs[0].ID)
}

func TestService_Export_Error(t *testing.T) {
	svc := export.NewService(listerFunc(func(context.Context, int64, analytics.Filter) ([]*transaction.Transaction, error) {
		return nil, errors.New("db down")
	}))

	_, err := svc.Export(context.Background(), 7, analytics.Filter{})
	assert.Error(t, err)
}

func TestService_WriteCSV(t *testing.T) {
	var buf bytes.Buffer

	svc := export.NewService(nil)
	require.NoError(t, svc.WriteCSV(&buf, sample()))

	want := "id,date,type,label,category,amount\n" +
		"2,2024-02-01,income,Salary,Income,2500.00\n" +
		"1,2024-01-31,expense,\"Coffee, large\",,-3.50\n"
	assert.Equal(t, want, buf.String())
}

func TestService_Summary(t *testing.T) {
	got := export.NewService(nil).Summary(sample())

	want := "* 2024-02-01 | Salary | 2500.00 | Income\n" +
		"* 2024-01-31 | Coffee, large | -3.50 | Uncategorized\n"
	assert.Equal(t, want, got)
}

func TestService_DatesAreUTC(t *testing.T) {
	// 23:30 in New York is 03:30 UTC the next day.
	ny := time.FixedZone("EDT", -4*60*60)
	txs := []*transaction.Transaction{{
		ID:         3,
		Type:       finance.TypeExpense,
		Label:      "Late dinner",
		Category:   "Food",
		Amount:     decimal.NewFromInt(40),
		OccurredAt: time.Date(2024, 6, 10, 23, 30, 0, 0, ny),
	}}

	svc := export.NewService(nil)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, txs))
	assert.Contains(t, buf.String(), "3,2024-06-11,expense,Late dinner,Food,-40.00\n")

	assert.Equal(t, "* 2024-06-11 | Late dinner | -40.00 | Food\n", svc.Summary(txs))
}

func TestService_WriteArchive(t *testing.T) {
	var buf bytes.Buffer

	svc := export.NewService(nil)
	require.NoError(t, svc.WriteArchive(&buf, sample()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, "transactions.csv", zr.File[0].Name)
	assert.Equal(t, "summary.txt", zr.File[1].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Salary")
}
