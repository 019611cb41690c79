package view

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/export"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "-12.50", FormatAmount(decimal.RequireFromString("12.5"), finance.TypeExpense))
	assert.Equal(t, "3000.00", FormatAmount(decimal.NewFromInt(3000), finance.TypeIncome))
}

func TestParseCategory(t *testing.T) {
	type testCase struct {
		name   string
		input  string
		want   finance.Category
		wantOK bool
	}

	tests := []testCase{
		{name: "Exact", input: "Food", want: finance.CategoryFood, wantOK: true},
		{name: "CaseInsensitive", input: "  transport ", want: finance.CategoryTransport, wantOK: true},
		{name: "Unknown", input: "Travel"},
		{name: "Empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCategory(tt.input)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDateRange(t *testing.T) {
	start := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	from, to := normalizeDateRange(start, end)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), to)
}

func TestTimeframeSelectedMsg_Filter(t *testing.T) {
	all := TimeframeSelectedMsg{All: true}.Filter()
	assert.Nil(t, all.From)
	assert.Nil(t, all.To)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	f := TimeframeSelectedMsg{Start: start, End: end}.Filter()
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, start, *f.From)
	assert.Equal(t, end, *f.To)
}

func TestWriteExport(t *testing.T) {
	svc := export.NewService(nil)
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	txs := []*transaction.Transaction{{
		ID:         1,
		Type:       finance.TypeExpense,
		Label:      "Coffee",
		Category:   "Food",
		Amount:     decimal.RequireFromString("3.5"),
		OccurredAt: now,
	}}

	t.Run("CSV", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")

		name, err := writeExport(svc, dir, exportFormatCSV, txs, now)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "transactions_20240309.csv"), name)

		body, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "id,date,type,label,category,amount\n")
		assert.Contains(t, string(body), "Coffee,Food,-3.50")
	})

	t.Run("Zip", func(t *testing.T) {
		dir := t.TempDir()

		name, err := writeExport(svc, dir, exportFormatZip, txs, now)
		require.NoError(t, err)

		zr, err := zip.OpenReader(name)
		require.NoError(t, err)
		defer zr.Close()

		var entries []string
		for _, f := range zr.File {
			entries = append(entries, f.Name)
		}

		assert.Equal(t, []string{"transactions.csv", "summary.txt"}, entries)
	})

	t.Run("UnknownFormatFallsBackToCSV", func(t *testing.T) {
		name, err := writeExport(svc, t.TempDir(), "xlsx", txs, now)
		require.NoError(t, err)
		assert.Equal(t, ".csv", filepath.Ext(name))
	})
}

func TestListModel_Filter(t *testing.T) {
	now := time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)

	m := NewListModel(1, nil)

	f := m.filter(now)
	assert.Nil(t, f.Type)
	assert.Nil(t, f.From, "the list starts on All Time")
	assert.Nil(t, f.Query)

	m.typeIdx = 1
	m.query = "coffee"
	m.periodIdx = 1 // This Month

	f = m.filter(now)
	require.NotNil(t, f.Type)
	assert.Equal(t, finance.TypeExpense, *f.Type)
	require.NotNil(t, f.Query)
	assert.Equal(t, "coffee", *f.Query)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), *f.To)
}
