package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

// Record is the common shape of anything that can be aggregated: budget
// expenses and ledger transactions both map onto it.
type Record struct {
	Label      string
	Category   string
	Amount     decimal.Decimal
	Type       finance.Type
	OccurredAt time.Time
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Savings  decimal.Decimal
}

type MonthTotals struct {
	Month    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

type Overview struct {
	Total      decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Categories []CategoryTotal
}

func isExpense(r Record) bool {
	return r.Type == "" || r.Type == finance.TypeExpense
}

func categoryOf(r Record) string {
	if strings.TrimSpace(r.Category) == "" {
		return finance.Uncategorized
	}

	return r.Category
}

// Spent sums the outflow records. Records without a type count as expenses.
func Spent(records []Record) decimal.Decimal {
	total := decimal.Zero

	for _, r := range records {
		if isExpense(r) {
			total = total.Add(r.Amount)
		}
	}

	return total
}

// Remaining is total minus spent, clamped at zero.
func Remaining(total, spent decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, total.Sub(spent))
}

// CategoryTotals groups expense amounts by category, largest first.
func CategoryTotals(records []Record) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)

	for _, r := range records {
		if !isExpense(r) {
			continue
		}

		c := categoryOf(r)
		sums[c] = sums[c].Add(r.Amount)
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for c, t := range sums {
		totals = append(totals, CategoryTotal{Category: c, Total: t})
	}

	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return totals
}

// Summarize splits records into income and expenses. Savings may be negative.
func Summarize(records []Record) Summary {
	income, expenses := decimal.Zero, decimal.Zero

	for _, r := range records {
		if isExpense(r) {
			expenses = expenses.Add(r.Amount)
			continue
		}

		income = income.Add(r.Amount)
	}

	return Summary{
		Income:   income,
		Expenses: expenses,
		Savings:  income.Sub(expenses),
	}
}

// MonthlyTrend groups records by UTC calendar month, oldest month first.
func MonthlyTrend(records []Record) []MonthTotals {
	byMonth := make(map[string]*MonthTotals)

	for _, r := range records {
		key := r.OccurredAt.UTC().Format("2006-01")

		m, ok := byMonth[key]
		if !ok {
			m = &MonthTotals{Month: key}
			byMonth[key] = m
		}

		if isExpense(r) {
			m.Expenses = m.Expenses.Add(r.Amount)
			continue
		}

		m.Income = m.Income.Add(r.Amount)
	}

	trend := make([]MonthTotals, 0, len(byMonth))
	for _, m := range byMonth {
		trend = append(trend, *m)
	}

	slices.SortFunc(trend, func(a, b MonthTotals) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return trend
}

// BuildOverview combines a budget total with the spending it covers.
func BuildOverview(total decimal.Decimal, records []Record) Overview {
	spent := Spent(records)

	return Overview{
		Total:      total,
		Spent:      spent,
		Remaining:  Remaining(total, spent),
		Categories: CategoryTotals(records),
	}
}
