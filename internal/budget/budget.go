package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

var (
	ErrInvalidPayload = errors.New("invalid expense payload")
	ErrInvalidID      = errors.New("invalid id")
)

// Expense is a single outflow recorded against the monthly budget.
type Expense struct {
	ID        int64
	UserID    int64
	Label     string
	Category  string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

func (e *Expense) Record() analytics.Record {
	return analytics.Record{
		Label:      e.Label,
		Category:   e.Category,
		Amount:     e.Amount,
		Type:       finance.TypeExpense,
		OccurredAt: e.CreatedAt,
	}
}

func Records(expenses []*Expense) []analytics.Record {
	records := make([]analytics.Record, len(expenses))
	for i, e := range expenses {
		records[i] = e.Record()
	}

	return records
}

// Snapshot is the current budget total together with every expense.
type Snapshot struct {
	Total    decimal.Decimal
	Expenses []*Expense
}

// Insight is advisory text about how the budget is going.
type Insight struct {
	Total decimal.Decimal
	Spent decimal.Decimal
	Text  string
}
