package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrInvalidPayload = errors.New("invalid transaction payload")
	ErrInvalidType    = errors.New("invalid type")
	ErrNoFields       = errors.New("no valid fields to update")
	ErrInvalidID      = errors.New("invalid id")
)

// Transaction is a single income or expense entry owned by one user.
type Transaction struct {
	ID         int64
	UserID     int64
	Type       finance.Type
	Label      string
	Category   string
	Amount     decimal.Decimal // always positive, the sign lives in Type
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func (t *Transaction) Record() analytics.Record {
	return analytics.Record{
		Label:      t.Label,
		Category:   t.Category,
		Amount:     t.Amount,
		Type:       t.Type,
		OccurredAt: t.OccurredAt,
	}
}

func Records(txs []*Transaction) []analytics.Record {
	records := make([]analytics.Record, len(txs))
	for i, t := range txs {
		records[i] = t.Record()
	}

	return records
}
