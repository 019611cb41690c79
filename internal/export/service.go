package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// Lister is the slice of the ledger the exporter reads from.
type Lister interface {
	List(ctx context.Context, userID int64, filter analytics.Filter) ([]*transaction.Transaction, error)
}

// Service renders a user's ledger as CSV and as a plain text summary.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

var csvHeader = []string{"id", "date", "type", "label", "category", "amount"}

// Export returns the transactions matching filter, oldest first.
func (s *Service) Export(ctx context.Context, userID int64, filter analytics.Filter) ([]*transaction.Transaction, error) {
	txs, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	// The ledger lists newest first.
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}

	return txs, nil
}

// WriteCSV writes txs with a header row. Amounts are signed, expenses negative.
func (s *Service) WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			fmt.Sprint(tx.ID),
			tx.OccurredAt.UTC().Format(time.DateOnly),
			string(tx.Type),
			tx.Label,
			tx.Category,
			signedAmount(tx),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %d: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders one line per transaction:
//
//	* 2024-01-31 | Coffee | -3.50 | Food
func (s *Service) Summary(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range txs {
		category := tx.Category
		if category == "" {
			category = finance.Uncategorized
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			tx.OccurredAt.UTC().Format(time.DateOnly), tx.Label, signedAmount(tx), category)
	}

	return sb.String()
}

// WriteArchive writes a zip holding transactions.csv and summary.txt.
func (s *Service) WriteArchive(w io.Writer, txs []*transaction.Transaction) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create("transactions.csv")
	if err != nil {
		return fmt.Errorf("creating csv entry: %w", err)
	}

	if err := s.WriteCSV(f, txs); err != nil {
		return err
	}

	f, err = zw.Create("summary.txt")
	if err != nil {
		return fmt.Errorf("creating summary entry: %w", err)
	}

	if _, err := io.WriteString(f, s.Summary(txs)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

func signedAmount(tx *transaction.Transaction) string {
	amount := tx.Amount.Abs()
	if tx.Type == finance.TypeExpense {
		amount = amount.Neg()
	}

	return amount.StringFixed(2)
}
