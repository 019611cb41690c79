package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `id, user_id, type, label, category, amount, occurred_at, created_at, updated_at`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var category sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.UserID, &typeStr, &tx.Label, &category, &tx.Amount,
		&tx.OccurredAt, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = finance.Type(typeStr)
	tx.Category = category.String

	return &tx, nil
}

const insertTransaction = `
	INSERT INTO user_transactions (user_id, type, label, category, amount, occurred_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING id, created_at
`

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	err := s.db.QueryRowContext(ctx, insertTransaction,
		tx.UserID, tx.Type, tx.Label, tx.Category, tx.Amount, tx.OccurredAt,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM user_transactions WHERE user_id = $1 AND id = $2`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// categoryLabel is the category as analytics reports it, so a filter on a
// returned label finds the same rows.
const categoryLabel = `COALESCE(NULLIF(category, ''), '` + finance.Uncategorized + `')`

func listQuery(userID int64, filter analytics.Filter) (string, []any) {
	query := `SELECT ` + selectTransactionColumns + ` FROM user_transactions WHERE user_id = $1`

	args := []any{userID}

	argIdx := 2

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND LOWER(%s) = LOWER($%d)", categoryLabel, argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	// Literal substring match, so % and _ in user text are not wildcards.
	if filter.Query != nil {
		if q := strings.TrimSpace(*filter.Query); q != "" {
			query += fmt.Sprintf(" AND strpos(LOWER(label || ' ' || COALESCE(category, '')), LOWER($%d)) > 0", argIdx)

			args = append(args, q)
		}
	}

	return query + " ORDER BY occurred_at DESC, id DESC", args
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, filter analytics.Filter) ([]*transaction.Transaction, error) {
	query, args := listQuery(userID, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE user_transactions
		SET type = $1, label = $2, category = $3, amount = $4, occurred_at = $5, updated_at = NOW()
		WHERE user_id = $6 AND id = $7
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Type, tx.Label, tx.Category, tx.Amount, tx.OccurredAt, tx.UserID, tx.ID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM user_transactions WHERE user_id = $1 AND id = $2`

	if _, err := s.db.ExecContext(ctx, query, userID, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

// importLockKey serializes concurrent imports of the same user and period.
func importLockKey(userID int64, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(userID, 10)))
	h.Write([]byte{0})
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx     *sql.Tx
	userID int64
}

func (s *Store) BeginImport(ctx context.Context, userID int64, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(userID, minDate, maxDate)); err != nil {
		_ = dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, userID: userID}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

// FindDuplicates returns stored rows sharing day, amount, type and label
// with any candidate.
func (itx *importTx) FindDuplicates(ctx context.Context, candidates []*transaction.Transaction) ([]*transaction.Transaction, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date   string
		Amount string
		Type   finance.Type
		Label  string
	}

	keyOf := func(tx *transaction.Transaction) lookupKey {
		return lookupKey{
			Date:   tx.OccurredAt.UTC().Format(time.DateOnly),
			Amount: tx.Amount.StringFixed(2),
			Type:   tx.Type,
			Label:  strings.ToLower(tx.Label),
		}
	}

	minDate := candidates[0].OccurredAt
	maxDate := candidates[0].OccurredAt
	keySet := make(map[lookupKey]struct{}, len(candidates))

	for _, c := range candidates {
		if c.OccurredAt.Before(minDate) {
			minDate = c.OccurredAt
		}

		if c.OccurredAt.After(maxDate) {
			maxDate = c.OccurredAt
		}

		keySet[keyOf(c)] = struct{}{}
	}

	// Widen to whole UTC days so same-day rows at other times are seen.
	from := minDate.UTC().Truncate(24 * time.Hour)
	to := maxDate.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)

	query := `SELECT ` + selectTransactionColumns + `
		FROM user_transactions
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at ASC`

	rows, err := itx.tx.QueryContext(ctx, query, itx.userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		if _, found := keySet[keyOf(tx)]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		err := itx.tx.QueryRowContext(ctx, insertTransaction,
			tx.UserID, tx.Type, tx.Label, tx.Category, tx.Amount, tx.OccurredAt,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
