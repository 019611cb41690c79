package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, userID, id int64) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error

	ListTransactions(ctx context.Context, userID int64, filter analytics.Filter) ([]*Transaction, error)

	BeginImport(ctx context.Context, userID int64, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, candidates []*Transaction) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// CategoryHinter looks up a user's learned category for a label.
type CategoryHinter interface {
	Suggest(ctx context.Context, userID int64, label string) (finance.Category, error)
}

type Service struct {
	repo       Repository
	classifier *classifier.Classifier
	hints      CategoryHinter
	now        func() time.Time
}

// NewService wires the ledger. hints may be nil.
func NewService(repo Repository, cls *classifier.Classifier, hints CategoryHinter) *Service {
	return &Service{repo: repo, classifier: cls, hints: hints, now: time.Now}
}

type CreateParams struct {
	Type       finance.Type
	Label      string
	Category   string
	Amount     decimal.Decimal
	OccurredAt *time.Time
}

func (p CreateParams) normalize(now time.Time) (*Transaction, error) {
	label := strings.TrimSpace(p.Label)
	amount, ok := finance.RoundMoney(p.Amount)

	if label == "" || !ok {
		return nil, ErrInvalidPayload
	}

	tx := &Transaction{
		Type:       p.Type,
		Label:      label,
		Category:   strings.TrimSpace(p.Category),
		Amount:     amount,
		OccurredAt: now,
	}

	if tx.Type == "" {
		tx.Type = finance.TypeExpense
	}

	if !tx.Type.Valid() {
		return nil, ErrInvalidType
	}

	if tx.Category == "" {
		tx.Category = string(finance.CategoryGeneral)
	}

	if p.OccurredAt != nil {
		tx.OccurredAt = *p.OccurredAt
	}

	return tx, nil
}

func (s *Service) Create(ctx context.Context, userID int64, params CreateParams) (*Transaction, error) {
	tx, err := params.normalize(s.now())
	if err != nil {
		return nil, err
	}

	tx.UserID = userID

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Transaction, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID int64, filter analytics.Filter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

// UpdateParams carries the fields to change. Nil fields keep their value.
type UpdateParams struct {
	Type       *finance.Type
	Label      *string
	Category   *string
	Amount     *decimal.Decimal
	OccurredAt *time.Time
}

func (p UpdateParams) empty() bool {
	return p.Type == nil && p.Label == nil && p.Category == nil && p.Amount == nil && p.OccurredAt == nil
}

// Update merges params into the stored row and writes the whole row back.
func (s *Service) Update(ctx context.Context, userID, id int64, params UpdateParams) (*Transaction, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	if params.empty() {
		return nil, ErrNoFields
	}

	if params.Type != nil && !params.Type.Valid() {
		return nil, ErrInvalidType
	}

	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Label != nil {
		tx.Label = strings.TrimSpace(*params.Label)
	}

	if params.Category != nil {
		tx.Category = strings.TrimSpace(*params.Category)
		if tx.Category == "" {
			tx.Category = string(finance.CategoryGeneral)
		}
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.OccurredAt != nil {
		tx.OccurredAt = *params.OccurredAt
	}

	amount, ok := finance.RoundMoney(tx.Amount)
	if tx.Label == "" || !ok {
		return nil, ErrInvalidPayload
	}

	tx.Amount = amount

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Delete removes the transaction when the user owns it. A missing row is not
// an error.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	return s.repo.DeleteTransaction(ctx, userID, id)
}

// Propose classifies free text without persisting anything. A General
// category is replaced by the user's learned hint when one matches.
func (s *Service) Propose(ctx context.Context, userID int64, text string) (*classifier.Proposal, error) {
	p, err := s.classifier.Classify(text)
	if err != nil {
		return nil, err
	}

	if p.Category == finance.CategoryGeneral {
		if hint, ok := s.hintFor(ctx, userID, p.Label); ok {
			p.Category = hint
		}
	}

	return p, nil
}

// ApplyHints swaps a General category for the user's learned one, in place.
func (s *Service) ApplyHints(ctx context.Context, userID int64, params []CreateParams) {
	for i, p := range params {
		if p.Category != string(finance.CategoryGeneral) {
			continue
		}

		if hint, ok := s.hintFor(ctx, userID, p.Label); ok {
			params[i].Category = string(hint)
		}
	}
}

func (s *Service) hintFor(ctx context.Context, userID int64, label string) (finance.Category, bool) {
	if s.hints == nil {
		return "", false
	}

	hint, err := s.hints.Suggest(ctx, userID, label)
	if err != nil {
		slog.Warn("failed to look up category hint", "user_id", userID, "error", err)
		return "", false
	}

	return hint, hint.Valid()
}

// QuickAdd proposes and stores a transaction in one step.
func (s *Service) QuickAdd(ctx context.Context, userID int64, text string) (*Transaction, error) {
	p, err := s.Propose(ctx, userID, text)
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, userID, CreateParams{
		Type:       p.Type,
		Label:      p.Label,
		Category:   string(p.Category),
		Amount:     p.Amount,
		OccurredAt: &p.OccurredAt,
	})
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date   string
	Amount string
	Type   finance.Type
	Label  string
}

func keyOf(date time.Time, amount decimal.Decimal, typ finance.Type, label string) dupKey {
	return dupKey{
		Date:   date.UTC().Format(time.DateOnly),
		Amount: amount.StringFixed(2),
		Type:   typ,
		Label:  strings.ToLower(label),
	}
}

// ImportBatch stores params unless some of them already exist with the same
// day, amount, type and label. On conflicts nothing is written and the caller
// decides what to do with the split result.
func (s *Service) ImportBatch(ctx context.Context, userID int64, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	txs, err := s.normalizeAll(params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(txs)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.OccurredAt, d.Amount, d.Type, d.Label)] = d
	}

	var fresh []CreateParams

	var conflicts []Conflict

	for i, tx := range txs {
		existing, found := lookup[keyOf(tx.OccurredAt, tx.Amount, tx.Type, tx.Label)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: params[i], Existing: existing})
			continue
		}

		fresh = append(fresh, params[i])
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: fresh, Conflicts: conflicts}, nil
	}

	for _, tx := range txs {
		tx.UserID = userID
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch stores every param without duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, userID int64, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs, err := s.normalizeAll(params)
	if err != nil {
		return nil, err
	}

	for _, tx := range txs {
		tx.UserID = userID
	}

	minDate, maxDate := dateRange(txs)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func (s *Service) normalizeAll(params []CreateParams) ([]*Transaction, error) {
	now := s.now()
	txs := make([]*Transaction, len(params))

	for i, p := range params {
		tx, err := p.normalize(now)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		txs[i] = tx
	}

	return txs, nil
}

func dateRange(txs []*Transaction) (time.Time, time.Time) {
	minDate := txs[0].OccurredAt
	maxDate := txs[0].OccurredAt

	for _, tx := range txs[1:] {
		if tx.OccurredAt.Before(minDate) {
			minDate = tx.OccurredAt
		}

		if tx.OccurredAt.After(maxDate) {
			maxDate = tx.OccurredAt
		}
	}

	return minDate, maxDate
}
