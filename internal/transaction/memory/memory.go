package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// Store keeps the ledger for the lifetime of the process.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	txs    map[int64]*transaction.Transaction
	now    func() time.Time

	// importMu serializes imports the way the database advisory lock does.
	importMu sync.Mutex
}

func New() *Store {
	return &Store{
		txs: make(map[int64]*transaction.Transaction),
		now: time.Now,
	}
}

func (s *Store) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insert(tx)

	return nil
}

// insert must be called with mu held.
func (s *Store) insert(tx *transaction.Transaction) {
	s.nextID++
	tx.ID = s.nextID
	tx.CreatedAt = s.now()

	stored := *tx
	s.txs[tx.ID] = &stored
}

func (s *Store) GetTransaction(_ context.Context, userID, id int64) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[id]
	if !ok || tx.UserID != userID {
		return nil, transaction.ErrNotFound
	}

	c := *tx

	return &c, nil
}

func (s *Store) ListTransactions(_ context.Context, userID int64, filter analytics.Filter) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*transaction.Transaction

	for _, tx := range s.txs {
		if tx.UserID != userID || !filter.Match(tx.Record()) {
			continue
		}

		c := *tx
		out = append(out, &c)
	}

	slices.SortFunc(out, func(a, b *transaction.Transaction) int {
		if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.txs[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return transaction.ErrNotFound
	}

	tx.UpdatedAt = new(s.now())

	stored := *tx
	s.txs[tx.ID] = &stored

	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx, ok := s.txs[id]; ok && tx.UserID == userID {
		delete(s.txs, id)
	}

	return nil
}

type importTx struct {
	s       *Store
	userID  int64
	pending []*transaction.Transaction
	done    bool
}

func (s *Store) BeginImport(_ context.Context, userID int64, _, _ time.Time) (transaction.ImportTx, error) {
	s.importMu.Lock()

	return &importTx{s: s, userID: userID}, nil
}

func (itx *importTx) FindDuplicates(_ context.Context, candidates []*transaction.Transaction) ([]*transaction.Transaction, error) {
	itx.s.mu.RLock()
	defer itx.s.mu.RUnlock()

	keys := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		keys[dupKey(c)] = struct{}{}
	}

	var out []*transaction.Transaction

	for _, tx := range itx.s.txs {
		if tx.UserID != itx.userID {
			continue
		}

		if _, found := keys[dupKey(tx)]; found {
			c := *tx
			out = append(out, &c)
		}
	}

	slices.SortFunc(out, func(a, b *transaction.Transaction) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

// CreateTransactions stages rows until Commit.
func (itx *importTx) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	itx.pending = append(itx.pending, txs...)
	return nil
}

func (itx *importTx) Commit() error {
	if itx.done {
		return nil
	}

	itx.s.mu.Lock()
	for _, tx := range itx.pending {
		itx.s.insert(tx)
	}
	itx.s.mu.Unlock()

	itx.finish()

	return nil
}

func (itx *importTx) Rollback() error {
	if !itx.done {
		itx.finish()
	}

	return nil
}

func (itx *importTx) finish() {
	itx.done = true
	itx.pending = nil
	itx.s.importMu.Unlock()
}

func dupKey(tx *transaction.Transaction) string {
	return strings.Join([]string{
		tx.OccurredAt.UTC().Format(time.DateOnly),
		tx.Amount.StringFixed(2),
		string(tx.Type),
		strings.ToLower(tx.Label),
	}, "\x00")
}
