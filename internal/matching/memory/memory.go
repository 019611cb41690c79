package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

type hint struct {
	userID   int64
	pattern  string
	category finance.Category
}

// Store keeps category hints in insertion order.
type Store struct {
	mu    sync.RWMutex
	hints []hint
}

func New() *Store {
	return &Store{}
}

func (s *Store) FindCategory(_ context.Context, userID int64, label string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	label = strings.ToLower(label)

	var best *hint

	for i := range s.hints {
		h := &s.hints[i]
		if h.userID != userID || !strings.Contains(label, strings.ToLower(h.pattern)) {
			continue
		}

		// Later hints win ties.
		if best == nil || len(h.pattern) >= len(best.pattern) {
			best = h
		}
	}

	if best == nil {
		return "", nil
	}

	return string(best.category), nil
}

func (s *Store) CreateHint(_ context.Context, userID int64, pattern string, category finance.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hints = append(s.hints, hint{userID: userID, pattern: pattern, category: category})

	return nil
}
