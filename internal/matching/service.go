package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

var (
	ErrEmptyPattern    = errors.New("pattern is required")
	ErrInvalidCategory = errors.New("invalid category")
)

type Repository interface {
	FindCategory(ctx context.Context, userID int64, label string) (string, error)
	CreateHint(ctx context.Context, userID int64, pattern string, category finance.Category) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest learned pattern contained in
// label, or an empty category when nothing matches.
func (s *Service) Suggest(ctx context.Context, userID int64, label string) (finance.Category, error) {
	if strings.TrimSpace(label) == "" {
		return "", nil
	}

	category, err := s.repo.FindCategory(ctx, userID, label)
	if err != nil {
		return "", err
	}

	return finance.Category(category), nil
}

// Learn remembers that labels containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, userID int64, pattern string, category finance.Category) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return ErrEmptyPattern
	}

	if !category.Valid() {
		return ErrInvalidCategory
	}

	return s.repo.CreateHint(ctx, userID, pattern, category)
}
