package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategory(ctx context.Context, userID int64, label string) (string, error) {
	query := `
		SELECT category
		FROM category_hints
		WHERE user_id = $1 AND strpos(LOWER($2), LOWER(pattern)) > 0
		ORDER BY LENGTH(pattern) DESC, id DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, userID, label).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding category hint: %w", err)
	}

	return category, nil
}

func (s *Store) CreateHint(ctx context.Context, userID int64, pattern string, category finance.Category) error {
	query := `
		INSERT INTO category_hints (user_id, pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, userID, pattern, category)
	if err != nil {
		return fmt.Errorf("creating category hint: %w", err)
	}

	return nil
}
