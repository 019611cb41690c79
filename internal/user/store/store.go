package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/spendwise/internal/user"
)

const uniqueViolation = "23505"

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

const selectUserColumns = `id, first_name, last_name, email, password, created_at`

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	if err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.FirstName, u.LastName, u.Email, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return u, nil
}

// UpdateNames keeps the stored value for any name passed as empty.
func (s *Store) UpdateNames(ctx context.Context, id int64, firstName, lastName string) error {
	query := `
		UPDATE users
		SET first_name = COALESCE(NULLIF($1, ''), first_name),
		    last_name = COALESCE(NULLIF($2, ''), last_name)
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, firstName, lastName, id)
	if err != nil {
		return fmt.Errorf("updating names: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (*user.Profile, error) {
	query := `
		SELECT phone, company, bio, profile_photo, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var phone, company, bio, photo sql.NullString

	p := &user.Profile{UserID: userID}

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&phone, &company, &bio, &photo, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, nil
		}

		return nil, fmt.Errorf("getting profile: %w", err)
	}

	p.Phone = phone.String
	p.Company = company.String
	p.Bio = bio.String
	p.PhotoURL = photo.String

	return p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p *user.Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, phone, company, bio, profile_photo, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET phone = EXCLUDED.phone,
		    company = EXCLUDED.company,
		    bio = EXCLUDED.bio,
		    profile_photo = EXCLUDED.profile_photo,
		    updated_at = NOW()
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, p.UserID, p.Phone, p.Company, p.Bio, p.PhotoURL).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}

	return nil
}
