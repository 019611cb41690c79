package user

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateNames(ctx context.Context, id int64, firstName, lastName string) error

	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpsertProfile(ctx context.Context, p *Profile) error
}

// GoogleIdentity is what Google tells us about the owner of an access token.
type GoogleIdentity struct {
	Email      string
	GivenName  string
	FamilyName string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, accessToken string) (*GoogleIdentity, error)
}

type Service struct {
	repo       Repository
	google     GoogleVerifier
	bcryptCost int
}

func NewService(repo Repository, google GoogleVerifier) *Service {
	return &Service{repo: repo, google: google, bcryptCost: bcrypt.DefaultCost}
}

type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	email := strings.TrimSpace(params.Email)

	if params.FirstName == "" || params.LastName == "" || email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("looking up email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// LoginWithGoogle resolves the Google account behind accessToken and returns
// the matching user, creating one on first sign-in.
func (s *Service) LoginWithGoogle(ctx context.Context, accessToken string) (*User, error) {
	if s.google == nil {
		return nil, ErrInvalidGoogleToken
	}

	identity, err := s.google.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if identity.Email == "" {
		return nil, ErrNoGoogleEmail
	}

	u, err := s.repo.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		return u, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	// Google accounts never log in with a password, so store an unguessable one.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u = &User{
		FirstName:    cmp.Or(identity.GivenName, "Google"),
		LastName:     cmp.Or(identity.FamilyName, "User"),
		Email:        identity.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) Account(ctx context.Context, id int64) (*Account, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return &Account{User: u, Profile: p}, nil
}

type ProfileParams struct {
	FirstName string
	LastName  string
	Phone     string
	Company   string
	Bio       string
	PhotoURL  string
}

// UpdateProfile renames the user when names are given and replaces the
// profile details wholesale.
func (s *Service) UpdateProfile(ctx context.Context, id int64, params ProfileParams) (*Account, error) {
	if params.FirstName != "" || params.LastName != "" {
		if err := s.repo.UpdateNames(ctx, id, params.FirstName, params.LastName); err != nil {
			return nil, err
		}
	}

	err := s.repo.UpsertProfile(ctx, &Profile{
		UserID:   id,
		Phone:    params.Phone,
		Company:  params.Company,
		Bio:      params.Bio,
		PhotoURL: params.PhotoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	return s.Account(ctx, id)
}
