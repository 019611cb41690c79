package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/user"
)

// Store keeps users for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*user.User
	byEmail  map[string]int64
	profiles map[int64]*user.Profile
	now      func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[int64]*user.User),
		byEmail:  make(map[string]int64),
		profiles: make(map[int64]*user.Profile),
		now:      time.Now,
	}
}

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return user.ErrEmailTaken
	}

	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = s.now()

	stored := *u
	s.users[u.ID] = &stored
	s.byEmail[u.Email] = u.ID

	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	out := *u

	return &out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()

	if !ok {
		return nil, user.ErrNotFound
	}

	return s.GetUser(ctx, id)
}

func (s *Store) UpdateNames(_ context.Context, id int64, firstName, lastName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}

	if firstName != "" {
		u.FirstName = firstName
	}

	if lastName != "" {
		u.LastName = lastName
	}

	return nil
}

func (s *Store) GetProfile(_ context.Context, userID int64) (*user.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return &user.Profile{UserID: userID}, nil
	}

	out := *p

	return &out, nil
}

func (s *Store) UpsertProfile(_ context.Context, p *user.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = new(s.now())

	stored := *p
	s.profiles[p.UserID] = &stored

	return nil
}
