// Package users handles account registration and login.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("users: username already taken")
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	ErrNotFound           = errors.New("users: not found")
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store persists accounts. The SQLite implementation lives in internal/store.
type Store interface {
	// CreateUser inserts a new account. A username collision returns
	// ErrUsernameTaken.
	CreateUser(ctx context.Context, u *User) error

	// UserByUsername returns the account, or ErrNotFound.
	UserByUsername(ctx context.Context, username string) (*User, error)

	// UserByID returns the account, or ErrNotFound.
	UserByID(ctx context.Context, id string) (*User, error)

	// UpdateUser persists changed profile fields of an existing account.
	UpdateUser(ctx context.Context, u *User) error
}

// Service implements registration and login on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

const minPasswordLen = 8

// Register creates an account. Usernames are case-insensitive and stored
// lowercased; display names default to the username as typed.
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("users: username required")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("users: password must be at least %d characters", minPasswordLen)
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     strings.ToLower(username),
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials. A missing user and a wrong password both
// return ErrInvalidCredentials so callers cannot probe for usernames.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.store.UserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.UserByID(ctx, id)
}

// UpdateProfile changes display name and avatar. Empty arguments leave the
// current value in place.
func (s *Service) UpdateProfile(ctx context.Context, id, displayName, avatarURL string) (*User, error) {
	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		u.DisplayName = displayName
	}
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
