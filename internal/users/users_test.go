package users

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// memStore is a minimal in-memory Store for exercising the service.
type memStore struct {
	mu     sync.Mutex
	byID   map[string]*User
	byName map[string]*User
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]*User), byName: make(map[string]*User)}
}

func (m *memStore) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[u.Username]; ok {
		return ErrUsernameTaken
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byName[u.Username] = &cp
	return nil
}

func (m *memStore) UserByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byName[u.Username] = &cp
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "correct horse battery", "Alice W.")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want lowercased alice", u.Username)
	}
	if u.PasswordHash == "" || strings.Contains(u.PasswordHash, "correct horse") {
		t.Error("password not hashed")
	}

	got, err := svc.Login(ctx, "ALICE", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("logged-in ID = %q, want %q", got.ID, u.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "a long password", ""); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Login(ctx, "bob", "not the password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	// Unknown users get the same error.
	_, err = svc.Login(ctx, "nosuchuser", "whatever pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a long password", ""); err == nil {
		t.Error("empty username accepted")
	}
	if _, err := svc.Register(ctx, "carol", "short", ""); err == nil {
		t.Error("short password accepted")
	}

	if _, err := svc.Register(ctx, "dave", "a long password", ""); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, "DAVE", "another password", "")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username err = %v, want ErrUsernameTaken", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	u, err := svc.Register(ctx, "erin", "a long password", "Erin")
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.UpdateProfile(ctx, u.ID, "", "https://cdn.example/erin.png")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.DisplayName != "Erin" {
		t.Errorf("empty display name overwrote existing: %q", got.DisplayName)
	}
	if got.AvatarURL != "https://cdn.example/erin.png" {
		t.Errorf("AvatarURL = %q", got.AvatarURL)
	}
}
