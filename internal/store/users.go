package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/skillsync/skillsync/internal/users"
)

// UserStore returns the durable users.Store backed by this store.
func (s *Store) UserStore() users.Store {
	return &userStore{db: s.db}
}

type userStore struct {
	db *sql.DB
}

var _ users.Store = (*userStore)(nil)

func (u *userStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := u.db.ExecContext(ctx, `
		INSERT INTO users (id, username, display_name, password_hash, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.DisplayName, user.PasswordHash, user.AvatarURL, user.CreatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return users.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (u *userStore) UserByUsername(ctx context.Context, username string) (*users.User, error) {
	return u.queryOne(ctx, "username = ?", username)
}

func (u *userStore) UserByID(ctx context.Context, id string) (*users.User, error) {
	return u.queryOne(ctx, "id = ?", id)
}

func (u *userStore) queryOne(ctx context.Context, where string, arg any) (*users.User, error) {
	var user users.User
	err := u.db.QueryRowContext(ctx, `
		SELECT id, username, display_name, password_hash, avatar_url, created_at
		FROM users WHERE `+where, arg).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &user.AvatarURL, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (u *userStore) UpdateUser(ctx context.Context, user *users.User) error {
	res, err := u.db.ExecContext(ctx, `
		UPDATE users SET display_name = ?, avatar_url = ? WHERE id = ?`,
		user.DisplayName, user.AvatarURL, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}
