// Package store persists accounts, attempts, progress aggregates, and LLM
// request events in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle and hands out repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas,
// and creates any missing tables. Use ":memory:" for tests.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns the LLM request event log backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

// applyPragmas configures SQLite for a small concurrent web service.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		avatar_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS question_attempts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		major TEXT NOT NULL,
		subject TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		question_id TEXT NOT NULL,
		correct INTEGER NOT NULL,
		hints_used INTEGER NOT NULL DEFAULT 0,
		time_spent_sec INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user ON question_attempts (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS daily_stats (
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		questions_attempted INTEGER NOT NULL DEFAULT 0,
		questions_correct INTEGER NOT NULL DEFAULT 0,
		easy_attempted INTEGER NOT NULL DEFAULT 0,
		medium_attempted INTEGER NOT NULL DEFAULT 0,
		hard_attempted INTEGER NOT NULL DEFAULT 0,
		hints_used INTEGER NOT NULL DEFAULT 0,
		time_spent_sec INTEGER NOT NULL DEFAULT 0,
		xp_earned INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS leaderboard_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		points INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_user ON leaderboard_scores (user_id)`,
	`CREATE TABLE IF NOT EXISTS user_statistics (
		user_id TEXT PRIMARY KEY,
		total_xp INTEGER NOT NULL DEFAULT 0,
		questions_attempted INTEGER NOT NULL DEFAULT 0,
		questions_correct INTEGER NOT NULL DEFAULT 0,
		hints_used INTEGER NOT NULL DEFAULT 0,
		current_streak INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		subject_counts TEXT NOT NULL DEFAULT '{}',
		last_active_day TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_badges (
		user_id TEXT NOT NULL,
		badge_id TEXT NOT NULL,
		awarded_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, badge_id)
	)`,
	`CREATE TABLE IF NOT EXISTS marked_questions (
		user_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		major TEXT NOT NULL,
		subject TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		number INTEGER NOT NULL,
		marked_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, question_id)
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SKILLSYNC_DB environment variable
// 2. $XDG_DATA_HOME/skillsync/skillsync.db
// 3. ~/.local/share/skillsync/skillsync.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SKILLSYNC_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "skillsync", "skillsync.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
