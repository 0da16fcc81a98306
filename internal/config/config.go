// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/skillsync/skillsync/internal/llm"
	"github.com/skillsync/skillsync/internal/store"
)

// Config holds everything the server needs to start.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database file.
	DBPath string

	// CorpusDir is the root directory holding the question bank text
	// files, one subdirectory per major.
	CorpusDir string

	// RedisAddr enables the Redis leaderboard mirror when non-empty.
	RedisAddr string

	// LLM configures the answer oracle.
	LLM llm.Config
}

// Load reads configuration from the environment. A .env file in the working
// directory is folded in first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:      getEnvInt("PORT", 3001),
		DBPath:    os.Getenv("SKILLSYNC_DB"),
		CorpusDir: getEnv("SKILLSYNC_CORPUS", "questions"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		LLM:       llm.ConfigFromEnv(),
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBPath = p
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if err := cfg.LLM.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
