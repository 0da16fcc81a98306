package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/skillsync/skillsync/internal/bank"
	"github.com/skillsync/skillsync/internal/config"
	"github.com/skillsync/skillsync/internal/llm"
	"github.com/skillsync/skillsync/internal/progress"
	"github.com/skillsync/skillsync/internal/quota"
	"github.com/skillsync/skillsync/internal/server"
	"github.com/skillsync/skillsync/internal/store"
	"github.com/skillsync/skillsync/internal/tutor"
	"github.com/skillsync/skillsync/internal/users"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	repo, err := bank.LoadDir(cfg.CorpusDir)
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}
	log.Printf("[BANK] %d subjects loaded from %s", repo.SubjectCount(), cfg.CorpusDir)

	provider, err := llm.NewProvider(context.Background(), cfg.LLM, st.EventRepo())
	if err != nil {
		return fmt.Errorf("initialize oracle provider: %w", err)
	}

	var lb *progress.RedisLeaderboard
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Printf("[REDIS] %s unreachable, leaderboard mirror disabled: %v", cfg.RedisAddr, err)
		} else {
			lb = progress.NewRedisLeaderboard(client)
			log.Printf("[REDIS] leaderboard mirror enabled at %s", cfg.RedisAddr)
		}
	}

	q := quota.NewService()
	srv := server.New(server.Deps{
		Bank:     repo,
		Tutor:    tutor.NewService(provider, q),
		Quota:    q,
		Progress: progress.NewService(st.ProgressStore(), progress.NewMemory(), lb),
		Users:    users.NewService(st.UserStore()),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()
	log.Printf("[SERVER] listening on port %d", cfg.Port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("[SERVER] received %s, shutting down", sig)
		if err := srv.Shutdown(10 * time.Second); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
