package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsync/skillsync/internal/progress"
	"github.com/skillsync/skillsync/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <userId>",
	Short: "Print a user's lifetime statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		ps := s.ProgressStore()

		stats, err := ps.Statistics(ctx, args[0])
		if err == progress.ErrNotFound {
			fmt.Println("No statistics recorded for", args[0])
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("User:        %s\n", stats.UserID)
		fmt.Printf("Total XP:    %d\n", stats.TotalXP)
		fmt.Printf("Attempted:   %d\n", stats.QuestionsAttempted)
		fmt.Printf("Correct:     %d (%.0f%%)\n", stats.QuestionsCorrect, stats.Accuracy()*100)
		fmt.Printf("Hints used:  %d\n", stats.HintsUsed)
		fmt.Printf("Streak:      %d (best %d)\n", stats.CurrentStreak, stats.LongestStreak)
		fmt.Printf("Last active: %s\n", stats.LastActiveDay)

		badges, err := ps.Badges(ctx, args[0])
		if err != nil {
			return err
		}
		if len(badges) > 0 {
			fmt.Println("Badges:")
			for _, a := range badges {
				if b, ok := progress.BadgeByID(a.BadgeID); ok {
					fmt.Printf("  %s %s: %s\n", b.Icon, b.Name, b.Description)
				}
			}
		}
		return nil
	},
}
