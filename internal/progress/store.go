package progress

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a user has no stored record for a lookup.
var ErrNotFound = errors.New("progress: not found")

// Store persists progress aggregates. The durable SQLite implementation
// lives in internal/store; Memory below is the degraded fallback.
type Store interface {
	// SaveAttempt appends one answered question.
	SaveAttempt(ctx context.Context, a *Attempt) error

	// Attempts returns a user's most recent attempts, newest first.
	Attempts(ctx context.Context, userID string, limit int) ([]Attempt, error)

	// IncrementDaily folds delta into the user's row for delta.Day,
	// creating it if absent.
	IncrementDaily(ctx context.Context, userID string, delta DailyStat) error

	// DailyStats returns up to days most recent day rows, newest first.
	DailyStats(ctx context.Context, userID string, days int) ([]DailyStat, error)

	// AddLeaderboardPoints appends a scored answer for the given day.
	AddLeaderboardPoints(ctx context.Context, userID, day string, points int) error

	// TopScores returns the leaderboard ordered by total points descending.
	TopScores(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Statistics returns a user's lifetime aggregate, or ErrNotFound.
	Statistics(ctx context.Context, userID string) (*UserStatistics, error)

	// SaveStatistics upserts a user's lifetime aggregate.
	SaveStatistics(ctx context.Context, s *UserStatistics) error

	// AwardBadge records a badge for a user. Awarding an already-held
	// badge is a no-op.
	AwardBadge(ctx context.Context, userID, badgeID string) error

	// Badges returns the badges a user holds, oldest first.
	Badges(ctx context.Context, userID string) ([]AwardedBadge, error)

	// MarkQuestion flags a question for review; marking twice is a no-op.
	MarkQuestion(ctx context.Context, m *MarkedQuestion) error

	// UnmarkQuestion removes a flag. Unknown flags are a no-op.
	UnmarkQuestion(ctx context.Context, userID, questionID string) error

	// MarkedQuestions returns a user's flagged questions, newest first.
	MarkedQuestions(ctx context.Context, userID string) ([]MarkedQuestion, error)
}
