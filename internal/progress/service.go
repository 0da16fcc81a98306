package progress

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/skillsync/skillsync/internal/bank"
)

// RecordResult reports everything a single recorded attempt changed.
type RecordResult struct {
	Attempt      *Attempt        `json:"attempt"`
	PointsEarned int             `json:"pointsEarned"`
	Stats        *UserStatistics `json:"stats"`
	NewBadges    []Badge         `json:"newBadges"`
}

// Service folds attempts into every aggregate at once: the attempt log,
// daily stats, leaderboard scores, lifetime statistics, and badges. Writes
// go to the primary store and fail over to the fallback, so a database
// outage degrades progress tracking rather than failing the request.
type Service struct {
	primary  Store
	fallback Store
	lb       *RedisLeaderboard
	now      func() time.Time
}

// NewService wires the aggregator. fallback may equal primary when no
// degraded path is wanted; lb may be nil when Redis is not configured.
func NewService(primary, fallback Store, lb *RedisLeaderboard) *Service {
	if fallback == nil {
		fallback = primary
	}
	return &Service{primary: primary, fallback: fallback, lb: lb, now: time.Now}
}

// store runs op against the primary store and retries it against the
// fallback when the primary errors. ErrNotFound is an answer, not an
// outage, and never triggers failover.
func (s *Service) store(op string, fn func(Store) error) error {
	err := fn(s.primary)
	if err == nil || errors.Is(err, ErrNotFound) || s.fallback == s.primary {
		return err
	}
	log.Printf("[PROGRESS] primary store failed during %s, using fallback: %v", op, err)
	return fn(s.fallback)
}

// RecordAttempt persists one answered question and updates every aggregate.
// Aggregate updates are best effort: a failed daily-stat or leaderboard
// write is logged and does not undo the attempt.
func (s *Service) RecordAttempt(ctx context.Context, a *Attempt) (*RecordResult, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}

	if err := s.store("save attempt", func(st Store) error {
		return st.SaveAttempt(ctx, a)
	}); err != nil {
		return nil, err
	}

	points := 0
	difficulty, knownDifficulty := bank.ParseDifficulty(a.Difficulty)
	if a.Correct && knownDifficulty {
		points = difficulty.Points()
	}
	day := a.CreatedAt.Format("2006-01-02")

	delta := DailyStat{
		Day:                day,
		QuestionsAttempted: 1,
		HintsUsed:          a.HintsUsed,
		TimeSpentSec:       a.TimeSpentSec,
		XPEarned:           points,
	}
	if a.Correct {
		delta.QuestionsCorrect = 1
	}
	if knownDifficulty {
		switch difficulty {
		case bank.Easy:
			delta.EasyAttempted = 1
		case bank.Medium:
			delta.MediumAttempted = 1
		case bank.Hard:
			delta.HardAttempted = 1
		}
	}
	if err := s.store("increment daily", func(st Store) error {
		return st.IncrementDaily(ctx, a.UserID, delta)
	}); err != nil {
		log.Printf("[PROGRESS] daily stat update failed for %s: %v", a.UserID, err)
	}

	if points > 0 {
		if err := s.store("add leaderboard points", func(st Store) error {
			return st.AddLeaderboardPoints(ctx, a.UserID, day, points)
		}); err != nil {
			log.Printf("[PROGRESS] leaderboard update failed for %s: %v", a.UserID, err)
		}
		if err := s.lb.AddPoints(ctx, a.UserID, points); err != nil {
			log.Printf("[PROGRESS] redis leaderboard mirror failed for %s: %v", a.UserID, err)
		}
	}

	stats, err := s.updateStatistics(ctx, a, points, day)
	if err != nil {
		log.Printf("[PROGRESS] statistics update failed for %s: %v", a.UserID, err)
		return &RecordResult{Attempt: a, PointsEarned: points}, nil
	}

	newBadges := s.awardBadges(ctx, a.UserID, stats)

	return &RecordResult{
		Attempt:      a,
		PointsEarned: points,
		Stats:        stats,
		NewBadges:    newBadges,
	}, nil
}

// updateStatistics folds the attempt into the user's lifetime aggregate.
// The streak counts consecutive correct answers ending at the most recent
// attempt: a correct answer extends it, an incorrect one resets it to zero.
func (s *Service) updateStatistics(ctx context.Context, a *Attempt, points int, day string) (*UserStatistics, error) {
	var stats *UserStatistics
	err := s.store("load statistics", func(st Store) error {
		var err error
		stats, err = st.Statistics(ctx, a.UserID)
		if errors.Is(err, ErrNotFound) {
			stats = &UserStatistics{UserID: a.UserID}
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	stats.TotalXP += points
	stats.QuestionsAttempted++
	stats.HintsUsed += a.HintsUsed
	if a.Correct {
		stats.QuestionsCorrect++
		stats.CurrentStreak++
	} else {
		stats.CurrentStreak = 0
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	if a.Subject != "" {
		if stats.SubjectCounts == nil {
			stats.SubjectCounts = make(map[string]int)
		}
		stats.SubjectCounts[a.Subject]++
	}
	stats.LastActiveDay = day
	stats.UpdatedAt = s.now()

	err = s.store("save statistics", func(st Store) error {
		return st.SaveStatistics(ctx, stats)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// awardBadges grants any newly qualified badges. Failures are logged, not
// returned: a badge miss must never fail an attempt record.
func (s *Service) awardBadges(ctx context.Context, userID string, stats *UserStatistics) []Badge {
	held := make(map[string]bool)
	if err := s.store("load badges", func(st Store) error {
		awarded, err := st.Badges(ctx, userID)
		if err != nil {
			return err
		}
		for _, b := range awarded {
			held[b.BadgeID] = true
		}
		return nil
	}); err != nil {
		log.Printf("[PROGRESS] badge lookup failed for %s: %v", userID, err)
		return nil
	}

	var earned []Badge
	for _, id := range EarnedBadges(stats) {
		if held[id] {
			continue
		}
		if err := s.store("award badge", func(st Store) error {
			return st.AwardBadge(ctx, userID, id)
		}); err != nil {
			log.Printf("[PROGRESS] badge award %s failed for %s: %v", id, userID, err)
			continue
		}
		if b, ok := BadgeByID(id); ok {
			earned = append(earned, b)
		}
	}
	return earned
}

// Statistics returns a user's lifetime aggregate. New users get a zeroed
// aggregate rather than an error.
func (s *Service) Statistics(ctx context.Context, userID string) (*UserStatistics, error) {
	var stats *UserStatistics
	err := s.store("load statistics", func(st Store) error {
		var err error
		stats, err = st.Statistics(ctx, userID)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return &UserStatistics{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DailyStats returns up to days most recent day rows, newest first.
func (s *Service) DailyStats(ctx context.Context, userID string, days int) ([]DailyStat, error) {
	var out []DailyStat
	err := s.store("load daily stats", func(st Store) error {
		var err error
		out, err = st.DailyStats(ctx, userID, days)
		return err
	})
	return out, err
}

// Attempts returns a user's most recent attempts, newest first.
func (s *Service) Attempts(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	var out []Attempt
	err := s.store("load attempts", func(st Store) error {
		var err error
		out, err = st.Attempts(ctx, userID, limit)
		return err
	})
	return out, err
}

// Leaderboard returns the top entries. The Redis mirror answers when
// configured; otherwise the SQL aggregation does.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if entries, err := s.lb.Top(ctx, limit); err == nil && entries != nil {
		return entries, nil
	} else if err != nil {
		log.Printf("[PROGRESS] redis leaderboard read failed, using store: %v", err)
	}
	var out []LeaderboardEntry
	err := s.store("load leaderboard", func(st Store) error {
		var err error
		out, err = st.TopScores(ctx, limit)
		return err
	})
	return out, err
}

// Badges returns the user's earned badges resolved against the catalog.
func (s *Service) Badges(ctx context.Context, userID string) ([]Badge, error) {
	var awarded []AwardedBadge
	err := s.store("load badges", func(st Store) error {
		var err error
		awarded, err = st.Badges(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]Badge, 0, len(awarded))
	for _, a := range awarded {
		if b, ok := BadgeByID(a.BadgeID); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// MarkQuestion flags a question for later review.
func (s *Service) MarkQuestion(ctx context.Context, m *MarkedQuestion) error {
	if m.MarkedAt.IsZero() {
		m.MarkedAt = s.now()
	}
	return s.store("mark question", func(st Store) error {
		return st.MarkQuestion(ctx, m)
	})
}

// UnmarkQuestion removes a review flag.
func (s *Service) UnmarkQuestion(ctx context.Context, userID, questionID string) error {
	return s.store("unmark question", func(st Store) error {
		return st.UnmarkQuestion(ctx, userID, questionID)
	})
}

// MarkedQuestions lists a user's flagged questions, newest first.
func (s *Service) MarkedQuestions(ctx context.Context, userID string) ([]MarkedQuestion, error) {
	var out []MarkedQuestion
	err := s.store("load marked questions", func(st Store) error {
		var err error
		out, err = st.MarkedQuestions(ctx, userID)
		return err
	})
	return out, err
}
