package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skillsync/skillsync/internal/progress"
)

// ProgressStore returns the durable progress.Store backed by this store.
func (s *Store) ProgressStore() progress.Store {
	return &progressStore{db: s.db}
}

type progressStore struct {
	db *sql.DB
}

var _ progress.Store = (*progressStore)(nil)

func (p *progressStore) SaveAttempt(ctx context.Context, a *progress.Attempt) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO question_attempts
			(id, user_id, major, subject, difficulty, question_id, correct, hints_used, time_spent_sec, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Major, a.Subject, a.Difficulty, a.QuestionID,
		a.Correct, a.HintsUsed, a.TimeSpentSec, a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (p *progressStore) Attempts(ctx context.Context, userID string, limit int) ([]progress.Attempt, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats negative LIMIT as unlimited
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, major, subject, difficulty, question_id, correct, hints_used, time_spent_sec, created_at
		FROM question_attempts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []progress.Attempt
	for rows.Next() {
		var a progress.Attempt
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Major, &a.Subject, &a.Difficulty, &a.QuestionID,
			&a.Correct, &a.HintsUsed, &a.TimeSpentSec, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *progressStore) IncrementDaily(ctx context.Context, userID string, delta progress.DailyStat) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO daily_stats (user_id, day, questions_attempted, questions_correct, easy_attempted, medium_attempted, hard_attempted, hints_used, time_spent_sec, xp_earned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day) DO UPDATE SET
			questions_attempted = questions_attempted + excluded.questions_attempted,
			questions_correct = questions_correct + excluded.questions_correct,
			easy_attempted = easy_attempted + excluded.easy_attempted,
			medium_attempted = medium_attempted + excluded.medium_attempted,
			hard_attempted = hard_attempted + excluded.hard_attempted,
			hints_used = hints_used + excluded.hints_used,
			time_spent_sec = time_spent_sec + excluded.time_spent_sec,
			xp_earned = xp_earned + excluded.xp_earned`,
		userID, delta.Day, delta.QuestionsAttempted, delta.QuestionsCorrect,
		delta.EasyAttempted, delta.MediumAttempted, delta.HardAttempted,
		delta.HintsUsed, delta.TimeSpentSec, delta.XPEarned,
	)
	if err != nil {
		return fmt.Errorf("increment daily stat: %w", err)
	}
	return nil
}

func (p *progressStore) DailyStats(ctx context.Context, userID string, days int) ([]progress.DailyStat, error) {
	if days <= 0 {
		days = -1
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT day, questions_attempted, questions_correct, easy_attempted, medium_attempted, hard_attempted, hints_used, time_spent_sec, xp_earned
		FROM daily_stats
		WHERE user_id = ?
		ORDER BY day DESC
		LIMIT ?`, userID, days)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	var out []progress.DailyStat
	for rows.Next() {
		var s progress.DailyStat
		if err := rows.Scan(
			&s.Day, &s.QuestionsAttempted, &s.QuestionsCorrect,
			&s.EasyAttempted, &s.MediumAttempted, &s.HardAttempted,
			&s.HintsUsed, &s.TimeSpentSec, &s.XPEarned,
		); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *progressStore) AddLeaderboardPoints(ctx context.Context, userID, day string, points int) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO leaderboard_scores (user_id, day, points) VALUES (?, ?, ?)`,
		userID, day, points,
	)
	if err != nil {
		return fmt.Errorf("add leaderboard points: %w", err)
	}
	return nil
}

func (p *progressStore) TopScores(ctx context.Context, limit int) ([]progress.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT s.user_id, COALESCE(u.display_name, ''), SUM(s.points) AS total
		FROM leaderboard_scores s
		LEFT JOIN users u ON u.id = s.user_id
		GROUP BY s.user_id
		ORDER BY total DESC, s.user_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []progress.LeaderboardEntry
	for rows.Next() {
		var e progress.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.TotalPoints); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *progressStore) Statistics(ctx context.Context, userID string) (*progress.UserStatistics, error) {
	var s progress.UserStatistics
	var subjectCounts string
	err := p.db.QueryRowContext(ctx, `
		SELECT user_id, total_xp, questions_attempted, questions_correct, hints_used,
			current_streak, longest_streak, subject_counts, last_active_day, updated_at
		FROM user_statistics
		WHERE user_id = ?`, userID).Scan(
		&s.UserID, &s.TotalXP, &s.QuestionsAttempted, &s.QuestionsCorrect, &s.HintsUsed,
		&s.CurrentStreak, &s.LongestStreak, &subjectCounts, &s.LastActiveDay, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}
	if subjectCounts != "" && subjectCounts != "{}" {
		if err := json.Unmarshal([]byte(subjectCounts), &s.SubjectCounts); err != nil {
			return nil, fmt.Errorf("decode subject counts: %w", err)
		}
	}
	return &s, nil
}

func (p *progressStore) SaveStatistics(ctx context.Context, s *progress.UserStatistics) error {
	subjectCounts := "{}"
	if len(s.SubjectCounts) > 0 {
		b, err := json.Marshal(s.SubjectCounts)
		if err != nil {
			return fmt.Errorf("encode subject counts: %w", err)
		}
		subjectCounts = string(b)
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO user_statistics
			(user_id, total_xp, questions_attempted, questions_correct, hints_used,
			 current_streak, longest_streak, subject_counts, last_active_day, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			questions_attempted = excluded.questions_attempted,
			questions_correct = excluded.questions_correct,
			hints_used = excluded.hints_used,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			subject_counts = excluded.subject_counts,
			last_active_day = excluded.last_active_day,
			updated_at = excluded.updated_at`,
		s.UserID, s.TotalXP, s.QuestionsAttempted, s.QuestionsCorrect, s.HintsUsed,
		s.CurrentStreak, s.LongestStreak, subjectCounts, s.LastActiveDay, s.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}

func (p *progressStore) AwardBadge(ctx context.Context, userID, badgeID string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO user_badges (user_id, badge_id, awarded_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, badgeID,
	)
	if err != nil {
		return fmt.Errorf("award badge: %w", err)
	}
	return nil
}

func (p *progressStore) Badges(ctx context.Context, userID string) ([]progress.AwardedBadge, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT badge_id, awarded_at
		FROM user_badges
		WHERE user_id = ?
		ORDER BY awarded_at ASC, badge_id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query badges: %w", err)
	}
	defer rows.Close()

	var out []progress.AwardedBadge
	for rows.Next() {
		var b progress.AwardedBadge
		if err := rows.Scan(&b.BadgeID, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *progressStore) MarkQuestion(ctx context.Context, m *progress.MarkedQuestion) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO marked_questions (user_id, question_id, major, subject, difficulty, number, marked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, question_id) DO NOTHING`,
		m.UserID, m.QuestionID, m.Major, m.Subject, m.Difficulty, m.Number, m.MarkedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark question: %w", err)
	}
	return nil
}

func (p *progressStore) UnmarkQuestion(ctx context.Context, userID, questionID string) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM marked_questions WHERE user_id = ? AND question_id = ?`,
		userID, questionID,
	)
	if err != nil {
		return fmt.Errorf("unmark question: %w", err)
	}
	return nil
}

func (p *progressStore) MarkedQuestions(ctx context.Context, userID string) ([]progress.MarkedQuestion, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT user_id, question_id, major, subject, difficulty, number, marked_at
		FROM marked_questions
		WHERE user_id = ?
		ORDER BY marked_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query marked questions: %w", err)
	}
	defer rows.Close()

	var out []progress.MarkedQuestion
	for rows.Next() {
		var m progress.MarkedQuestion
		if err := rows.Scan(&m.UserID, &m.QuestionID, &m.Major, &m.Subject, &m.Difficulty, &m.Number, &m.MarkedAt); err != nil {
			return nil, fmt.Errorf("scan marked question: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
