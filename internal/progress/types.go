// Package progress aggregates answer attempts into daily stats, leaderboard
// scores, lifetime statistics, and badges.
package progress

import "time"

// Attempt is a single answered question.
type Attempt struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Major        string    `json:"major"`
	Subject      string    `json:"subject"`
	Difficulty   string    `json:"difficulty"`
	QuestionID   string    `json:"questionId"`
	Correct      bool      `json:"correct"`
	HintsUsed    int       `json:"hintsUsed"`
	TimeSpentSec int       `json:"timeSpentSec"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DailyStat is one user's activity for a single calendar day.
type DailyStat struct {
	Day                string `json:"day"` // YYYY-MM-DD
	QuestionsAttempted int    `json:"questionsAttempted"`
	QuestionsCorrect   int    `json:"questionsCorrect"`
	EasyAttempted      int    `json:"easyAttempted"`
	MediumAttempted    int    `json:"mediumAttempted"`
	HardAttempted      int    `json:"hardAttempted"`
	HintsUsed          int    `json:"hintsUsed"`
	TimeSpentSec       int    `json:"timeSpentSec"`
	XPEarned           int    `json:"xpEarned"`
}

// LeaderboardEntry is one row of the ranked leaderboard.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	TotalPoints int    `json:"totalPoints"`
	Rank        int    `json:"rank"`
}

// UserStatistics is a user's lifetime aggregate.
type UserStatistics struct {
	UserID             string    `json:"userId"`
	TotalXP            int       `json:"totalXp"`
	QuestionsAttempted int       `json:"questionsAttempted"`
	QuestionsCorrect   int       `json:"questionsCorrect"`
	HintsUsed          int       `json:"hintsUsed"`
	CurrentStreak      int       `json:"currentStreak"` // consecutive correct answers ending at the latest attempt
	LongestStreak      int       `json:"longestStreak"`
	// SubjectCounts tracks attempts per subject key.
	SubjectCounts map[string]int `json:"subjectCounts,omitempty"`
	LastActiveDay string         `json:"lastActiveDay"` // YYYY-MM-DD, empty if never active
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Accuracy returns the fraction of attempted questions answered correctly,
// in [0, 1]. Zero attempts yields zero.
func (s *UserStatistics) Accuracy() float64 {
	if s.QuestionsAttempted == 0 {
		return 0
	}
	return float64(s.QuestionsCorrect) / float64(s.QuestionsAttempted)
}

// Badge is a catalog entry; AwardedBadge records a user earning one.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type AwardedBadge struct {
	BadgeID   string    `json:"badgeId"`
	AwardedAt time.Time `json:"awardedAt"`
}

// MarkedQuestion is a question a user flagged for later review.
type MarkedQuestion struct {
	UserID     string    `json:"userId"`
	QuestionID string    `json:"questionId"`
	Major      string    `json:"major"`
	Subject    string    `json:"subject"`
	Difficulty string    `json:"difficulty"`
	Number     int       `json:"number"`
	MarkedAt   time.Time `json:"markedAt"`
}
