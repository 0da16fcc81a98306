package progress

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Store. It backs tests and serves as the fallback
// when the durable store is unavailable, so a database outage degrades to
// per-process progress tracking instead of failed requests.
type Memory struct {
	mu       sync.Mutex
	attempts map[string][]Attempt
	daily    map[string]map[string]*DailyStat // userID -> day -> stat
	points   map[string]int                   // userID -> total points
	stats    map[string]*UserStatistics
	badges   map[string][]AwardedBadge
	marked   map[string][]MarkedQuestion
}

func NewMemory() *Memory {
	return &Memory{
		attempts: make(map[string][]Attempt),
		daily:    make(map[string]map[string]*DailyStat),
		points:   make(map[string]int),
		stats:    make(map[string]*UserStatistics),
		badges:   make(map[string][]AwardedBadge),
		marked:   make(map[string][]MarkedQuestion),
	}
}

func (m *Memory) SaveAttempt(_ context.Context, a *Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.UserID] = append(m.attempts[a.UserID], *a)
	return nil
}

func (m *Memory) Attempts(_ context.Context, userID string, limit int) ([]Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.attempts[userID]
	out := make([]Attempt, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}

func (m *Memory) IncrementDaily(_ context.Context, userID string, delta DailyStat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	days := m.daily[userID]
	if days == nil {
		days = make(map[string]*DailyStat)
		m.daily[userID] = days
	}
	s := days[delta.Day]
	if s == nil {
		s = &DailyStat{Day: delta.Day}
		days[delta.Day] = s
	}
	s.QuestionsAttempted += delta.QuestionsAttempted
	s.QuestionsCorrect += delta.QuestionsCorrect
	s.EasyAttempted += delta.EasyAttempted
	s.MediumAttempted += delta.MediumAttempted
	s.HardAttempted += delta.HardAttempted
	s.HintsUsed += delta.HintsUsed
	s.TimeSpentSec += delta.TimeSpentSec
	s.XPEarned += delta.XPEarned
	return nil
}

func (m *Memory) DailyStats(_ context.Context, userID string, days int) ([]DailyStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DailyStat, 0, len(m.daily[userID]))
	for _, s := range m.daily[userID] {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	if days > 0 && len(out) > days {
		out = out[:days]
	}
	return out, nil
}

func (m *Memory) AddLeaderboardPoints(_ context.Context, userID, _ string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[userID] += points
	return nil
}

func (m *Memory) TopScores(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LeaderboardEntry, 0, len(m.points))
	for id, pts := range m.points {
		out = append(out, LeaderboardEntry{UserID: id, TotalPoints: pts})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (m *Memory) Statistics(_ context.Context, userID string) (*UserStatistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyStatistics(s), nil
}

func (m *Memory) SaveStatistics(_ context.Context, s *UserStatistics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[s.UserID] = copyStatistics(s)
	return nil
}

// copyStatistics clones the aggregate so callers cannot alias the stored map.
func copyStatistics(s *UserStatistics) *UserStatistics {
	cp := *s
	if s.SubjectCounts != nil {
		cp.SubjectCounts = make(map[string]int, len(s.SubjectCounts))
		for k, v := range s.SubjectCounts {
			cp.SubjectCounts[k] = v
		}
	}
	return &cp
}

func (m *Memory) AwardBadge(_ context.Context, userID, badgeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.badges[userID] {
		if b.BadgeID == badgeID {
			return nil
		}
	}
	m.badges[userID] = append(m.badges[userID], AwardedBadge{BadgeID: badgeID, AwardedAt: time.Now()})
	return nil
}

func (m *Memory) Badges(_ context.Context, userID string) ([]AwardedBadge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AwardedBadge, len(m.badges[userID]))
	copy(out, m.badges[userID])
	return out, nil
}

func (m *Memory) MarkQuestion(_ context.Context, q *MarkedQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.marked[q.UserID] {
		if existing.QuestionID == q.QuestionID {
			return nil
		}
	}
	m.marked[q.UserID] = append(m.marked[q.UserID], *q)
	return nil
}

func (m *Memory) UnmarkQuestion(_ context.Context, userID, questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.marked[userID]
	for i, q := range list {
		if q.QuestionID == questionID {
			m.marked[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) MarkedQuestions(_ context.Context, userID string) ([]MarkedQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.marked[userID]
	out := make([]MarkedQuestion, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
