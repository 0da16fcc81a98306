// Package quota gates hint issuance at a fixed daily limit per user.
package quota

import (
	"sync"
	"time"
)

// DailyHintLimit is the number of hints a user may receive per calendar day.
const DailyHintLimit = 5

// DayKey formats a time as the calendar-day bucket key. Day boundaries are
// the server's local midnight; two requests straddling midnight land in
// different buckets even when less than a day apart.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Service tracks per-user, per-day hint counts. It holds only in-memory
// state and is injected into handlers; stale day buckets accumulate and are
// simply never read again.
type Service struct {
	limit int
	now   func() time.Time

	mu     sync.Mutex
	counts map[string]map[string]int // userKey -> dayKey -> count
}

// NewService creates a quota service with the standard daily limit.
func NewService() *Service {
	return &Service{
		limit:  DailyHintLimit,
		now:    time.Now,
		counts: make(map[string]map[string]int),
	}
}

// Check reports whether the user has quota left today, without consuming.
func (s *Service) Check(userKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[userKey][DayKey(s.now())] < s.limit
}

// Consume increments today's count for the user. It is called only after a
// hint was successfully produced, so a failed oracle call never costs quota.
func (s *Service) Consume(userKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := DayKey(s.now())
	if s.counts[userKey] == nil {
		s.counts[userKey] = make(map[string]int)
	}
	s.counts[userKey][day]++
}

// TryConsume atomically checks and consumes one unit of today's quota.
// Returns false, without incrementing, once the limit is reached.
func (s *Service) TryConsume(userKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := DayKey(s.now())
	if s.counts[userKey][day] >= s.limit {
		return false
	}
	if s.counts[userKey] == nil {
		s.counts[userKey] = make(map[string]int)
	}
	s.counts[userKey][day]++
	return true
}

// Count returns today's consumed count for the user.
func (s *Service) Count(userKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[userKey][DayKey(s.now())]
}

// Remaining returns how many hints the user may still receive today.
func (s *Service) Remaining(userKey string) int {
	if r := s.limit - s.Count(userKey); r > 0 {
		return r
	}
	return 0
}

// Reset clears all counters for a user, across all days.
func (s *Service) Reset(userKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, userKey)
}
