package progress

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() (*Service, *Memory) {
	mem := NewMemory()
	svc := NewService(mem, nil, nil)
	return svc, mem
}

func attemptAt(userID string, correct bool, at time.Time) *Attempt {
	return &Attempt{
		UserID:     userID,
		Major:      "finance",
		Subject:    "principles_of_finance",
		Difficulty: "easy",
		QuestionID: "principles_of_finance_easy_1",
		Correct:    correct,
		CreatedAt:  at,
	}
}

func TestRecordAttemptFillsIdentity(t *testing.T) {
	svc, _ := newTestService()

	a := attemptAt("u1", true, time.Time{})
	res, err := svc.RecordAttempt(context.Background(), a)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if a.ID == "" {
		t.Error("attempt ID not assigned")
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}
	if res.PointsEarned != 10 {
		t.Errorf("PointsEarned = %d, want 10 for correct easy answer", res.PointsEarned)
	}
}

func TestRecordAttemptPointsByDifficulty(t *testing.T) {
	tests := []struct {
		difficulty string
		correct    bool
		want       int
	}{
		{"easy", true, 10},
		{"medium", true, 20},
		{"hard", true, 30},
		{"Easy", true, 10},
		{"hard", false, 0},
	}
	for _, tt := range tests {
		svc, _ := newTestService()
		a := attemptAt("u1", tt.correct, time.Now())
		a.Difficulty = tt.difficulty
		res, err := svc.RecordAttempt(context.Background(), a)
		if err != nil {
			t.Fatalf("RecordAttempt(%s): %v", tt.difficulty, err)
		}
		if res.PointsEarned != tt.want {
			t.Errorf("%s correct=%v: points = %d, want %d", tt.difficulty, tt.correct, res.PointsEarned, tt.want)
		}
	}
}

func TestStreakCountsConsecutiveCorrectAnswers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	record := func(correct bool) *UserStatistics {
		res, err := svc.RecordAttempt(ctx, attemptAt("u1", correct, at))
		if err != nil {
			t.Fatal(err)
		}
		return res.Stats
	}

	// correct, correct, correct: streak runs up.
	for i := 1; i <= 3; i++ {
		if s := record(true); s.CurrentStreak != i {
			t.Errorf("after %d correct: CurrentStreak = %d, want %d", i, s.CurrentStreak, i)
		}
	}

	// An incorrect answer resets to zero but keeps the longest run.
	s := record(false)
	if s.CurrentStreak != 0 {
		t.Errorf("after incorrect: CurrentStreak = %d, want 0", s.CurrentStreak)
	}
	if s.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", s.LongestStreak)
	}

	// A shorter new run does not displace the longest.
	record(true)
	s = record(true)
	if s.CurrentStreak != 2 {
		t.Errorf("new run: CurrentStreak = %d, want 2", s.CurrentStreak)
	}
	if s.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", s.LongestStreak)
	}
}

func TestStreakAlternatingSequence(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// For an alternating correct/incorrect sequence the streak after each
	// attempt is the trailing run of correct answers.
	sequence := []bool{true, false, true, false, true, true, false}
	wantCurrent := []int{1, 0, 1, 0, 1, 2, 0}
	wantLongest := []int{1, 1, 1, 1, 1, 2, 2}

	for i, correct := range sequence {
		res, err := svc.RecordAttempt(ctx, attemptAt("u1", correct, at))
		if err != nil {
			t.Fatal(err)
		}
		if res.Stats.CurrentStreak != wantCurrent[i] {
			t.Errorf("attempt %d: CurrentStreak = %d, want %d", i, res.Stats.CurrentStreak, wantCurrent[i])
		}
		if res.Stats.LongestStreak != wantLongest[i] {
			t.Errorf("attempt %d: LongestStreak = %d, want %d", i, res.Stats.LongestStreak, wantLongest[i])
		}
	}
}

func TestStatsAccumulateRegardlessOfCorrectness(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Alternate correct and incorrect answers.
	for i := 0; i < 6; i++ {
		if _, err := svc.RecordAttempt(ctx, attemptAt("u1", i%2 == 0, at)); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := svc.Statistics(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.QuestionsAttempted != 6 {
		t.Errorf("QuestionsAttempted = %d, want 6", stats.QuestionsAttempted)
	}
	if stats.QuestionsCorrect != 3 {
		t.Errorf("QuestionsCorrect = %d, want 3", stats.QuestionsCorrect)
	}
	if stats.TotalXP != 30 {
		t.Errorf("TotalXP = %d, want 30", stats.TotalXP)
	}
	if got := stats.Accuracy(); got != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", got)
	}
}

func TestDailyStatsAggregatePerDay(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := attemptAt("u1", true, day)
	a.HintsUsed = 2
	a.TimeSpentSec = 90
	if _, err := svc.RecordAttempt(ctx, a); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordAttempt(ctx, attemptAt("u1", false, day.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordAttempt(ctx, attemptAt("u1", true, day.AddDate(0, 0, 1))); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.DailyStats(ctx, "u1", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d day rows, want 2", len(stats))
	}
	// Newest first.
	if stats[0].Day != "2026-03-02" || stats[1].Day != "2026-03-01" {
		t.Errorf("day order = %s, %s", stats[0].Day, stats[1].Day)
	}
	first := stats[1]
	if first.QuestionsAttempted != 2 || first.QuestionsCorrect != 1 {
		t.Errorf("day1 attempted/correct = %d/%d, want 2/1", first.QuestionsAttempted, first.QuestionsCorrect)
	}
	if first.HintsUsed != 2 || first.TimeSpentSec != 90 {
		t.Errorf("day1 hints/time = %d/%d, want 2/90", first.HintsUsed, first.TimeSpentSec)
	}
	if first.EasyAttempted != 2 {
		t.Errorf("day1 EasyAttempted = %d, want 2", first.EasyAttempted)
	}
}

func TestDailyStatsCountPerDifficulty(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, d := range []string{"easy", "medium", "medium", "hard"} {
		a := attemptAt("u1", true, at)
		a.Difficulty = d
		if _, err := svc.RecordAttempt(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.DailyStats(ctx, "u1", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Fatalf("got %d day rows, want 1", len(stats))
	}
	day := stats[0]
	if day.EasyAttempted != 1 || day.MediumAttempted != 2 || day.HardAttempted != 1 {
		t.Errorf("easy/medium/hard = %d/%d/%d, want 1/2/1",
			day.EasyAttempted, day.MediumAttempted, day.HardAttempted)
	}
}

func TestSubjectCountsAccumulate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	at := time.Now()

	for i := 0; i < 2; i++ {
		if _, err := svc.RecordAttempt(ctx, attemptAt("u1", true, at)); err != nil {
			t.Fatal(err)
		}
	}
	other := attemptAt("u1", false, at)
	other.Subject = "corporate_law"
	other.Major = "law"
	if _, err := svc.RecordAttempt(ctx, other); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Statistics(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got := stats.SubjectCounts["principles_of_finance"]; got != 2 {
		t.Errorf("principles_of_finance count = %d, want 2", got)
	}
	if got := stats.SubjectCounts["corporate_law"]; got != 1 {
		t.Errorf("corporate_law count = %d, want 1", got)
	}
}

func TestLeaderboardRanksByPoints(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	at := time.Now()

	hard := attemptAt("alice", true, at)
	hard.Difficulty = "hard"
	if _, err := svc.RecordAttempt(ctx, hard); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordAttempt(ctx, attemptAt("bob", true, at)); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].UserID != "alice" || entries[0].TotalPoints != 30 || entries[0].Rank != 1 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].UserID != "bob" || entries[1].TotalPoints != 10 || entries[1].Rank != 2 {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestBadgesAwardedOnce(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	at := time.Now()

	res, err := svc.RecordAttempt(ctx, attemptAt("u1", true, at))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.NewBadges) == 0 || res.NewBadges[0].ID != "first_question" {
		t.Fatalf("first attempt badges = %+v, want first_question", res.NewBadges)
	}

	res, err = svc.RecordAttempt(ctx, attemptAt("u1", true, at))
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range res.NewBadges {
		if b.ID == "first_question" {
			t.Error("first_question awarded twice")
		}
	}
}

func TestMarkedQuestionsRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m := &MarkedQuestion{
		UserID:     "u1",
		QuestionID: "company_law_hard_3",
		Major:      "law",
		Subject:    "company_law",
		Difficulty: "hard",
		Number:     3,
	}
	if err := svc.MarkQuestion(ctx, m); err != nil {
		t.Fatal(err)
	}
	if err := svc.MarkQuestion(ctx, m); err != nil {
		t.Fatal(err)
	}

	got, err := svc.MarkedQuestions(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d marked questions, want 1 (duplicate mark must be a no-op)", len(got))
	}
	if got[0].MarkedAt.IsZero() {
		t.Error("MarkedAt not assigned")
	}

	if err := svc.UnmarkQuestion(ctx, "u1", "company_law_hard_3"); err != nil {
		t.Fatal(err)
	}
	got, err = svc.MarkedQuestions(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d marked questions after unmark, want 0", len(got))
	}
}

// failingStore errors on every call so the fallback path can be observed.
type failingStore struct{ Store }

var errDown = errors.New("store down")

func (f *failingStore) SaveAttempt(context.Context, *Attempt) error { return errDown }
func (f *failingStore) Statistics(context.Context, string) (*UserStatistics, error) {
	return nil, errDown
}

func TestFallbackStoreTakesOver(t *testing.T) {
	mem := NewMemory()
	svc := NewService(&failingStore{Store: NewMemory()}, mem, nil)
	ctx := context.Background()

	res, err := svc.RecordAttempt(ctx, attemptAt("u1", true, time.Now()))
	if err != nil {
		t.Fatalf("RecordAttempt with failing primary: %v", err)
	}
	if res.PointsEarned != 10 {
		t.Errorf("PointsEarned = %d, want 10", res.PointsEarned)
	}

	attempts, err := mem.Attempts(ctx, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(attempts) != 1 {
		t.Errorf("fallback holds %d attempts, want 1", len(attempts))
	}
}

func TestStatisticsForNewUserIsZeroed(t *testing.T) {
	svc, _ := newTestService()
	stats, err := svc.Statistics(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.UserID != "nobody" || stats.QuestionsAttempted != 0 || stats.TotalXP != 0 {
		t.Errorf("stats = %+v, want zeroed", stats)
	}
}
