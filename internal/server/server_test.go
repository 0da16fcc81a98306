package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skillsync/skillsync/internal/bank"
	"github.com/skillsync/skillsync/internal/llm"
	"github.com/skillsync/skillsync/internal/progress"
	"github.com/skillsync/skillsync/internal/quota"
	"github.com/skillsync/skillsync/internal/store"
	"github.com/skillsync/skillsync/internal/tutor"
	"github.com/skillsync/skillsync/internal/users"
)

const testCorpus = `Easy Questions
1. What is the time value of money?
2. Define net present value.

Medium Questions
1. Explain the capital asset pricing model.

Hard Questions
1. Derive the Black-Scholes formula assumptions.
`

func newTestServer(t *testing.T, mock *llm.MockProvider) *Server {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	repo := bank.NewRepository()
	repo.Add(bank.Finance, "principles_of_finance", bank.Parse(testCorpus, "principles_of_finance"))
	repo.Add(bank.Law, "company_law", bank.Parse(testCorpus, "company_law"))

	q := quota.NewService()
	return New(Deps{
		Bank:     repo,
		Tutor:    tutor.NewService(mock, q),
		Quota:    q,
		Progress: progress.NewService(st.ProgressStore(), progress.NewMemory(), nil),
		Users:    users.NewService(st.UserStore()),
	})
}

func doJSON(t *testing.T, s *Server, method, path, body string, header map[string]string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := s.App().Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, data
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	resp, body := doJSON(t, s, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got struct {
		Status            string `json:"status"`
		Timestamp         string `json:"timestamp"`
		SubjectsProcessed int    `json:"subjectsProcessed"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "OK" {
		t.Errorf("status = %q, want OK", got.Status)
	}
	if got.SubjectsProcessed != 2 {
		t.Errorf("subjectsProcessed = %d, want 2", got.SubjectsProcessed)
	}
	if got.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestGetQuestion(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	resp, body := doJSON(t, s, http.MethodGet, "/api/finance-questions/principles_of_finance/Easy/1", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, body)
	}
	var q bank.Question
	if err := json.Unmarshal(body, &q); err != nil {
		t.Fatal(err)
	}
	if q.ID != "principles_of_finance_easy_2" {
		t.Errorf("id = %q", q.ID)
	}
	if q.Text != "Define net present value." {
		t.Errorf("text = %q", q.Text)
	}
	if q.Difficulty != "easy" {
		t.Errorf("difficulty = %q, want lowercase easy", q.Difficulty)
	}
	if q.Number != 2 {
		t.Errorf("number = %d, want 2", q.Number)
	}
}

func TestGetQuestionNotFound(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	tests := []struct {
		path string
		want string
	}{
		{"/api/finance-questions/no_such_subject/easy/0", "Subject or difficulty not found"},
		{"/api/finance-questions/principles_of_finance/impossible/0", "Subject or difficulty not found"},
		{"/api/finance-questions/principles_of_finance/easy/99", "Question not found"},
		{"/api/law-questions/principles_of_finance/easy/0", "Subject or difficulty not found"},
	}
	for _, tt := range tests {
		resp, body := doJSON(t, s, http.MethodGet, tt.path, "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", tt.path, resp.StatusCode)
			continue
		}
		var got struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatal(err)
		}
		if got.Error != tt.want {
			t.Errorf("%s: error = %q, want %q", tt.path, got.Error, tt.want)
		}
	}
}

func TestGetQuestionUnknownMajor(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())
	resp, _ := doJSON(t, s, http.MethodGet, "/api/history-questions/principles_of_finance/easy/0", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSolution(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("## Answer\n**NPV** discounts future cash flows.")})
	s := newTestServer(t, mock)

	body := `{"question": "Define NPV.", "subject": "principles_of_finance", "difficulty": "easy"}`
	resp, data := doJSON(t, s, http.MethodPost, "/api/finance-questions/solution", body, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (body %s)", resp.StatusCode, data)
	}
	var got struct {
		Solution string `json:"solution"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Solution != "Answer\nNPV discounts future cash flows." {
		t.Errorf("solution = %q, markdown not stripped", got.Solution)
	}
}

func TestSolutionMissingQuestion(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())
	resp, _ := doJSON(t, s, http.MethodPost, "/api/finance-questions/solution", `{}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSolutionOracleFailure(t *testing.T) {
	// Empty queue: every Generate fails.
	s := newTestServer(t, llm.NewMockProvider())
	body := `{"question": "Define NPV.", "subject": "principles_of_finance", "difficulty": "easy"}`
	resp, _ := doJSON(t, s, http.MethodPost, "/api/finance-questions/solution", body, nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHintQuota(t *testing.T) {
	mock := llm.NewMockProvider()
	for i := 0; i < quota.DailyHintLimit; i++ {
		mock.AddResponse(llm.MockResponse{Content: json.RawMessage(fmt.Sprintf("hint %d", i+1))})
	}
	s := newTestServer(t, mock)

	body := `{"question": "Define NPV.", "subject": "principles_of_finance", "difficulty": "easy", "hintsUsed": 0}`
	hdr := map[string]string{"user-id": "u1"}

	for i := 0; i < quota.DailyHintLimit; i++ {
		resp, data := doJSON(t, s, http.MethodPost, "/api/finance-questions/hint", body, hdr)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("hint %d: status = %d (body %s)", i+1, resp.StatusCode, data)
		}
	}

	resp, data := doJSON(t, s, http.MethodPost, "/api/finance-questions/hint", body, hdr)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("6th hint: status = %d, want 429 (body %s)", resp.StatusCode, data)
	}
	var got struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Error != "Daily hint limit exceeded" {
		t.Errorf("error = %q", got.Error)
	}

	// A different user still has quota.
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage("fresh hint")})
	resp, _ = doJSON(t, s, http.MethodPost, "/api/finance-questions/hint", body, map[string]string{"user-id": "u2"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("other user: status = %d, want 200", resp.StatusCode)
	}
}

func TestCheckAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"isCorrect": true, "confidence": "high", "feedback": "Spot on.", "suggestions": ""}`,
	)})
	s := newTestServer(t, mock)

	body := `{"question": "Define NPV.", "userAnswer": "Discounted cash flows.", "subject": "principles_of_finance", "difficulty": "easy"}`
	resp, data := doJSON(t, s, http.MethodPost, "/api/finance-questions/check-answer", body, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (body %s)", resp.StatusCode, data)
	}
	var ev tutor.Evaluation
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatal(err)
	}
	if !ev.IsCorrect || ev.Confidence != "high" {
		t.Errorf("evaluation = %+v", ev)
	}
}

func TestCheckAnswerFallsBackOn200(t *testing.T) {
	// Oracle down: the endpoint still answers 200 with the fixed verdict.
	s := newTestServer(t, llm.NewMockProvider())

	body := `{"question": "Define NPV.", "userAnswer": "No idea.", "subject": "principles_of_finance", "difficulty": "easy"}`
	resp, data := doJSON(t, s, http.MethodPost, "/api/finance-questions/check-answer", body, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, data)
	}
	var ev tutor.Evaluation
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatal(err)
	}
	if ev != tutor.FallbackEvaluation() {
		t.Errorf("evaluation = %+v, want fallback", ev)
	}
}

func TestCheckAnswerMissingFields(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())
	resp, _ := doJSON(t, s, http.MethodPost, "/api/finance-questions/check-answer", `{"question": "Q"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRecordAttemptAndStats(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	body := `{"userId": "u1", "major": "finance", "subject": "principles_of_finance", "difficulty": "hard", "questionId": "principles_of_finance_hard_1", "correct": true}`
	resp, data := doJSON(t, s, http.MethodPost, "/api/attempts", body, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d (body %s)", resp.StatusCode, data)
	}
	var res progress.RecordResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.PointsEarned != 30 {
		t.Errorf("pointsEarned = %d, want 30", res.PointsEarned)
	}
	if res.Stats == nil || res.Stats.CurrentStreak != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}

	resp, data = doJSON(t, s, http.MethodGet, "/api/stats/u1", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", resp.StatusCode)
	}
	var stats progress.UserStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalXP != 30 || stats.QuestionsAttempted != 1 {
		t.Errorf("stats = %+v", stats)
	}

	resp, data = doJSON(t, s, http.MethodGet, "/api/stats/u1/daily?days=7", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("daily status = %d", resp.StatusCode)
	}
	var daily []progress.DailyStat
	if err := json.Unmarshal(data, &daily); err != nil {
		t.Fatal(err)
	}
	if len(daily) != 1 || daily[0].XPEarned != 30 {
		t.Errorf("daily = %+v", daily)
	}
}

func TestLeaderboard(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	post := func(user, difficulty string) {
		body := fmt.Sprintf(`{"userId": %q, "major": "finance", "subject": "principles_of_finance", "difficulty": %q, "questionId": "q", "correct": true}`, user, difficulty)
		resp, data := doJSON(t, s, http.MethodPost, "/api/attempts", body, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("attempt: status = %d (body %s)", resp.StatusCode, data)
		}
	}
	post("alice", "hard")
	post("bob", "easy")

	resp, data := doJSON(t, s, http.MethodGet, "/api/leaderboard?limit=10", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var entries []progress.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].UserID != "alice" || entries[0].TotalPoints != 30 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	resp, data := doJSON(t, s, http.MethodPost, "/api/users/register",
		`{"username": "Alice", "password": "a long password", "displayName": "Alice W."}`, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d (body %s)", resp.StatusCode, data)
	}
	var u users.User
	if err := json.Unmarshal(data, &u); err != nil {
		t.Fatal(err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q", u.Username)
	}
	if strings.Contains(string(data), "password") {
		t.Error("response leaks password material")
	}

	resp, _ = doJSON(t, s, http.MethodPost, "/api/users/register",
		`{"username": "alice", "password": "another password"}`, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	resp, _ = doJSON(t, s, http.MethodPost, "/api/users/login",
		`{"username": "alice", "password": "a long password"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("login status = %d, want 200", resp.StatusCode)
	}

	resp, _ = doJSON(t, s, http.MethodPost, "/api/users/login",
		`{"username": "alice", "password": "wrong password"}`, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}

	resp, data = doJSON(t, s, http.MethodPut, "/api/users/"+u.ID+"/avatar",
		`{"avatarUrl": "https://cdn.example/a.png"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("avatar status = %d (body %s)", resp.StatusCode, data)
	}
	var updated users.User
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.AvatarURL != "https://cdn.example/a.png" {
		t.Errorf("avatarUrl = %q", updated.AvatarURL)
	}
}

func TestMarkedQuestionsEndpoints(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	body := `{"questionId": "company_law_hard_1", "major": "law", "subject": "company_law", "difficulty": "hard", "number": 1}`
	resp, data := doJSON(t, s, http.MethodPost, "/api/users/u1/marked", body, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("mark status = %d (body %s)", resp.StatusCode, data)
	}

	resp, data = doJSON(t, s, http.MethodGet, "/api/users/u1/marked", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var marked []progress.MarkedQuestion
	if err := json.Unmarshal(data, &marked); err != nil {
		t.Fatal(err)
	}
	if len(marked) != 1 || marked[0].QuestionID != "company_law_hard_1" {
		t.Errorf("marked = %+v", marked)
	}

	resp, _ = doJSON(t, s, http.MethodDelete, "/api/users/u1/marked/company_law_hard_1", "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("unmark status = %d, want 204", resp.StatusCode)
	}

	resp, data = doJSON(t, s, http.MethodGet, "/api/users/u1/marked", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, &marked); err != nil {
		t.Fatal(err)
	}
	if len(marked) != 0 {
		t.Errorf("marked after delete = %+v", marked)
	}
}
