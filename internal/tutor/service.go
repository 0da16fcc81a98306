package tutor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skillsync/skillsync/internal/llm"
	"github.com/skillsync/skillsync/internal/quota"
)

// Service answers tutoring requests by calling the configured oracle and
// shaping its output for students. Hint requests are metered per user per day.
type Service struct {
	provider llm.Provider
	quota    *quota.Service
}

func NewService(provider llm.Provider, q *quota.Service) *Service {
	return &Service{provider: provider, quota: q}
}

// Solution asks the oracle for a full worked solution. The returned text has
// markdown artifacts stripped.
func (s *Service) Solution(ctx context.Context, q QuestionContext) (string, error) {
	ctx = llm.WithPurpose(ctx, "solution")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt(q.Major),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSolutionMessage(q)},
		},
		MaxTokens:   2048,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generating solution: %w", err)
	}
	return Clean(resp.Text()), nil
}

// Hint returns the next hint for a question. hintsUsed is how many hints the
// student has already seen for this question and picks the disclosure level.
// The daily quota is checked before the oracle is called and consumed only
// after the oracle answers, so a failed call costs nothing.
func (s *Service) Hint(ctx context.Context, q QuestionContext, hintsUsed int, userKey string) (string, error) {
	if !s.quota.Check(userKey) {
		return "", ErrQuotaExceeded
	}

	ctx = llm.WithPurpose(ctx, "hint")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt(q.Major),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHintMessage(q, HintLevel(hintsUsed))},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generating hint: %w", err)
	}
	s.quota.Consume(userKey)
	return Clean(resp.Text()), nil
}

// CheckAnswer grades a student's answer. It never returns an error for oracle
// or parse failures: anything short of a valid verdict degrades to the fixed
// fallback evaluation so the student always gets a response.
func (s *Service) CheckAnswer(ctx context.Context, q QuestionContext, userAnswer string) Evaluation {
	ctx = llm.WithPurpose(ctx, "check_answer")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt(q.Major),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCheckAnswerMessage(q, userAnswer)},
		},
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return FallbackEvaluation()
	}

	raw, ok := ExtractObject(resp.Text())
	if !ok {
		return FallbackEvaluation()
	}
	if err := llm.Validate(EvaluationSchema, raw); err != nil {
		return FallbackEvaluation()
	}

	var ev Evaluation
	if err := json.Unmarshal(raw, &ev); err != nil {
		return FallbackEvaluation()
	}
	ev.Feedback = Clean(ev.Feedback)
	ev.Suggestions = Clean(ev.Suggestions)
	return ev
}
