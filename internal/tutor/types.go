// Package tutor orchestrates the generative-AI oracle for three operations:
// solutions, leveled hints, and answer evaluation. Oracle output is never
// trusted: plain text passes through a cleaning pipeline and structured
// replies are reconciled with a total fallback.
package tutor

import "errors"

// QuestionContext identifies the question an oracle operation is about.
type QuestionContext struct {
	Major      string // finance, law, biomed
	Subject    string
	Difficulty string
	Text       string
}

// Evaluation is the graded result of a check-answer call. Every call yields
// a fully-populated Evaluation, including the fallback path, so consumers
// never branch on shape.
type Evaluation struct {
	IsCorrect   bool   `json:"isCorrect"`
	Confidence  string `json:"confidence"`
	Feedback    string `json:"feedback"`
	Suggestions string `json:"suggestions"`
}

// FallbackEvaluation is the fixed evaluation substituted when the oracle's
// reply cannot be reconciled into a valid object.
func FallbackEvaluation() Evaluation {
	return Evaluation{
		IsCorrect:   false,
		Confidence:  "low",
		Feedback:    "Unable to evaluate answer. Please try again.",
		Suggestions: "Make sure your answer is clear and addresses the question directly.",
	}
}

// ErrQuotaExceeded is returned by Hint when the caller's daily hint quota
// is spent. The oracle is not contacted in that case.
var ErrQuotaExceeded = errors.New("daily hint limit exceeded")

// hintLevels are the five escalating hint framings, selected by
// min(hintsUsed, 4). Level 0 is a gentle nudge; level 4 walks through the
// full solution.
var hintLevels = [5]string{
	"Provide a gentle nudge or key concept to consider",
	"Give a more specific hint about the approach or formula",
	"Offer a step-by-step breakdown of the solution approach",
	"Provide a detailed explanation of the key concepts involved",
	"Give the complete solution with full explanation",
}

// HintLevel clamps hintsUsed to a valid hint level index.
func HintLevel(hintsUsed int) int {
	if hintsUsed < 0 {
		return 0
	}
	if hintsUsed >= len(hintLevels) {
		return len(hintLevels) - 1
	}
	return hintsUsed
}
