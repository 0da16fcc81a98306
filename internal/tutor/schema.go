package tutor

import "github.com/skillsync/skillsync/internal/llm"

// EvaluationSchema defines the JSON shape a check-answer reply must carry.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Graded evaluation of a student's answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isCorrect": map[string]any{
				"type":        "boolean",
				"description": "Whether the student's answer is correct",
			},
			"confidence": map[string]any{
				"type":        "string",
				"enum":        []any{"high", "medium", "low"},
				"description": "How confident the grader is in the verdict",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Brief explanation of why the answer is correct or incorrect",
			},
			"suggestions": map[string]any{
				"type":        "string",
				"description": "If incorrect, helpful suggestions for improvement",
			},
		},
		// Extra fields are tolerated: the oracle sometimes volunteers more
		// than asked, and that alone is no reason to discard a valid verdict.
		"required": []any{"isCorrect", "confidence", "feedback", "suggestions"},
	},
}
