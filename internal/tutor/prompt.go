package tutor

import (
	"fmt"
	"strings"
)

// Per-major tutor personas. Unknown majors get the generic persona.
var systemPrompts = map[string]string{
	"finance": "You are an expert finance educator helping university students practice exam-style questions.",
	"law":     "You are an expert law tutor helping university students practice exam-style questions.",
	"biomed":  "You are an expert biomedical sciences tutor helping university students practice exam-style questions.",
}

const genericSystemPrompt = "You are an expert educator helping university students practice exam-style questions."

const noMarkdown = "IMPORTANT: Provide clean, plain text responses without markdown formatting (no **, ##, or other markdown symbols)."

func systemPrompt(major string) string {
	if p, ok := systemPrompts[major]; ok {
		return p
	}
	return genericSystemPrompt
}

// solutionPoints lists what a solution must cover, per major. The shape is
// shared; only the domain-specific bullet differs.
var solutionPoints = map[string][]string{
	"finance": {
		"A clear, detailed answer",
		"Step-by-step explanation if applicable",
		"Key concepts and formulas used",
		"Real-world examples or applications where relevant",
		"Common mistakes to avoid",
	},
	"law": {
		"A clear and detailed answer",
		"Key legal principles involved",
		"Relevant case law or statutes (if applicable)",
		"Step-by-step reasoning",
		"Important considerations",
	},
	"biomed": {
		"A clear and detailed answer",
		"Key scientific principles involved",
		"Relevant biological processes or mechanisms",
		"Step-by-step reasoning",
		"Important considerations for biomedical practice",
	},
}

func buildSolutionMessage(q QuestionContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Provide a comprehensive, step-by-step solution for this %s level question in %s.\n\n", q.Difficulty, q.Subject)
	fmt.Fprintf(&b, "Question: %s\n\n", q.Text)

	b.WriteString("Please provide:\n")
	points, ok := solutionPoints[q.Major]
	if !ok {
		points = solutionPoints["finance"]
	}
	for i, p := range points {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}

	b.WriteString("\nFormat your response in a clear, educational manner suitable for university students.\n\n")
	b.WriteString(noMarkdown)

	return b.String()
}

func buildHintMessage(q QuestionContext, level int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Provide a helpful hint for this %s level question in %s.\n\n", q.Difficulty, q.Subject)
	fmt.Fprintf(&b, "Question: %s\n\n", q.Text)
	fmt.Fprintf(&b, "Hint level: %d (%s)\n\n", level+1, hintLevels[level])

	b.WriteString("Provide a hint that helps the student think about the problem without giving away the complete answer. Make it educational and encouraging.\n\n")
	b.WriteString(noMarkdown)

	return b.String()
}

func buildCheckAnswerMessage(q QuestionContext, userAnswer string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Please evaluate the student's answer to this %s question in %s.\n\n", strings.ToLower(q.Difficulty), q.Subject)
	fmt.Fprintf(&b, "Question: %q\n\n", q.Text)
	fmt.Fprintf(&b, "Student's Answer: %q\n\n", userAnswer)

	b.WriteString(`Provide your evaluation in the following JSON format:
{
  "isCorrect": true/false,
  "confidence": "high/medium/low",
  "feedback": "Brief explanation of why the answer is correct or incorrect",
  "suggestions": "If incorrect, provide helpful suggestions for improvement"
}

Be fair but thorough in your evaluation. Consider partial credit for answers that show understanding but may have minor errors.

`)
	b.WriteString(noMarkdown)

	return b.String()
}
