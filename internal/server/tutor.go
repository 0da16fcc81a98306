package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/skillsync/skillsync/internal/tutor"
)

type tutorRequest struct {
	Question   string `json:"question"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	HintsUsed  int    `json:"hintsUsed"`
	UserAnswer string `json:"userAnswer"`
}

func (r *tutorRequest) questionContext(major string) tutor.QuestionContext {
	return tutor.QuestionContext{
		Major:      major,
		Subject:    r.Subject,
		Difficulty: r.Difficulty,
		Text:       r.Question,
	}
}

func (s *Server) handleSolution(c *fiber.Ctx) error {
	major, ok := s.major(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown major"})
	}
	var req tutorRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question is required"})
	}

	solution, err := s.deps.Tutor.Solution(c.Context(), req.questionContext(string(major)))
	if err != nil {
		log.Printf("[TUTOR] solution failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate solution",
		})
	}
	return c.JSON(fiber.Map{"solution": solution})
}

func (s *Server) handleHint(c *fiber.Ctx) error {
	major, ok := s.major(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown major"})
	}
	var req tutorRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question is required"})
	}

	hint, err := s.deps.Tutor.Hint(c.Context(), req.questionContext(string(major)), req.HintsUsed, userKey(c))
	if errors.Is(err, tutor.ErrQuotaExceeded) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Daily hint limit exceeded",
		})
	}
	if err != nil {
		log.Printf("[TUTOR] hint failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate hint",
		})
	}
	return c.JSON(fiber.Map{
		"hint":           hint,
		"hintsRemaining": s.deps.Quota.Remaining(userKey(c)),
	})
}

func (s *Server) handleCheckAnswer(c *fiber.Ctx) error {
	major, ok := s.major(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown major"})
	}
	var req tutorRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" || req.UserAnswer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question and answer are required",
		})
	}

	// Evaluation is total: oracle failures degrade to the fixed fallback
	// verdict, never to an error status.
	ev := s.deps.Tutor.CheckAnswer(c.Context(), req.questionContext(string(major)), req.UserAnswer)
	return c.JSON(ev)
}
