package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillsync/skillsync/internal/bank"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "OK",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"subjectsProcessed": s.deps.Bank.SubjectCount(),
	})
}

func (s *Server) handleGetQuestion(c *fiber.Ctx) error {
	major, ok := s.major(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subject or difficulty not found",
		})
	}

	if _, ok := bank.ParseDifficulty(c.Params("difficulty")); !ok ||
		!s.deps.Bank.HasSubject(major, c.Params("subject")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subject or difficulty not found",
		})
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}

	q, err := s.deps.Bank.Question(major, c.Params("subject"), c.Params("difficulty"), index)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}
	return c.JSON(q)
}
