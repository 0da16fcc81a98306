package server

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/skillsync/skillsync/internal/progress"
)

func (s *Server) handleRecordAttempt(c *fiber.Ctx) error {
	var a progress.Attempt
	if err := c.BodyParser(&a); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if a.UserID == "" {
		a.UserID = userKey(c)
	}
	if a.QuestionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "questionId is required"})
	}

	res, err := s.deps.Progress.RecordAttempt(c.Context(), &a)
	if err != nil {
		log.Printf("[PROGRESS] record attempt failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record attempt",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.deps.Progress.Statistics(c.Context(), c.Params("userId"))
	if err != nil {
		log.Printf("[PROGRESS] statistics lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load statistics",
		})
	}
	return c.JSON(stats)
}

func (s *Server) handleDailyStats(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}
	stats, err := s.deps.Progress.DailyStats(c.Context(), c.Params("userId"), days)
	if err != nil {
		log.Printf("[PROGRESS] daily stats lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load daily stats",
		})
	}
	if stats == nil {
		stats = []progress.DailyStat{}
	}
	return c.JSON(stats)
}

func (s *Server) handleBadges(c *fiber.Ctx) error {
	badges, err := s.deps.Progress.Badges(c.Context(), c.Params("userId"))
	if err != nil {
		log.Printf("[PROGRESS] badges lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load badges",
		})
	}
	if badges == nil {
		badges = []progress.Badge{}
	}
	return c.JSON(badges)
}

func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := s.deps.Progress.Leaderboard(c.Context(), limit)
	if err != nil {
		log.Printf("[PROGRESS] leaderboard lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load leaderboard",
		})
	}
	if entries == nil {
		entries = []progress.LeaderboardEntry{}
	}
	return c.JSON(entries)
}

func (s *Server) handleMarkedQuestions(c *fiber.Ctx) error {
	marked, err := s.deps.Progress.MarkedQuestions(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("[PROGRESS] marked questions lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load marked questions",
		})
	}
	if marked == nil {
		marked = []progress.MarkedQuestion{}
	}
	return c.JSON(marked)
}

func (s *Server) handleMarkQuestion(c *fiber.Ctx) error {
	var m progress.MarkedQuestion
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	m.UserID = c.Params("id")
	if m.QuestionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "questionId is required"})
	}

	if err := s.deps.Progress.MarkQuestion(c.Context(), &m); err != nil {
		log.Printf("[PROGRESS] mark question failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark question",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (s *Server) handleUnmarkQuestion(c *fiber.Ctx) error {
	if err := s.deps.Progress.UnmarkQuestion(c.Context(), c.Params("id"), c.Params("questionId")); err != nil {
		log.Printf("[PROGRESS] unmark question failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unmark question",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
