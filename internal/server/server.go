// Package server exposes the practice platform over HTTP.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/skillsync/skillsync/internal/bank"
	"github.com/skillsync/skillsync/internal/progress"
	"github.com/skillsync/skillsync/internal/quota"
	"github.com/skillsync/skillsync/internal/tutor"
	"github.com/skillsync/skillsync/internal/users"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Bank     *bank.Repository
	Tutor    *tutor.Service
	Quota    *quota.Service
	Progress *progress.Service
	Users    *users.Service
}

// Server is the HTTP surface over the question bank, tutor, and progress
// services.
type Server struct {
	app  *fiber.App
	deps Deps
}

// New builds the fiber app and registers all routes.
func New(deps Deps) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "SkillSync",
		UnescapePath: true,
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	s := &Server{app: app, deps: deps}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/health", s.handleHealth)

	// One route tree serves all three majors; the dash splits the major
	// param from the literal "-questions" suffix.
	q := api.Group("/:major-questions")
	q.Get("/:subject/:difficulty/:index", s.handleGetQuestion)
	q.Post("/solution", s.handleSolution)
	q.Post("/hint", s.handleHint)
	q.Post("/check-answer", s.handleCheckAnswer)

	api.Post("/attempts", s.handleRecordAttempt)
	api.Get("/stats/:userId", s.handleStats)
	api.Get("/stats/:userId/daily", s.handleDailyStats)
	api.Get("/stats/:userId/badges", s.handleBadges)
	api.Get("/leaderboard", s.handleLeaderboard)

	api.Post("/users/register", s.handleRegister)
	api.Post("/users/login", s.handleLogin)
	api.Get("/users/:id", s.handleGetUser)
	api.Put("/users/:id/avatar", s.handleUpdateAvatar)
	api.Get("/users/:id/marked", s.handleMarkedQuestions)
	api.Post("/users/:id/marked", s.handleMarkQuestion)
	api.Delete("/users/:id/marked/:questionId", s.handleUnmarkQuestion)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests, waiting at most the given timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// major resolves and validates the :major route param.
func (s *Server) major(c *fiber.Ctx) (bank.Major, bool) {
	m, ok := bank.ParseMajor(c.Params("major"))
	return m, ok
}

// userKey identifies the hint-quota bucket: the user-id header when the
// client sends one, otherwise the client IP so anonymous users cannot
// share one unlimited pool.
func userKey(c *fiber.Ctx) string {
	if id := c.Get("user-id"); id != "" {
		return id
	}
	return "ip:" + c.IP()
}
