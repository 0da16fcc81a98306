package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/skillsync/skillsync/internal/users"
)

type credentialsRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	u, err := s.deps.Users.Register(c.Context(), req.Username, req.Password, req.DisplayName)
	if errors.Is(err, users.ErrUsernameTaken) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already taken"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	u, err := s.deps.Users.Login(c.Context(), req.Username, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if err != nil {
		log.Printf("[USERS] login failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
	}
	return c.JSON(u)
}

func (s *Server) handleGetUser(c *fiber.Ctx) error {
	u, err := s.deps.Users.Get(c.Context(), c.Params("id"))
	if errors.Is(err, users.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		log.Printf("[USERS] lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}
	return c.JSON(u)
}

func (s *Server) handleUpdateAvatar(c *fiber.Ctx) error {
	var req struct {
		AvatarURL   string `json:"avatarUrl"`
		DisplayName string `json:"displayName"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	u, err := s.deps.Users.UpdateProfile(c.Context(), c.Params("id"), req.DisplayName, req.AvatarURL)
	if errors.Is(err, users.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		log.Printf("[USERS] profile update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(u)
}
