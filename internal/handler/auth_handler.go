package handler

import (
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validation.NewValidator(),
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	if errs := h.validator.ValidateSignupRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.authService.Signup(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return domain.NewInvalidInputError("username and password are required")
	}

	resp, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}
