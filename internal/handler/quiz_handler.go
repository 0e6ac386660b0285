package handler

import (
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles submission and history HTTP requests.
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// SubmitQuiz handles POST /api/quiz/submit.
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	if errs := h.validator.ValidateSubmitQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	userID := middleware.UserID(c)
	resp, err := h.service.SubmitQuiz(c.Context(), &req, userID)
	if err != nil {
		logger.Get().Error("Quiz submission failed",
			zap.Error(err),
			zap.String("quiz_id", req.QuizID),
			zap.Int64("user_id", userID))
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// GetQuizHistory handles GET /api/quiz/history. All filters arrive as query
// parameters; absent means unfiltered.
func (h *QuizHandler) GetQuizHistory(c *fiber.Ctx) error {
	filters := dto.HistoryFilters{
		QuizID:   c.Query("quizId"),
		Grade:    c.Query("grade"),
		Subject:  c.Query("subject"),
		MinScore: c.Query("minScore"),
		MaxScore: c.Query("maxScore"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}

	resp, err := h.service.GetQuizHistory(c.Context(), middleware.UserID(c), filters)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   resp.Count,
		"data":    resp.Entries,
	})
}
