package handler

import (
	"errors"

	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"quizforge/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler handles question generation, quiz reads and hints.
type QuestionHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service service.QuizService) *QuestionHandler {
	return &QuestionHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GenerateQuestions handles POST /api/generate-questions. When generation
// succeeds but the quiz cannot be saved, the response is still 200 with a
// persistenceError so the generated content is not reported as lost.
func (h *QuestionHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	if errs := h.validator.ValidateGenerateQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.GenerateQuiz(c.Context(), &req, middleware.UserID(c))
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.CodeQuizNotPersisted {
			logger.Get().Warn("Quiz generated but not persisted", zap.Error(err))
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"success":          false,
				"persistenceError": "Failed to save quiz to database, but questions were generated successfully",
			})
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// GetQuizByID handles GET /api/quiz/:quizId. The cached flag reports whether
// the projection came from the cache.
func (h *QuestionHandler) GetQuizByID(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	if quizID == "" {
		return domain.NewInvalidInputError("quizId is required")
	}

	result, err := h.service.GetQuiz(c.Context(), quizID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    result.Quiz,
		"cached":  result.Cached,
	})
}

// GetQuestionHint handles GET /api/question/:questionId/hint.
func (h *QuestionHandler) GetQuestionHint(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	if errs := h.validator.ValidateQuestionID(questionID); len(errs) > 0 {
		return errs
	}

	hint, err := h.service.GetQuestionHint(c.Context(), questionID)
	if err != nil {
		return err
	}
	if hint == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No hint available for this question",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": dto.HintResponse{
			QuestionID: questionID,
			Hint:       hint,
		},
	})
}
