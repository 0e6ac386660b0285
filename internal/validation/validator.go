package validation

import (
	"regexp"
	"strings"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest validates the quiz generation request.
func (v *Validator) ValidateGenerateQuizRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Subject) == "" {
		errors = append(errors, domain.NewMissingFieldError("Subject"))
	}
	if req.Grade <= 0 || req.Grade > 12 {
		errors = append(errors, domain.NewOutOfRangeError("grade", req.Grade, 1, 12))
	}
	if req.TotalQuestions <= 0 || req.TotalQuestions > 50 {
		errors = append(errors, domain.NewOutOfRangeError("TotalQuestions", req.TotalQuestions, 1, 50))
	}
	if req.MaxScore <= 0 {
		errors = append(errors, domain.NewMissingFieldError("MaxScore"))
	}
	if strings.TrimSpace(req.Difficulty) == "" {
		errors = append(errors, domain.NewMissingFieldError("Difficulty"))
	} else if _, err := domain.ParseDifficulty(req.Difficulty); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("Difficulty", req.Difficulty))
	}

	return errors
}

// ValidateSubmitQuizRequest validates a quiz submission request.
func (v *Validator) ValidateSubmitQuizRequest(req *dto.SubmitQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.QuizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quizId"))
	}
	if len(req.Responses) == 0 {
		errors = append(errors, domain.NewMissingFieldError("responses"))
	}
	for _, r := range req.Responses {
		if strings.TrimSpace(r.QuestionID) == "" {
			errors = append(errors, domain.NewMissingFieldError("question_id"))
			break
		}
	}

	return errors
}

// ValidateQuestionID validates the hint endpoint's path parameter.
func (v *Validator) ValidateQuestionID(questionID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(questionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("questionId"))
	} else if !isValidULID(questionID) {
		errors = append(errors, domain.NewInvalidFormatError("questionId", questionID))
	}

	return errors
}

// ValidateSignupRequest validates a registration request.
func (v *Validator) ValidateSignupRequest(req *dto.SignupRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Username) == "" {
		errors = append(errors, domain.NewMissingFieldError("username"))
	} else if !isValidUsername(req.Username) {
		errors = append(errors, domain.NewInvalidFormatError("username", req.Username))
	}
	if len(req.Password) < 8 {
		errors = append(errors, domain.NewOutOfRangeError("password", len(req.Password), 8, 72))
	}

	return errors
}

// Helper functions for validation

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Check if all characters are valid base32 (Crockford's Base32)
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

// isValidUsername allows alphanumeric, hyphens, and underscores, 3-30 characters
func isValidUsername(s string) bool {
	if len(s) < 3 || len(s) > 30 {
		return false
	}
	validUsername := regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	return validUsername.MatchString(s)
}
