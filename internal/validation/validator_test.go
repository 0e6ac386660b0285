package validation

import (
	"testing"

	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
)

func validGenerateRequest() *dto.GenerateQuizRequest {
	return &dto.GenerateQuizRequest{
		Subject:        "Math",
		Grade:          5,
		Difficulty:     "EASY",
		TotalQuestions: 10,
		MaxScore:       100,
	}
}

func TestValidateGenerateQuizRequest(t *testing.T) {
	v := NewValidator()

	t.Run("valid request", func(t *testing.T) {
		assert.Empty(t, v.ValidateGenerateQuizRequest(validGenerateRequest()))
	})

	t.Run("missing subject", func(t *testing.T) {
		req := validGenerateRequest()
		req.Subject = "  "
		errs := v.ValidateGenerateQuizRequest(req)
		assert.Len(t, errs, 1)
		assert.Equal(t, "Subject", errs[0].Field)
	})

	t.Run("grade out of range", func(t *testing.T) {
		req := validGenerateRequest()
		req.Grade = 13
		errs := v.ValidateGenerateQuizRequest(req)
		assert.Len(t, errs, 1)
		assert.Equal(t, "grade", errs[0].Field)
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		req := validGenerateRequest()
		req.Difficulty = "BRUTAL"
		errs := v.ValidateGenerateQuizRequest(req)
		assert.Len(t, errs, 1)
		assert.Equal(t, "Difficulty", errs[0].Field)
	})

	t.Run("lowercase difficulty accepted", func(t *testing.T) {
		req := validGenerateRequest()
		req.Difficulty = "medium"
		assert.Empty(t, v.ValidateGenerateQuizRequest(req))
	})

	t.Run("everything missing", func(t *testing.T) {
		errs := v.ValidateGenerateQuizRequest(&dto.GenerateQuizRequest{})
		assert.Len(t, errs, 5)
	})
}

func TestValidateSubmitQuizRequest(t *testing.T) {
	v := NewValidator()

	t.Run("valid request", func(t *testing.T) {
		errs := v.ValidateSubmitQuizRequest(&dto.SubmitQuizRequest{
			QuizID: "quiz-ext",
			Responses: []dto.SubmitResponseInput{
				{QuestionID: "q-ext-1", UserResponse: "A"},
			},
		})
		assert.Empty(t, errs)
	})

	t.Run("missing quiz id and responses", func(t *testing.T) {
		errs := v.ValidateSubmitQuizRequest(&dto.SubmitQuizRequest{})
		assert.Len(t, errs, 2)
	})

	t.Run("response without question id", func(t *testing.T) {
		errs := v.ValidateSubmitQuizRequest(&dto.SubmitQuizRequest{
			QuizID: "quiz-ext",
			Responses: []dto.SubmitResponseInput{
				{QuestionID: "", UserResponse: "A"},
			},
		})
		assert.Len(t, errs, 1)
		assert.Equal(t, "question_id", errs[0].Field)
	})
}

func TestValidateQuestionID(t *testing.T) {
	v := NewValidator()

	t.Run("valid ulid", func(t *testing.T) {
		assert.Empty(t, v.ValidateQuestionID("01HZXM8N3VQ4T5W6X7Y8Z9ABCD"))
	})

	t.Run("empty", func(t *testing.T) {
		errs := v.ValidateQuestionID("")
		assert.Len(t, errs, 1)
	})

	t.Run("wrong length", func(t *testing.T) {
		errs := v.ValidateQuestionID("short")
		assert.Len(t, errs, 1)
	})

	t.Run("invalid characters", func(t *testing.T) {
		// 'I', 'L', 'O' and 'U' are not in Crockford's Base32.
		errs := v.ValidateQuestionID("01HZXI8N3VQ4T5W6X7Y8Z9ABCD")
		assert.Len(t, errs, 1)
	})
}

func TestValidateSignupRequest(t *testing.T) {
	v := NewValidator()

	t.Run("valid request", func(t *testing.T) {
		errs := v.ValidateSignupRequest(&dto.SignupRequest{Username: "alice_01", Password: "longenough"})
		assert.Empty(t, errs)
	})

	t.Run("short password", func(t *testing.T) {
		errs := v.ValidateSignupRequest(&dto.SignupRequest{Username: "alice", Password: "short"})
		assert.Len(t, errs, 1)
		assert.Equal(t, "password", errs[0].Field)
	})

	t.Run("bad username", func(t *testing.T) {
		errs := v.ValidateSignupRequest(&dto.SignupRequest{Username: "a!", Password: "longenough"})
		assert.Len(t, errs, 1)
		assert.Equal(t, "username", errs[0].Field)
	})
}
