package dto

import "time"

// GenerateQuizRequest carries the quiz definition supplied by the client.
// Field casing follows the external contract of the generation API.
type GenerateQuizRequest struct {
	Subject        string  `json:"Subject"`
	Grade          int     `json:"grade"`
	Difficulty     string  `json:"Difficulty"`
	TotalQuestions int     `json:"TotalQuestions"`
	MaxScore       float64 `json:"MaxScore"`
}

// GenerateQuizResponse returns the external id of the persisted quiz.
type GenerateQuizResponse struct {
	QuizID string `json:"quizId"`
}

// QuestionProjection is the externally visible shape of one question inside
// a quiz projection. Hints are deliberately absent; they are served by the
// dedicated hint endpoint.
type QuestionProjection struct {
	ID            int64    `json:"id"`
	QuestionID    string   `json:"questionId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Score         float64  `json:"score"`
}

// QuizProjection is the denormalized read-only view of a quiz with its
// questions inlined. It is both the response body of a quiz read and the
// exact on-wire shape stored in the cache.
type QuizProjection struct {
	QuizID         string               `json:"quizId"`
	Subject        string               `json:"subject"`
	Grade          int                  `json:"grade"`
	Difficulty     string               `json:"difficulty"`
	TotalQuestions int                  `json:"totalQuestions"`
	MaxScore       float64              `json:"maxScore"`
	CreatedAt      time.Time            `json:"createdAt"`
	Questions      []QuestionProjection `json:"questions"`
}

// QuizDetailResult pairs a projection with whether it was served from cache.
type QuizDetailResult struct {
	Quiz   *QuizProjection
	Cached bool
}

// SubmitResponseInput is one raw answer within a submission request.
type SubmitResponseInput struct {
	QuestionID   string `json:"question_id"`
	UserResponse string `json:"user_response"`
}

// SubmitQuizRequest carries a student's answers for evaluation.
type SubmitQuizRequest struct {
	QuizID    string                `json:"quizId"`
	Responses []SubmitResponseInput `json:"responses"`
}

// SubmitQuizResponse returns the caller-generated submission id.
type SubmitQuizResponse struct {
	SubmissionID string `json:"submissionId"`
}

// HintResponse is the body of the question hint endpoint.
type HintResponse struct {
	QuestionID string `json:"questionId"`
	Hint       string `json:"hint"`
}
