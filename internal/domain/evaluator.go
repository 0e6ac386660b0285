package domain

import "context"

// UserResponse is one raw answer as submitted by the student.
type UserResponse struct {
	QuestionID string
	Answer     string
}

// EvaluationInput is the payload handed to the evaluation collaborator.
// SubmissionID is generated by the caller before evaluation.
type EvaluationInput struct {
	QuizPK       int64
	UserID       int64
	SubmissionID string
	Questions    []Question
	Responses    []UserResponse
}

// EvaluationResult is the scored outcome: a submission with its obtained
// score and suggestion text, plus one response row per answered question.
// Scores arrive pre-computed; the core never re-grades.
type EvaluationResult struct {
	Submission QuizSubmission
	Responses  []SubmissionResponse
}

// SubmissionEvaluator is the evaluation collaborator.
type SubmissionEvaluator interface {
	EvaluateSubmission(ctx context.Context, input *EvaluationInput) (*EvaluationResult, error)
}
