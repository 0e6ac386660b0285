package domain

import (
	"context"

	"quizforge/internal/dto"
)

// QuizRepository owns the write path for quizzes and questions and the quiz
// read projections. Reads return nil (not an error) when nothing matches.
type QuizRepository interface {
	// CreateQuiz inserts one quiz row and fills in the assigned internal key
	// and timestamps.
	CreateQuiz(ctx context.Context, quiz *Quiz) error

	// CreateQuestions inserts one row per question in argument order, each
	// referencing the quiz's internal key. Option-count validation is the
	// caller's responsibility.
	CreateQuestions(ctx context.Context, quizPK int64, questions []Question) error

	// GetQuizByID loads a quiz with its questions in one joined read.
	GetQuizByID(ctx context.Context, quizID string) (*Quiz, error)

	// GetQuizWithQuestions is the same read used by the submission
	// evaluation path. The query shape is identical to GetQuizByID; it is a
	// distinct operation because its caller context differs.
	GetQuizWithQuestions(ctx context.Context, quizID string) (*Quiz, error)

	// GetQuestionHint returns the hint for a question's external id, or ""
	// when the question is unknown or has no hint.
	GetQuestionHint(ctx context.Context, questionID string) (string, error)
}

// SubmissionRepository persists graded submissions with their per-question
// responses.
type SubmissionRepository interface {
	// SaveQuizSubmission inserts the submission row and then each response in
	// supplied order, all within one transaction: either the submission and
	// all responses are recorded, or nothing is. Returns the external
	// submission id.
	SaveQuizSubmission(ctx context.Context, submission *QuizSubmission, responses []SubmissionResponse) (string, error)
}

// QuizHistoryRepository answers filtered history queries over submissions
// joined with their quizzes.
type QuizHistoryRepository interface {
	// GetQuizHistory is always scoped to userID; every filter field is
	// optional. Results are ordered by submission time, most recent first.
	// Malformed filter values fail before the query executes.
	GetQuizHistory(ctx context.Context, userID int64, filters dto.HistoryFilters) ([]HistoryRow, error)
}

// UserRepository manages the user records consumed by the auth surface.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// TransactionManager runs a function within one store transaction. The
// transaction commits only if fn returns nil; any error or panic rolls it
// back. Repositories participate through the context passed to fn.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
