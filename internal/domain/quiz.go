package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the quiz difficulty level as supplied by callers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty normalizes and validates a difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToUpper(s)) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("invalid difficulty: %q", s)
	}
}

// Quiz represents a stored question set. ID is the internal serial key;
// QuizID is the externally visible identifier.
type Quiz struct {
	ID             int64
	QuizID         string
	Subject        string
	Grade          int
	Difficulty     Difficulty
	TotalQuestions int
	// MaxScore should equal the sum of the question scores. This is a soft
	// invariant: callers are trusted, nothing enforces it at runtime.
	MaxScore  float64
	CreatedBy int64
	CreatedAt time.Time
	Questions []Question
}

// Question belongs to exactly one quiz and is immutable after creation.
type Question struct {
	ID            int64
	QuestionID    string
	QuizID        int64
	Text          string
	Options       []string
	CorrectAnswer string
	Score         float64
	Hint          string
}

// QuizSubmission is one graded attempt at a quiz. SubmissionID is generated
// by the caller before evaluation.
type QuizSubmission struct {
	ID             int64
	SubmissionID   string
	QuizID         int64
	UserID         int64
	ObtainedScore  float64
	SuggestionText string
	SubmittedAt    time.Time
}

// SubmissionResponse is one answered question within a submission.
// QuestionID references the question's external id, not its serial key.
type SubmissionResponse struct {
	ID            int64
	SubmissionID  int64
	QuestionID    string
	CorrectAnswer string
	UserResponse  string
	IsCorrect     bool
}

// User is consumed by the core as an opaque identity; only the auth surface
// reads the credential fields.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	Role         string
	CreatedAt    time.Time
}

// HistoryRow is one row of the filtered submission history, joined with quiz
// metadata. PercentageScore is computed by the store.
type HistoryRow struct {
	SubmissionPK    int64
	SubmissionID    string
	QuizID          string
	Subject         string
	Grade           int
	Difficulty      Difficulty
	UserID          int64
	ObtainedScore   float64
	MaxScore        float64
	SuggestionText  string
	SubmittedAt     time.Time
	PercentageScore float64
}
