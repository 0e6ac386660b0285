package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice maps a []string onto a JSONB column. Question options are
// stored this way.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Quiz is the quizzes row.
type Quiz struct {
	ID             int64         `db:"id"`
	QuizID         string        `db:"quiz_id"`
	Subject        string        `db:"subject"`
	Grade          int           `db:"grade"`
	Difficulty     string        `db:"difficulty"`
	TotalQuestions int           `db:"total_questions"`
	MaxScore       float64       `db:"max_score"`
	CreatedBy      sql.NullInt64 `db:"created_by"`
	CreatedAt      time.Time     `db:"created_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question is the questions row. Options holds the JSONB option array.
type Question struct {
	ID            int64          `db:"id"`
	QuestionID    string         `db:"question_id"`
	QuizID        int64          `db:"quiz_id"`
	Question      string         `db:"question"`
	Options       StringSlice    `db:"options"`
	CorrectAnswer string         `db:"correct_answer"`
	Score         float64        `db:"score"`
	Hint          sql.NullString `db:"hint"`
}

func (Question) TableName() string {
	return "questions"
}

// QuizSubmission is the quiz_submissions row.
type QuizSubmission struct {
	ID             int64     `db:"id"`
	SubmissionID   string    `db:"submission_id"`
	QuizID         int64     `db:"quiz_id"`
	UserID         int64     `db:"user_id"`
	ObtainedScore  float64   `db:"obtained_score"`
	SuggestionText string    `db:"suggestion_text"`
	SubmittedAt    time.Time `db:"submitted_at"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// SubmissionResponse is the submission_responses row. SubmissionID is the
// parent's serial key; QuestionID is the question's external id.
type SubmissionResponse struct {
	ID            int64  `db:"id"`
	SubmissionID  int64  `db:"submission_id"`
	QuestionID    string `db:"question_id"`
	CorrectAnswer string `db:"correct_answer"`
	UserResponse  string `db:"user_response"`
	IsCorrect     bool   `db:"is_correct"`
}

func (SubmissionResponse) TableName() string {
	return "submission_responses"
}

// User is the users row.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// HistoryRow is the scanned shape of one history query row.
type HistoryRow struct {
	SubmissionPK    int64     `db:"submission_pk"`
	SubmissionID    string    `db:"submission_id"`
	QuizID          string    `db:"quiz_id"`
	Subject         string    `db:"subject"`
	Grade           int       `db:"grade"`
	Difficulty      string    `db:"difficulty"`
	UserID          int64     `db:"user_id"`
	ObtainedScore   float64   `db:"obtained_score"`
	MaxScore        float64   `db:"max_possible_score"`
	SuggestionText  string    `db:"suggestion_text"`
	SubmittedAt     time.Time `db:"submitted_at"`
	PercentageScore float64   `db:"percentage_score"`
}
