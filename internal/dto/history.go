package dto

import "time"

// HistoryFilters are the optional criteria of a history query, exactly as
// received from the transport layer. Empty string means "not present".
// Parsing and validation happen in the query engine, before execution.
type HistoryFilters struct {
	QuizID   string
	Grade    string
	Subject  string
	MinScore string
	MaxScore string
	From     string
	To       string
}

// HistoryEntry is one row of the history response.
type HistoryEntry struct {
	SubmissionID     string    `json:"submissionId"`
	QuizID           string    `json:"quizId"`
	Subject          string    `json:"subject"`
	Grade            int       `json:"grade"`
	Difficulty       string    `json:"difficulty"`
	ObtainedScore    float64   `json:"obtainedScore"`
	MaxPossibleScore float64   `json:"maxPossibleScore"`
	PercentageScore  float64   `json:"percentageScore"`
	SuggestionText   string    `json:"suggestionText"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// QuizHistoryResponse wraps the ordered history rows.
type QuizHistoryResponse struct {
	Count   int            `json:"count"`
	Entries []HistoryEntry `json:"data"`
}
