package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// predicateBuilder accumulates AND-joined WHERE clauses along with their
// positional arguments. Each template carries one %d that is replaced with
// the next placeholder index.
type predicateBuilder struct {
	clauses []string
	args    []any
}

func (b *predicateBuilder) add(template string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf(template, len(b.args)))
}

// HistoryDatabaseAdapter implements domain.QuizHistoryRepository using
// sqlx.DB.
type HistoryDatabaseAdapter struct {
	db *sqlx.DB
}

// NewHistoryDatabaseAdapter creates a new instance of HistoryDatabaseAdapter
func NewHistoryDatabaseAdapter(db *sqlx.DB) domain.QuizHistoryRepository {
	return &HistoryDatabaseAdapter{db: db}
}

// GetQuizHistory runs the filtered history query. The user scope is always
// the first predicate; each non-empty filter adds exactly one more. Filter
// values are parsed before any SQL runs, so a malformed value never reaches
// the database.
func (a *HistoryDatabaseAdapter) GetQuizHistory(ctx context.Context, userID int64, filters dto.HistoryFilters) ([]domain.HistoryRow, error) {
	var b predicateBuilder
	b.add("qs.user_id = $%d", userID)

	if filters.QuizID != "" {
		b.add("q.quiz_id = $%d", filters.QuizID)
	}
	if filters.Subject != "" {
		b.add("q.subject = $%d", filters.Subject)
	}
	if filters.Grade != "" {
		grade, err := strconv.Atoi(filters.Grade)
		if err != nil {
			return nil, domain.NewInvalidFilterError("grade", "integer")
		}
		b.add("q.grade = $%d", grade)
	}
	if filters.MinScore != "" {
		minScore, err := strconv.ParseFloat(filters.MinScore, 64)
		if err != nil {
			return nil, domain.NewInvalidFilterError("minScore", "number")
		}
		b.add("qs.obtained_score >= $%d", minScore)
	}
	if filters.MaxScore != "" {
		maxScore, err := strconv.ParseFloat(filters.MaxScore, 64)
		if err != nil {
			return nil, domain.NewInvalidFilterError("maxScore", "number")
		}
		b.add("qs.obtained_score <= $%d", maxScore)
	}
	if filters.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, filters.From, time.Local)
		if err != nil {
			return nil, domain.NewInvalidFilterError("from", "date in YYYY-MM-DD format")
		}
		b.add("qs.submitted_at >= $%d", from)
	}
	if filters.To != "" {
		to, err := time.ParseInLocation(time.DateOnly, filters.To, time.Local)
		if err != nil {
			return nil, domain.NewInvalidFilterError("to", "date in YYYY-MM-DD format")
		}
		// Inclusive upper bound: the whole of the named day.
		b.add("qs.submitted_at < $%d", to.AddDate(0, 0, 1))
	}

	query := `SELECT
		qs.id AS submission_pk,
		qs.submission_id,
		q.quiz_id,
		q.subject,
		q.grade,
		q.difficulty,
		qs.user_id,
		qs.obtained_score,
		q.max_score AS max_possible_score,
		qs.suggestion_text,
		qs.submitted_at,
		(qs.obtained_score * 100.0 / q.max_score) AS percentage_score
	FROM quiz_submissions qs
	JOIN quizzes q ON qs.quiz_id = q.id
	LEFT JOIN submission_responses sr ON qs.id = sr.submission_id
	WHERE ` + joinClauses(b.clauses) + `
	GROUP BY qs.id, qs.submission_id, q.quiz_id, q.subject, q.grade, q.difficulty,
		qs.user_id, qs.obtained_score, q.max_score, qs.suggestion_text, qs.submitted_at
	ORDER BY qs.submitted_at DESC`

	var rows []models.HistoryRow
	ex := GetExecutor(ctx, a.db)
	if err := ex.SelectContext(ctx, &rows, query, b.args...); err != nil {
		return nil, mapDBError("GetQuizHistory", err)
	}

	result := make([]domain.HistoryRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.HistoryRow{
			SubmissionPK:    row.SubmissionPK,
			SubmissionID:    row.SubmissionID,
			QuizID:          row.QuizID,
			Subject:         row.Subject,
			Grade:           row.Grade,
			Difficulty:      domain.Difficulty(row.Difficulty),
			UserID:          row.UserID,
			ObtainedScore:   row.ObtainedScore,
			MaxScore:        row.MaxScore,
			SuggestionText:  row.SuggestionText,
			SubmittedAt:     row.SubmittedAt,
			PercentageScore: row.PercentageScore,
		})
	}
	return result, nil
}

func joinClauses(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += " AND " + c
	}
	return out
}
