package repository

import (
	"context"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// SubmissionDatabaseAdapter implements domain.SubmissionRepository using
// sqlx.DB. Every save runs in its own transaction.
type SubmissionDatabaseAdapter struct {
	db  *sqlx.DB
	txm domain.TransactionManager
}

// NewSubmissionDatabaseAdapter creates a new instance of SubmissionDatabaseAdapter
func NewSubmissionDatabaseAdapter(db *sqlx.DB) domain.SubmissionRepository {
	return &SubmissionDatabaseAdapter{
		db:  db,
		txm: NewTransactionManagerAdapter(db),
	}
}

// SaveQuizSubmission inserts the submission row, then one response row per
// element of responses in supplied order, each referencing the submission's
// freshly assigned serial key. The whole call is one transaction: a failing
// response insert rolls back the submission row too. The transaction's
// connection is released on every exit path by the transaction manager.
func (a *SubmissionDatabaseAdapter) SaveQuizSubmission(ctx context.Context, submission *domain.QuizSubmission, responses []domain.SubmissionResponse) (string, error) {
	modelSubmission := toModelQuizSubmission(submission)
	if modelSubmission.SubmittedAt.IsZero() {
		modelSubmission.SubmittedAt = time.Now()
	}

	insertSubmission := `INSERT INTO quiz_submissions (
		submission_id, quiz_id, user_id, obtained_score, suggestion_text, submitted_at
	) VALUES (
		$1, $2, $3, $4, $5, $6
	) RETURNING id`

	insertResponse := `INSERT INTO submission_responses (
		submission_id, question_id, correct_answer, user_response, is_correct
	) VALUES (
		$1, $2, $3, $4, $5
	)`

	err := a.txm.WithTransaction(ctx, func(txCtx context.Context) error {
		ex := GetExecutor(txCtx, a.db)

		err := ex.QueryRowxContext(txCtx, insertSubmission,
			modelSubmission.SubmissionID,
			modelSubmission.QuizID,
			modelSubmission.UserID,
			modelSubmission.ObtainedScore,
			modelSubmission.SuggestionText,
			modelSubmission.SubmittedAt,
		).Scan(&modelSubmission.ID)
		if err != nil {
			return mapDBError("SaveQuizSubmission", err)
		}

		// No re-ordering, no deduplication by question id: rows go in exactly
		// as supplied.
		for _, response := range responses {
			_, err := ex.ExecContext(txCtx, insertResponse,
				modelSubmission.ID,
				response.QuestionID,
				response.CorrectAnswer,
				response.UserResponse,
				response.IsCorrect,
			)
			if err != nil {
				return mapDBError("SaveQuizSubmission", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	submission.ID = modelSubmission.ID
	submission.SubmittedAt = modelSubmission.SubmittedAt
	return submission.SubmissionID, nil
}

func toModelQuizSubmission(d *domain.QuizSubmission) *models.QuizSubmission {
	if d == nil {
		return nil
	}
	return &models.QuizSubmission{
		ID:             d.ID,
		SubmissionID:   d.SubmissionID,
		QuizID:         d.QuizID,
		UserID:         d.UserID,
		ObtainedScore:  d.ObtainedScore,
		SuggestionText: d.SuggestionText,
		SubmittedAt:    d.SubmittedAt,
	}
}
