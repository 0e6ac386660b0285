package repository

import (
	"context"
	"database/sql"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// CreateQuiz implements domain.QuizRepository. It participates in an ambient
// transaction when one is present in ctx.
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz.QuizID == "" {
		modelQuiz.QuizID = util.NewULID()
	}
	if modelQuiz.CreatedAt.IsZero() {
		modelQuiz.CreatedAt = time.Now()
	}

	query := `INSERT INTO quizzes (
		quiz_id, subject, grade, difficulty, total_questions, max_score, created_by, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	) RETURNING id`

	ex := GetExecutor(ctx, a.db)
	err := ex.QueryRowxContext(ctx, query,
		modelQuiz.QuizID,
		modelQuiz.Subject,
		modelQuiz.Grade,
		modelQuiz.Difficulty,
		modelQuiz.TotalQuestions,
		modelQuiz.MaxScore,
		modelQuiz.CreatedBy,
		modelQuiz.CreatedAt,
	).Scan(&modelQuiz.ID)
	if err != nil {
		return mapDBError("CreateQuiz", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.QuizID = modelQuiz.QuizID
	quiz.CreatedAt = modelQuiz.CreatedAt
	return nil
}

// CreateQuestions inserts one row per question, in argument order, each
// insert independently parameterized. quizPK is the parent's serial key, so
// the quiz row must already exist within the same transaction.
func (a *QuizDatabaseAdapter) CreateQuestions(ctx context.Context, quizPK int64, questions []domain.Question) error {
	query := `INSERT INTO questions (
		question_id, quiz_id, question, options, correct_answer, score, hint
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)`

	ex := GetExecutor(ctx, a.db)
	for i := range questions {
		q := &questions[i]
		if q.QuestionID == "" {
			q.QuestionID = util.NewULID()
		}
		_, err := ex.ExecContext(ctx, query,
			q.QuestionID,
			quizPK,
			q.Text,
			models.StringSlice(q.Options),
			q.CorrectAnswer,
			q.Score,
			util.StringToNullString(q.Hint),
		)
		if err != nil {
			return mapDBError("CreateQuestions", err)
		}
		q.QuizID = quizPK
	}
	return nil
}

// quizWithQuestionRow is the scan target of the joined quiz read. The
// question columns are nullable because of the LEFT JOIN.
type quizWithQuestionRow struct {
	models.Quiz
	QuestionPK    sql.NullInt64      `db:"question_pk"`
	QuestionID    sql.NullString     `db:"question_id"`
	Question      sql.NullString     `db:"question"`
	Options       models.StringSlice `db:"options"`
	CorrectAnswer sql.NullString     `db:"correct_answer"`
	Score         sql.NullFloat64    `db:"score"`
	Hint          sql.NullString     `db:"hint"`
}

// GetQuizByID implements domain.QuizRepository. One joined read; questions
// are aggregated into the quiz in insertion order. Returns nil when no quiz
// matches.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	return a.getQuizJoined(ctx, quizID)
}

// GetQuizWithQuestions is the read used by the submission-evaluation path.
// Same query shape as GetQuizByID.
func (a *QuizDatabaseAdapter) GetQuizWithQuestions(ctx context.Context, quizID string) (*domain.Quiz, error) {
	return a.getQuizJoined(ctx, quizID)
}

func (a *QuizDatabaseAdapter) getQuizJoined(ctx context.Context, quizID string) (*domain.Quiz, error) {
	query := `SELECT
		q.id,
		q.quiz_id,
		q.subject,
		q.grade,
		q.difficulty,
		q.total_questions,
		q.max_score,
		q.created_by,
		q.created_at,
		qs.id AS question_pk,
		qs.question_id,
		qs.question,
		qs.options,
		qs.correct_answer,
		qs.score,
		qs.hint
	FROM quizzes q
	LEFT JOIN questions qs ON q.id = qs.quiz_id
	WHERE q.quiz_id = $1
	ORDER BY qs.id`

	ex := GetExecutor(ctx, a.db)
	rows, err := ex.QueryxContext(ctx, query, quizID)
	if err != nil {
		return nil, mapDBError("GetQuizByID", err)
	}
	defer rows.Close()

	var quiz *domain.Quiz
	for rows.Next() {
		var row quizWithQuestionRow
		if err := rows.StructScan(&row); err != nil {
			return nil, domain.NewRepositoryFailureError("GetQuizByID", err)
		}
		if quiz == nil {
			quiz = toDomainQuiz(&row.Quiz)
		}
		if row.QuestionPK.Valid {
			quiz.Questions = append(quiz.Questions, domain.Question{
				ID:            row.QuestionPK.Int64,
				QuestionID:    row.QuestionID.String,
				QuizID:        quiz.ID,
				Text:          row.Question.String,
				Options:       row.Options,
				CorrectAnswer: row.CorrectAnswer.String,
				Score:         row.Score.Float64,
				Hint:          row.Hint.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewRepositoryFailureError("GetQuizByID", err)
	}
	if quiz == nil {
		return nil, nil
	}
	return quiz, nil
}

// GetQuestionHint returns "" when the question is unknown or carries no hint.
func (a *QuizDatabaseAdapter) GetQuestionHint(ctx context.Context, questionID string) (string, error) {
	var hint sql.NullString
	query := `SELECT hint FROM questions WHERE question_id = $1`

	ex := GetExecutor(ctx, a.db)
	err := ex.GetContext(ctx, &hint, query, questionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", mapDBError("GetQuestionHint", err)
	}
	return hint.String, nil
}

// Helper functions for model conversion

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:             m.ID,
		QuizID:         m.QuizID,
		Subject:        m.Subject,
		Grade:          m.Grade,
		Difficulty:     domain.Difficulty(m.Difficulty),
		TotalQuestions: m.TotalQuestions,
		MaxScore:       m.MaxScore,
		CreatedBy:      m.CreatedBy.Int64,
		CreatedAt:      m.CreatedAt,
	}
}

func toModelQuiz(d *domain.Quiz) *models.Quiz {
	if d == nil {
		return nil
	}
	return &models.Quiz{
		ID:             d.ID,
		QuizID:         d.QuizID,
		Subject:        d.Subject,
		Grade:          d.Grade,
		Difficulty:     string(d.Difficulty),
		TotalQuestions: d.TotalQuestions,
		MaxScore:       d.MaxScore,
		CreatedBy:      util.Int64ToNullInt64(d.CreatedBy),
		CreatedAt:      d.CreatedAt,
	}
}
