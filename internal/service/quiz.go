package service

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService is the application surface over quiz generation, reads,
// submissions and history.
type QuizService interface {
	// GenerateQuiz asks the generation collaborator for questions, then
	// persists the quiz and its questions atomically. When generation
	// succeeds but persistence fails the error carries CodeQuizNotPersisted,
	// so the transport layer can report partial success.
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest, userID int64) (*dto.GenerateQuizResponse, error)

	// GetQuiz serves the quiz projection cache-aside: cache hit when
	// possible, repository read plus cache fill otherwise.
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizDetailResult, error)

	// GetQuestionHint returns "" when the question is unknown or has no hint.
	GetQuestionHint(ctx context.Context, questionID string) (string, error)

	// SubmitQuiz grades the responses through the evaluation collaborator and
	// persists the verdict atomically.
	SubmitQuiz(ctx context.Context, req *dto.SubmitQuizRequest, userID int64) (*dto.SubmitQuizResponse, error)

	// GetQuizHistory answers the filtered history query for one user.
	GetQuizHistory(ctx context.Context, userID int64, filters dto.HistoryFilters) (*dto.QuizHistoryResponse, error)
}

type quizServiceImpl struct {
	quizRepo       domain.QuizRepository
	submissionRepo domain.SubmissionRepository
	historyRepo    domain.QuizHistoryRepository
	txManager      domain.TransactionManager
	generator      domain.QuizGenerator
	evaluator      domain.SubmissionEvaluator
	cacheService   QuizCacheService
	sfGroup        singleflight.Group
}

// NewQuizService creates a new instance of quizServiceImpl.
func NewQuizService(
	quizRepo domain.QuizRepository,
	submissionRepo domain.SubmissionRepository,
	historyRepo domain.QuizHistoryRepository,
	txManager domain.TransactionManager,
	generator domain.QuizGenerator,
	evaluator domain.SubmissionEvaluator,
	cacheService QuizCacheService,
) QuizService {
	return &quizServiceImpl{
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		historyRepo:    historyRepo,
		txManager:      txManager,
		generator:      generator,
		evaluator:      evaluator,
		cacheService:   cacheService,
	}
}

func (s *quizServiceImpl) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest, userID int64) (*dto.GenerateQuizResponse, error) {
	l := logger.Get()

	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}

	spec := domain.GenerationSpec{
		Subject:        req.Subject,
		Grade:          req.Grade,
		Difficulty:     difficulty,
		TotalQuestions: req.TotalQuestions,
		MaxScore:       req.MaxScore,
	}

	questions, err := s.generator.GenerateQuestions(ctx, spec)
	if err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		Subject:        req.Subject,
		Grade:          req.Grade,
		Difficulty:     difficulty,
		TotalQuestions: req.TotalQuestions,
		MaxScore:       req.MaxScore,
		CreatedBy:      userID,
	}

	// One transaction for the quiz row and all question rows. A partial
	// write never survives.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizRepo.CreateQuiz(txCtx, quiz); err != nil {
			return err
		}
		return s.quizRepo.CreateQuestions(txCtx, quiz.ID, questions)
	})
	if err != nil {
		l.Error("Generated quiz could not be persisted",
			zap.Error(err),
			zap.String("subject", req.Subject),
			zap.Int("questions", len(questions)))
		return nil, domain.NewQuizNotPersistedError(err)
	}

	l.Info("Quiz generated and persisted",
		zap.String("quiz_id", quiz.QuizID),
		zap.Int("questions", len(questions)))
	return &dto.GenerateQuizResponse{QuizID: quiz.QuizID}, nil
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, quizID string) (*dto.QuizDetailResult, error) {
	if cached, err := s.cacheService.GetQuizProjection(ctx, quizID); err == nil && cached != nil {
		return &dto.QuizDetailResult{Quiz: cached, Cached: true}, nil
	}

	// Concurrent misses for the same quiz share one repository read and one
	// cache fill.
	v, err, _ := s.sfGroup.Do(quizID, func() (interface{}, error) {
		quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if quiz == nil {
			return nil, domain.NewQuizNotFoundError(quizID)
		}

		projection := toQuizProjection(quiz)
		if putErr := s.cacheService.PutQuizProjection(ctx, projection); putErr != nil {
			logger.Get().Warn("Failed to cache quiz projection",
				zap.Error(putErr), zap.String("quiz_id", quizID))
		}
		return projection, nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.QuizDetailResult{Quiz: v.(*dto.QuizProjection), Cached: false}, nil
}

func (s *quizServiceImpl) GetQuestionHint(ctx context.Context, questionID string) (string, error) {
	return s.quizRepo.GetQuestionHint(ctx, questionID)
}

func (s *quizServiceImpl) SubmitQuiz(ctx context.Context, req *dto.SubmitQuizRequest, userID int64) (*dto.SubmitQuizResponse, error) {
	l := logger.Get()

	quiz, err := s.quizRepo.GetQuizWithQuestions(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(req.QuizID)
	}

	submissionID := util.NewULID()

	input := &domain.EvaluationInput{
		QuizPK:       quiz.ID,
		UserID:       userID,
		SubmissionID: submissionID,
		Questions:    quiz.Questions,
		Responses:    make([]domain.UserResponse, 0, len(req.Responses)),
	}
	for _, r := range req.Responses {
		input.Responses = append(input.Responses, domain.UserResponse{
			QuestionID: r.QuestionID,
			Answer:     r.UserResponse,
		})
	}

	result, err := s.evaluator.EvaluateSubmission(ctx, input)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("evaluator returned no result"))
	}

	savedID, err := s.submissionRepo.SaveQuizSubmission(ctx, &result.Submission, result.Responses)
	if err != nil {
		l.Error("Failed to save evaluated submission",
			zap.Error(err),
			zap.String("submission_id", submissionID),
			zap.String("quiz_id", req.QuizID))
		return nil, err
	}

	l.Info("Quiz submission evaluated and saved",
		zap.String("submission_id", savedID),
		zap.String("quiz_id", req.QuizID),
		zap.Float64("obtained_score", result.Submission.ObtainedScore))
	return &dto.SubmitQuizResponse{SubmissionID: savedID}, nil
}

func (s *quizServiceImpl) GetQuizHistory(ctx context.Context, userID int64, filters dto.HistoryFilters) (*dto.QuizHistoryResponse, error) {
	rows, err := s.historyRepo.GetQuizHistory(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dto.HistoryEntry{
			SubmissionID:     row.SubmissionID,
			QuizID:           row.QuizID,
			Subject:          row.Subject,
			Grade:            row.Grade,
			Difficulty:       string(row.Difficulty),
			ObtainedScore:    row.ObtainedScore,
			MaxPossibleScore: row.MaxScore,
			PercentageScore:  row.PercentageScore,
			SuggestionText:   row.SuggestionText,
			SubmittedAt:      row.SubmittedAt,
		})
	}

	return &dto.QuizHistoryResponse{Count: len(entries), Entries: entries}, nil
}

func toQuizProjection(quiz *domain.Quiz) *dto.QuizProjection {
	projection := &dto.QuizProjection{
		QuizID:         quiz.QuizID,
		Subject:        quiz.Subject,
		Grade:          quiz.Grade,
		Difficulty:     string(quiz.Difficulty),
		TotalQuestions: quiz.TotalQuestions,
		MaxScore:       quiz.MaxScore,
		CreatedAt:      quiz.CreatedAt.UTC().Truncate(time.Second),
		Questions:      make([]dto.QuestionProjection, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		projection.Questions = append(projection.Questions, dto.QuestionProjection{
			ID:            q.ID,
			QuestionID:    q.QuestionID,
			Question:      q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Score:         q.Score,
		})
	}
	return projection
}
