package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type quizServiceMocks struct {
	quizRepo       *MockQuizRepository
	submissionRepo *MockSubmissionRepository
	historyRepo    *MockQuizHistoryRepository
	txManager      *MockTransactionManager
	generator      *MockQuizGenerator
	evaluator      *MockSubmissionEvaluator
	cacheService   *MockQuizCacheService
}

func newQuizService() (QuizService, *quizServiceMocks) {
	m := &quizServiceMocks{
		quizRepo:       new(MockQuizRepository),
		submissionRepo: new(MockSubmissionRepository),
		historyRepo:    new(MockQuizHistoryRepository),
		txManager:      new(MockTransactionManager),
		generator:      new(MockQuizGenerator),
		evaluator:      new(MockSubmissionEvaluator),
		cacheService:   new(MockQuizCacheService),
	}
	svc := NewQuizService(m.quizRepo, m.submissionRepo, m.historyRepo, m.txManager, m.generator, m.evaluator, m.cacheService)
	return svc, m
}

func generateRequest() *dto.GenerateQuizRequest {
	return &dto.GenerateQuizRequest{
		Subject:        "Math",
		Grade:          5,
		Difficulty:     "EASY",
		TotalQuestions: 2,
		MaxScore:       10,
	}
}

func TestQuizService_GenerateQuiz_Success(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	questions := []domain.Question{
		{Text: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "B", Score: 5},
		{Text: "3+3?", Options: []string{"5", "6", "7", "8"}, CorrectAnswer: "B", Score: 5},
	}

	m.generator.On("GenerateQuestions", ctx, domain.GenerationSpec{
		Subject: "Math", Grade: 5, Difficulty: domain.DifficultyEasy, TotalQuestions: 2, MaxScore: 10,
	}).Return(questions, nil)
	m.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuiz", ctx, mock.MatchedBy(func(q *domain.Quiz) bool {
		return q.Subject == "Math" && q.CreatedBy == int64(7)
	})).Run(func(args mock.Arguments) {
		quiz := args.Get(1).(*domain.Quiz)
		quiz.ID = 42
		quiz.QuizID = "quiz-ext"
	}).Return(nil)
	m.quizRepo.On("CreateQuestions", ctx, int64(42), questions).Return(nil)

	resp, err := svc.GenerateQuiz(ctx, generateRequest(), 7)

	require.NoError(t, err)
	assert.Equal(t, "quiz-ext", resp.QuizID)

	// Generated question scores must add up to the requested max score.
	var scoreSum float64
	for _, q := range questions {
		scoreSum += q.Score
	}
	assert.Equal(t, generateRequest().MaxScore, scoreSum)

	m.quizRepo.AssertExpectations(t)
	m.generator.AssertExpectations(t)
}

func TestQuizService_GenerateQuiz_InvalidDifficulty(t *testing.T) {
	svc, m := newQuizService()

	req := generateRequest()
	req.Difficulty = "IMPOSSIBLE"

	resp, err := svc.GenerateQuiz(context.Background(), req, 7)

	require.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
	m.generator.AssertNotCalled(t, "GenerateQuestions", mock.Anything, mock.Anything)
}

func TestQuizService_GenerateQuiz_GenerationFailure(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	llmErr := domain.NewLLMServiceError(errors.New("rate limited"))
	m.generator.On("GenerateQuestions", ctx, mock.Anything).Return(nil, llmErr)

	resp, err := svc.GenerateQuiz(ctx, generateRequest(), 7)

	require.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
	m.txManager.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
}

func TestQuizService_GenerateQuiz_PersistenceFailure(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	questions := []domain.Question{
		{Text: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "A", Score: 10},
	}
	m.generator.On("GenerateQuestions", ctx, mock.Anything).Return(questions, nil)
	m.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuiz", ctx, mock.Anything).Return(domain.NewRepositoryFailureError("CreateQuiz", errors.New("down")))

	resp, err := svc.GenerateQuiz(ctx, generateRequest(), 7)

	require.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeQuizNotPersisted, domainErr.Code,
		"a generated but unpersisted quiz must stay distinguishable from a plain failure")
}

func testQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:             42,
		QuizID:         "quiz-ext",
		Subject:        "Math",
		Grade:          5,
		Difficulty:     domain.DifficultyEasy,
		TotalQuestions: 2,
		MaxScore:       10,
		CreatedAt:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Questions: []domain.Question{
			{ID: 100, QuestionID: "q-ext-1", Text: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "B", Score: 5, Hint: "count"},
			{ID: 101, QuestionID: "q-ext-2", Text: "3+3?", Options: []string{"5", "6", "7", "8"}, CorrectAnswer: "B", Score: 5},
		},
	}
}

func TestQuizService_GetQuiz_CacheHit(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	cached := &dto.QuizProjection{QuizID: "quiz-ext", Subject: "Math"}
	m.cacheService.On("GetQuizProjection", ctx, "quiz-ext").Return(cached, nil)

	result, err := svc.GetQuiz(ctx, "quiz-ext")

	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, cached, result.Quiz)
	m.quizRepo.AssertNotCalled(t, "GetQuizByID", mock.Anything, mock.Anything)
}

func TestQuizService_GetQuiz_CacheMissFillsCache(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	m.cacheService.On("GetQuizProjection", ctx, "quiz-ext").Return(nil, nil)
	m.quizRepo.On("GetQuizByID", ctx, "quiz-ext").Return(testQuiz(), nil)
	m.cacheService.On("PutQuizProjection", ctx, mock.MatchedBy(func(p *dto.QuizProjection) bool {
		return p.QuizID == "quiz-ext" && len(p.Questions) == 2
	})).Return(nil)

	result, err := svc.GetQuiz(ctx, "quiz-ext")

	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, "quiz-ext", result.Quiz.QuizID)
	assert.Equal(t, 2, result.Quiz.TotalQuestions)
	require.Len(t, result.Quiz.Questions, 2)
	assert.Equal(t, "q-ext-1", result.Quiz.Questions[0].QuestionID)
	m.cacheService.AssertExpectations(t)
}

func TestQuizService_GetQuiz_CacheWriteFailureIsNotFatal(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	m.cacheService.On("GetQuizProjection", ctx, "quiz-ext").Return(nil, nil)
	m.quizRepo.On("GetQuizByID", ctx, "quiz-ext").Return(testQuiz(), nil)
	m.cacheService.On("PutQuizProjection", ctx, mock.Anything).Return(errors.New("redis down"))

	result, err := svc.GetQuiz(ctx, "quiz-ext")

	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, "quiz-ext", result.Quiz.QuizID)
}

func TestQuizService_GetQuiz_NotFound(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	m.cacheService.On("GetQuizProjection", ctx, "missing").Return(nil, nil)
	m.quizRepo.On("GetQuizByID", ctx, "missing").Return(nil, nil)

	result, err := svc.GetQuiz(ctx, "missing")

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
	m.cacheService.AssertNotCalled(t, "PutQuizProjection", mock.Anything, mock.Anything)
}

func TestQuizService_SubmitQuiz_Success(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	req := &dto.SubmitQuizRequest{
		QuizID: "quiz-ext",
		Responses: []dto.SubmitResponseInput{
			{QuestionID: "q-ext-1", UserResponse: "B"},
			{QuestionID: "q-ext-2", UserResponse: "C"},
		},
	}

	m.quizRepo.On("GetQuizWithQuestions", ctx, "quiz-ext").Return(testQuiz(), nil)
	m.evaluator.On("EvaluateSubmission", ctx, mock.MatchedBy(func(input *domain.EvaluationInput) bool {
		return input.QuizPK == int64(42) &&
			input.UserID == int64(7) &&
			input.SubmissionID != "" &&
			len(input.Questions) == 2 &&
			len(input.Responses) == 2 &&
			input.Responses[1].Answer == "C"
	})).Return(&domain.EvaluationResult{
		Submission: domain.QuizSubmission{SubmissionID: "sub-ext", QuizID: 42, UserID: 7, ObtainedScore: 5},
		Responses: []domain.SubmissionResponse{
			{QuestionID: "q-ext-1", CorrectAnswer: "B", UserResponse: "B", IsCorrect: true},
			{QuestionID: "q-ext-2", CorrectAnswer: "B", UserResponse: "C", IsCorrect: false},
		},
	}, nil)
	m.submissionRepo.On("SaveQuizSubmission", ctx, mock.Anything, mock.Anything).Return("sub-ext", nil)

	resp, err := svc.SubmitQuiz(ctx, req, 7)

	require.NoError(t, err)
	assert.Equal(t, "sub-ext", resp.SubmissionID)
	m.submissionRepo.AssertExpectations(t)
}

func TestQuizService_SubmitQuiz_QuizNotFound(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	m.quizRepo.On("GetQuizWithQuestions", ctx, "missing").Return(nil, nil)

	resp, err := svc.SubmitQuiz(ctx, &dto.SubmitQuizRequest{QuizID: "missing"}, 7)

	require.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
	m.evaluator.AssertNotCalled(t, "EvaluateSubmission", mock.Anything, mock.Anything)
}

func TestQuizService_SubmitQuiz_EvaluatorFailure(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	m.quizRepo.On("GetQuizWithQuestions", ctx, "quiz-ext").Return(testQuiz(), nil)
	m.evaluator.On("EvaluateSubmission", ctx, mock.Anything).
		Return(nil, domain.NewLLMServiceError(errors.New("model unavailable")))

	resp, err := svc.SubmitQuiz(ctx, &dto.SubmitQuizRequest{QuizID: "quiz-ext"}, 7)

	require.Error(t, err)
	assert.Nil(t, resp)
	m.submissionRepo.AssertNotCalled(t, "SaveQuizSubmission", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizService_GetQuizHistory_MapsRows(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	filters := dto.HistoryFilters{Subject: "Math"}
	now := time.Now()
	rows := []domain.HistoryRow{
		{SubmissionID: "sub-2", QuizID: "quiz-ext", Subject: "Math", Grade: 5, Difficulty: domain.DifficultyEasy,
			ObtainedScore: 8, MaxScore: 10, PercentageScore: 80, SuggestionText: "good", SubmittedAt: now},
	}
	m.historyRepo.On("GetQuizHistory", ctx, int64(7), filters).Return(rows, nil)

	resp, err := svc.GetQuizHistory(ctx, 7, filters)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "sub-2", resp.Entries[0].SubmissionID)
	assert.Equal(t, 80.0, resp.Entries[0].PercentageScore)
	assert.Equal(t, "EASY", resp.Entries[0].Difficulty)
}

func TestQuizService_GetQuizHistory_EmptyResult(t *testing.T) {
	svc, m := newQuizService()
	ctx := context.Background()

	m.historyRepo.On("GetQuizHistory", ctx, int64(7), dto.HistoryFilters{}).Return([]domain.HistoryRow{}, nil)

	resp, err := svc.GetQuizHistory(ctx, 7, dto.HistoryFilters{})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Entries)
}
