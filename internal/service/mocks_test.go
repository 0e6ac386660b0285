package service

import (
	"context"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) CreateQuestions(ctx context.Context, quizPK int64, questions []domain.Question) error {
	args := m.Called(ctx, quizPK, questions)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizWithQuestions(ctx context.Context, quizID string) (*domain.Quiz, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuestionHint(ctx context.Context, questionID string) (string, error) {
	args := m.Called(ctx, questionID)
	return args.String(0), args.Error(1)
}

// --- MockSubmissionRepository ---
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) SaveQuizSubmission(ctx context.Context, submission *domain.QuizSubmission, responses []domain.SubmissionResponse) (string, error) {
	args := m.Called(ctx, submission, responses)
	return args.String(0), args.Error(1)
}

// --- MockQuizHistoryRepository ---
type MockQuizHistoryRepository struct {
	mock.Mock
}

func (m *MockQuizHistoryRepository) GetQuizHistory(ctx context.Context, userID int64, filters dto.HistoryFilters) ([]domain.HistoryRow, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryRow), args.Error(1)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- MockTransactionManager ---
// Runs fn directly; an error configured on the mock short-circuits instead.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) GenerateQuestions(ctx context.Context, spec domain.GenerationSpec) ([]domain.Question, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

// --- MockSubmissionEvaluator ---
type MockSubmissionEvaluator struct {
	mock.Mock
}

func (m *MockSubmissionEvaluator) EvaluateSubmission(ctx context.Context, input *domain.EvaluationInput) (*domain.EvaluationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EvaluationResult), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockQuizCacheService ---
type MockQuizCacheService struct {
	mock.Mock
}

func (m *MockQuizCacheService) GetQuizProjection(ctx context.Context, quizID string) (*dto.QuizProjection, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuizProjection), args.Error(1)
}

func (m *MockQuizCacheService) PutQuizProjection(ctx context.Context, projection *dto.QuizProjection) error {
	args := m.Called(ctx, projection)
	return args.Error(0)
}

func (m *MockQuizCacheService) InvalidateQuiz(ctx context.Context, quizID string) error {
	args := m.Called(ctx, quizID)
	return args.Error(0)
}
