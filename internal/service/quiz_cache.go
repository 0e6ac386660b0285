package service

import (
	"context"
	"encoding/json"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// QuizCacheService defines cache-aside access to quiz projections. The cache
// is never the system of record: a nil return from Get means "go to the
// repository", whatever the reason.
type QuizCacheService interface {
	// GetQuizProjection returns the cached projection, or (nil, nil) when the
	// cache is unavailable, the key is absent, or the entry cannot be decoded.
	GetQuizProjection(ctx context.Context, quizID string) (*dto.QuizProjection, error)

	// PutQuizProjection stores the projection under the quiz key with the
	// configured TTL. The caller decides whether a failure matters.
	PutQuizProjection(ctx context.Context, projection *dto.QuizProjection) error

	// InvalidateQuiz drops the cached projection, if any.
	InvalidateQuiz(ctx context.Context, quizID string) error
}

type quizCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuizCacheService creates a new instance of quizCacheServiceImpl. A nil
// cache is tolerated; every lookup then behaves as a miss.
func NewQuizCacheService(cacheAdapter domain.Cache, ttl time.Duration) QuizCacheService {
	return &quizCacheServiceImpl{
		cache: cacheAdapter,
		ttl:   ttl,
	}
}

func (s *quizCacheServiceImpl) GetQuizProjection(ctx context.Context, quizID string) (*dto.QuizProjection, error) {
	if s.cache == nil {
		return nil, nil
	}

	key := cache.QuizKey(quizID)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if err == domain.ErrCacheMiss {
			return nil, nil
		}
		// An unreachable cache is a miss, not a failure.
		logger.Get().Warn("Quiz cache read failed, falling through to repository",
			zap.Error(err), zap.String("key", key))
		return nil, nil
	}

	var projection dto.QuizProjection
	if err := json.Unmarshal([]byte(cached), &projection); err != nil {
		logger.Get().Warn("Failed to unmarshal cached quiz projection, treating as miss",
			zap.Error(err), zap.String("key", key))
		return nil, nil
	}
	return &projection, nil
}

func (s *quizCacheServiceImpl) PutQuizProjection(ctx context.Context, projection *dto.QuizProjection) error {
	if s.cache == nil || projection == nil {
		return nil
	}

	data, err := json.Marshal(projection)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cache.QuizKey(projection.QuizID), string(data), s.ttl)
}

func (s *quizCacheServiceImpl) InvalidateQuiz(ctx context.Context, quizID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cache.QuizKey(quizID))
}
