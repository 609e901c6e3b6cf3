package service

import (
	"context"
	"encoding/json"
	"time"

	"placement-quiz/internal/cache"
	"placement-quiz/internal/domain"
	"placement-quiz/internal/dto"
	"placement-quiz/internal/logger"

	"go.uber.org/zap"
)

// QuestionCacheService caches fully generated question sets per domain.
// It is a read-through optimization only: every failure degrades to a store
// read, never to an error visible to the caller.
type QuestionCacheService interface {
	GetQuestions(ctx context.Context, domain string) ([]dto.QuestionResponse, error)
	PutQuestions(ctx context.Context, domain string, questions []dto.QuestionResponse) error
}

// questionCacheServiceImpl implements QuestionCacheService
type questionCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuestionCacheService creates a new instance of questionCacheServiceImpl
func NewQuestionCacheService(cacheAdapter domain.Cache, ttl time.Duration) QuestionCacheService {
	return &questionCacheServiceImpl{
		cache: cacheAdapter,
		ttl:   ttl,
	}
}

func questionCacheKey(quizDomain string) string {
	return cache.GenerateCacheKey("quiz", "questions", quizDomain)
}

// GetQuestions returns the cached question set for a domain, or (nil, nil)
// on a miss. Corrupt entries are dropped and treated as a miss.
func (s *questionCacheServiceImpl) GetQuestions(ctx context.Context, quizDomain string) ([]dto.QuestionResponse, error) {
	if s.cache == nil {
		return nil, nil
	}

	key := questionCacheKey(quizDomain)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err == domain.ErrCacheMiss {
			return nil, nil
		}
		logger.Get().Error("QuestionCacheService: cache read failed",
			zap.Error(err),
			zap.String("domain", quizDomain))
		return nil, err
	}

	var questions []dto.QuestionResponse
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		logger.Get().Warn("QuestionCacheService: dropping corrupt cache entry",
			zap.Error(err),
			zap.String("key", key))
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			logger.Get().Warn("QuestionCacheService: failed to delete corrupt entry",
				zap.Error(delErr),
				zap.String("key", key))
		}
		return nil, nil
	}

	return questions, nil
}

// PutQuestions stores a question set under the domain key with the
// configured TTL.
func (s *questionCacheServiceImpl) PutQuestions(ctx context.Context, quizDomain string, questions []dto.QuestionResponse) error {
	if s.cache == nil || len(questions) == 0 {
		return nil
	}

	payload, err := json.Marshal(questions)
	if err != nil {
		return err
	}

	return s.cache.Set(ctx, questionCacheKey(quizDomain), string(payload), s.ttl)
}
