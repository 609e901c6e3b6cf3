package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"placement-quiz/internal/domain"
	"placement-quiz/internal/dto"
	"placement-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService defines the core quiz operations exposed to handlers
type QuizService interface {
	// GetOrCreateQuiz returns the ordered question set for a domain,
	// generating and persisting it on first access. Idempotent at the API
	// layer: repeated calls converge to the same list.
	GetOrCreateQuiz(ctx context.Context, domain string) ([]dto.QuestionResponse, error)

	// GetDomains lists the known domain keys and their display titles.
	GetDomains() dto.DomainsResponse
}

// quizService implements QuizService
type quizService struct {
	repo          domain.QuizRepository
	generator     domain.QuestionGenerator
	txManager     domain.TransactionManager
	questionCache QuestionCacheService

	// group collapses concurrent first-time requests for the same domain
	// into one generation, so at most one model call is in flight per key.
	group singleflight.Group
}

// NewQuizService creates a new instance of quizService.
// questionCache may be nil when no cache backend is configured.
func NewQuizService(
	repo domain.QuizRepository,
	generator domain.QuestionGenerator,
	txManager domain.TransactionManager,
	questionCache QuestionCacheService,
) QuizService {
	return &quizService{
		repo:          repo,
		generator:     generator,
		txManager:     txManager,
		questionCache: questionCache,
	}
}

// GetOrCreateQuiz implements QuizService
func (s *quizService) GetOrCreateQuiz(ctx context.Context, quizDomain string) ([]dto.QuestionResponse, error) {
	quizDomain = strings.TrimSpace(quizDomain)
	if quizDomain == "" {
		return nil, domain.NewInvalidDomainError()
	}

	if s.questionCache != nil {
		cached, err := s.questionCache.GetQuestions(ctx, quizDomain)
		if err == nil && len(cached) > 0 {
			logger.Get().Debug("Serving question set from cache", zap.String("domain", quizDomain))
			return cached, nil
		}
		// Cache failures fall through to the store.
	}

	result, err, shared := s.group.Do(quizDomain, func() (interface{}, error) {
		return s.resolveQuestions(ctx, quizDomain)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Joined in-flight generation", zap.String("domain", quizDomain))
	}

	questions := result.([]domain.Question)
	response := toQuestionResponses(questions)

	if s.questionCache != nil {
		if cacheErr := s.questionCache.PutQuestions(ctx, quizDomain, response); cacheErr != nil {
			logger.Get().Warn("Failed to cache question set",
				zap.Error(cacheErr),
				zap.String("domain", quizDomain))
		}
	}

	return response, nil
}

// resolveQuestions runs the cache-or-generate sequence for one domain. It is
// executed under the singleflight group, so only one invocation per domain
// key runs at a time within this process.
func (s *quizService) resolveQuestions(ctx context.Context, quizDomain string) ([]domain.Question, error) {
	quiz, err := s.repo.GetQuizByDomain(ctx, quizDomain)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}

	if quiz == nil {
		quiz = &domain.Quiz{
			Domain: quizDomain,
			Title:  domain.TitleForDomain(quizDomain),
		}
		if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
			if !errors.Is(err, domain.ErrDuplicateQuiz) {
				return nil, domain.NewStoreUnavailableError(err)
			}
			// Another instance created the quiz first; adopt its row.
			quiz, err = s.repo.GetQuizByDomain(ctx, quizDomain)
			if err != nil {
				return nil, domain.NewStoreUnavailableError(err)
			}
			if quiz == nil {
				return nil, domain.NewInternalError("quiz vanished after duplicate-create conflict", nil)
			}
		} else {
			logger.Get().Info("Created quiz for new domain",
				zap.String("domain", quizDomain),
				zap.String("quiz_id", quiz.ID),
				zap.String("title", quiz.Title))
		}
	}

	existing, err := s.repo.GetQuestionsByQuizID(ctx, quiz.ID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	if len(existing) > 0 {
		// Persisted questions are authoritative; the model is not consulted.
		return existing, nil
	}

	generated, err := s.generator.GenerateQuestions(ctx, quizDomain, domain.QuestionsPerQuiz)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateGeneratedQuestions(generated); err != nil {
		logger.Get().Warn("Rejected malformed generation payload",
			zap.String("domain", quizDomain),
			zap.Int("received", len(generated)),
			zap.Error(err))
		return nil, err
	}

	batch := make([]domain.Question, 0, len(generated))
	for i, g := range generated {
		batch = append(batch, domain.Question{
			QuizID:        quiz.ID,
			Question:      g.Question,
			Options:       g.Options,
			CorrectAnswer: g.CorrectAnswer,
			QuestionOrder: i + 1,
		})
	}

	insertErr := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.InsertQuestions(txCtx, batch)
	})
	if insertErr != nil {
		if !errors.Is(insertErr, domain.ErrDuplicateQuestions) {
			return nil, domain.NewStoreUnavailableError(insertErr)
		}
		// Lost the cross-instance race; the winner's rows are authoritative.
		logger.Get().Info("Question insert lost uniqueness race, re-reading winner's set",
			zap.String("domain", quizDomain),
			zap.String("quiz_id", quiz.ID))
	} else {
		logger.Get().Info("Persisted generated question set",
			zap.String("domain", quizDomain),
			zap.String("quiz_id", quiz.ID),
			zap.Int("count", len(batch)))
	}

	// Always re-read so the response reflects exactly what is durably stored.
	persisted, err := s.repo.GetQuestionsByQuizID(ctx, quiz.ID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError(err)
	}
	if len(persisted) != domain.QuestionsPerQuiz {
		return nil, domain.NewInternalError("persisted question set is incomplete", nil)
	}
	return persisted, nil
}

// GetDomains implements QuizService
func (s *quizService) GetDomains() dto.DomainsResponse {
	known := domain.KnownDomains()
	domains := make([]dto.DomainInfo, 0, len(known))
	for key, title := range known {
		domains = append(domains, dto.DomainInfo{Domain: key, Title: title})
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].Domain < domains[j].Domain })
	return dto.DomainsResponse{Domains: domains}
}

func toQuestionResponses(questions []domain.Question) []dto.QuestionResponse {
	out := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, dto.QuestionResponse{
			ID:            q.ID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			QuestionOrder: q.QuestionOrder,
		})
	}
	return out
}
