package handler

import (
	"context"

	"placement-quiz/internal/domain"
	"placement-quiz/internal/dto"
	"placement-quiz/internal/logger"
	"placement-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz handles GET /api/quiz/generate-quiz?domain=<string>.
// The response is the full ordered question set for the domain; the first
// call for a domain creates the quiz row and its questions as a side effect.
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	quizDomain := c.Query("domain")
	if quizDomain == "" {
		return domain.NewInvalidDomainError()
	}

	questions, err := h.service.GetOrCreateQuiz(c.UserContext(), quizDomain)
	if err != nil {
		logger.Get().Error("Failed to get or create quiz",
			zap.Error(err),
			zap.String("domain", quizDomain),
		)
		return err
	}

	return c.JSON(questions)
}

// GetDomains handles GET /api/quiz/domains.
func (h *QuizHandler) GetDomains(c *fiber.Ctx) error {
	return c.JSON(h.service.GetDomains())
}

// HealthHandler reports liveness of the process and its dependencies.
type HealthHandler struct {
	storePing func(ctx context.Context) error
	cachePing func(ctx context.Context) error
}

// NewHealthHandler creates a HealthHandler. cachePing may be nil when no
// cache backend is configured.
func NewHealthHandler(storePing, cachePing func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{storePing: storePing, cachePing: cachePing}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Store: "ok", Cache: "ok"}
	status := fiber.StatusOK

	if h.storePing != nil {
		if err := h.storePing(c.UserContext()); err != nil {
			resp.Store = "unavailable"
			resp.Status = "degraded"
			status = fiber.StatusServiceUnavailable
		}
	}

	if h.cachePing == nil {
		resp.Cache = "disabled"
	} else if err := h.cachePing(c.UserContext()); err != nil {
		// A cache outage degrades performance, not correctness.
		resp.Cache = "unavailable"
		if resp.Status == "ok" {
			resp.Status = "degraded"
		}
	}

	return c.Status(status).JSON(resp)
}
