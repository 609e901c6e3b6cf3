package middleware

import (
	"errors"
	"net/http"

	"placement-quiz/internal/domain"
	"placement-quiz/internal/dto"
	"placement-quiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the centralized error handler registered on the Fiber app.
// Failure detail is included in the response body only outside production.
func ErrorHandler(env string) fiber.ErrorHandler {
	includeDetail := env != "production"

	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			log.Error("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.String("path", c.Path()),
				zap.Error(domainErr.Cause),
			)

			response := dto.ErrorResponse{Message: domainErr.Message}
			if includeDetail && domainErr.Cause != nil {
				response.Error = domainErr.Cause.Error()
			}
			return c.Status(statusCode).JSON(response)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Message: fiberErr.Message})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		response := dto.ErrorResponse{Message: "Internal server error"}
		if includeDetail {
			response.Error = err.Error()
		}
		return c.Status(http.StatusInternalServerError).JSON(response)
	}
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes.
// Each member of the error taxonomy stays distinguishable so operators can
// tell client mistakes from provider outages from model contract violations.
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeInvalidDomain, domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeGenerationUnavailable:
		return http.StatusServiceUnavailable
	case domain.CodeGenerationFormatInvalid:
		return http.StatusBadGateway
	case domain.CodeStoreUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
