package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ytscout/ytscout-go/internal/middleware"
	"github.com/ytscout/ytscout-go/internal/scraper"
	"github.com/ytscout/ytscout-go/internal/service"
)

// statusClientClosedRequest is the de facto status for requests the client
// abandoned; it is only ever seen in logs and metrics.
const statusClientClosedRequest = 499

// writeServiceError maps a pipeline or ledger error to the API error payload.
// Upstream and parse failures keep the source message for diagnosis.
func writeServiceError(c fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, service.ErrMissingQuery):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_QUERY", "q is required")
	case errors.Is(err, service.ErrMissingID):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_ID", "channelId is required")
	case errors.Is(err, service.ErrInvalidAmount):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
	case errors.Is(err, service.ErrInsufficientCredits):
		return middleware.ErrorResponse(c, fiber.StatusPaymentRequired, "INSUFFICIENT_CREDITS", "Not enough credits")
	case errors.Is(err, service.ErrAccountNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Credit account not found")
	case errors.Is(err, context.Canceled):
		return middleware.ErrorResponse(c, statusClientClosedRequest, "REQUEST_CANCELLED", "Request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return middleware.ErrorResponse(c, fiber.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "Upstream did not answer in time")
	case service.IsParseFailure(err):
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "PARSE_FAILURE", err.Error())
	case errors.Is(err, scraper.ErrUpstreamUnavailable):
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE", err.Error())
	default:
		middleware.Logger.Error().Err(err).Str("action", action).Msg("request failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action)
	}
}
