package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/ytscout/ytscout-go/internal/middleware"
	"github.com/ytscout/ytscout-go/internal/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CreditManager reads and resets caller balances.
type CreditManager interface {
	Balance(ctx context.Context, userID string) (*model.CreditAccount, error)
	ResetAll(ctx context.Context, amount int) (*model.CreditResetResponse, error)
}

// QueryHistory lists a caller's recent searches.
type QueryHistory interface {
	Recent(ctx context.Context, userID string, limit int) ([]model.QueryLogEntry, error)
}

type CreditHandler struct {
	credits CreditManager
	history QueryHistory
}

func NewCreditHandler(credits CreditManager, history QueryHistory) *CreditHandler {
	return &CreditHandler{credits: credits, history: history}
}

// Balance handles GET /api/credits
func (h *CreditHandler) Balance(c fiber.Ctx) error {
	account, err := h.credits.Balance(c.Context(), middleware.CallerID(c))
	if err != nil {
		return writeServiceError(c, err, "fetch credit balance")
	}
	return c.JSON(account)
}

// History handles GET /api/credits/history?limit=N
func (h *CreditHandler) History(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit", defaultHistoryLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "limit must be between 1 and 100")
	}

	entries, err := h.history.Recent(c.Context(), middleware.CallerID(c), limit)
	if err != nil {
		return writeServiceError(c, err, "fetch query history")
	}
	return c.JSON(fiber.Map{"queries": nonNil(entries)})
}

// Reset handles POST /api/admin/credits/reset
func (h *CreditHandler) Reset(c fiber.Ctx) error {
	var req model.CreditResetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	resp, err := h.credits.ResetAll(c.Context(), req.Amount)
	if err != nil {
		return writeServiceError(c, err, "reset credits")
	}

	middleware.Logger.Info().
		Int("amount", resp.Amount).
		Int64("affected", resp.Affected).
		Msg("credits reset")
	return c.JSON(resp)
}
